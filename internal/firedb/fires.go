package firedb

import (
	"fmt"
	"time"

	"github.com/ashfall-data/wildfire.report/internal/fdc"
	"github.com/ashfall-data/wildfire.report/internal/geom"
	"github.com/ashfall-data/wildfire.report/internal/track"
)

// FireRow is one persisted wildfire as read back from the fires table.
type FireRow struct {
	ID             uint32
	Satellite      fdc.Satellite
	FirstObserved  time.Time
	LastObserved   time.Time
	Centroid       geom.Coord
	MaxPower       float64
	MaxTemperature float64
	Pixels         fdc.PixelList
}

// MaxFireID returns the largest wildfire id ever persisted, or 0 for an
// empty store. The tracker continues id assignment from max + 1 when
// restarting over a populated store.
func (db *DB) MaxFireID() (uint32, error) {
	var maxID int64
	err := db.QueryRow(`SELECT COALESCE(MAX(id), 0) FROM fires`).Scan(&maxID)
	if err != nil {
		return 0, fmt.Errorf("max fire id: %w", err)
	}
	return uint32(maxID), nil
}

// InsertFires persists a batch of wildfires in one transaction. Retired
// fires land here permanently; live fires may be checkpointed with the
// same call, since the id primary key makes the write an upsert.
func (db *DB) InsertFires(fires []*track.Wildfire) error {
	if len(fires) == 0 {
		return nil
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin fire insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO fires
		(id, satellite, first_observed, last_observed, lat, lon, max_power, max_temperature, pixels)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare fire insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range fires {
		blob, err := f.Pixels().MarshalBinary()
		if err != nil {
			return fmt.Errorf("encode fire %d pixels: %w", f.ID(), err)
		}
		c := f.Centroid()
		_, err = stmt.Exec(
			int64(f.ID()), f.Satellite().String(),
			f.FirstObserved().Unix(), f.LastObserved().Unix(),
			c.Lat, c.Lon, f.MaxPower(), f.MaxTemperature(), blob,
		)
		if err != nil {
			return fmt.Errorf("insert fire %d: %w", f.ID(), err)
		}
	}
	return tx.Commit()
}

// QueryFires reads back persisted wildfires, most powerful first. The
// satellite filter is optional.
func (db *DB) QueryFires(sat fdc.Satellite) ([]FireRow, error) {
	query := `SELECT id, satellite, first_observed, last_observed, lat, lon, max_power, max_temperature, pixels
		FROM fires`
	var args []any
	if sat != fdc.SatelliteNone {
		query += ` WHERE satellite = ?`
		args = append(args, sat.String())
	}
	query += ` ORDER BY max_power DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fire query: %w", err)
	}
	defer rows.Close()

	var fires []FireRow
	for rows.Next() {
		var (
			id                  int64
			satStr              string
			firstUnix, lastUnix int64
			lat, lon            float64
			maxPower, maxTemp   float64
			blob                []byte
		)
		if err := rows.Scan(&id, &satStr, &firstUnix, &lastUnix,
			&lat, &lon, &maxPower, &maxTemp, &blob); err != nil {
			return nil, fmt.Errorf("scan fire row: %w", err)
		}
		rowSat, err := fdc.ParseSatellite(satStr)
		if err != nil {
			return nil, err
		}
		pixels, err := fdc.UnmarshalPixelList(blob)
		if err != nil {
			return nil, fmt.Errorf("decode fire %d pixels: %w", id, err)
		}
		fires = append(fires, FireRow{
			ID:             uint32(id),
			Satellite:      rowSat,
			FirstObserved:  time.Unix(firstUnix, 0).UTC(),
			LastObserved:   time.Unix(lastUnix, 0).UTC(),
			Centroid:       geom.Coord{Lat: lat, Lon: lon},
			MaxPower:       maxPower,
			MaxTemperature: maxTemp,
			Pixels:         pixels,
		})
	}
	return fires, rows.Err()
}

// InsertMergeEvents records the absorptions from a merge sweep.
func (db *DB) InsertMergeEvents(events []track.MergeEvent, at time.Time) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin merge insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO fire_merges (survivor_id, absorbed_id, merged_at)
		VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare merge insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.Exec(int64(e.SurvivorID), int64(e.AbsorbedID), at.Unix()); err != nil {
			return fmt.Errorf("insert merge event: %w", err)
		}
	}
	return tx.Commit()
}
