// Package firedb is the SQLite store for cluster and wildfire rows. It
// wraps database/sql over the pure-Go sqlite driver; the schema is
// embedded and applied on open, so a fresh path becomes a working store
// with no external tooling.
package firedb

import (
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ashfall-data/wildfire.report/internal/cluster"
	"github.com/ashfall-data/wildfire.report/internal/fdc"
)

//go:embed schema.sql
var schemaSQL string

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB is the handle to the fire store.
type DB struct {
	*sql.DB
}

// applyPragmas applies the SQLite settings the ingest workload needs:
// WAL for concurrent reads during a fill, a busy timeout instead of
// immediate lock errors, and in-memory temp storage.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Open opens (creating if necessary) the store at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply PRAGMAs: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &DB{db}, nil
}

// InsertClusterList persists one scan's clusters inside a single
// transaction: either every cluster row lands or none do. An empty list
// writes the no-fire marker instead so the scan is not reprocessed.
func (db *DB) InsertClusterList(l *cluster.List) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin cluster insert: %w", err)
	}
	defer tx.Rollback()

	if len(l.Clusters) == 0 {
		if err := insertNoFireRow(tx, l); err != nil {
			return err
		}
		return tx.Commit()
	}

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO clusters
		(satellite, sector, scan_start, scan_end, lat, lon, power, max_scan_angle, pixels)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare cluster insert: %w", err)
	}
	defer stmt.Close()

	for i := range l.Clusters {
		c := &l.Clusters[i]
		centroid := c.Centroid()
		blob, err := c.Pixels().MarshalBinary()
		if err != nil {
			return fmt.Errorf("encode cluster pixels: %w", err)
		}
		_, err = stmt.Exec(
			l.Satellite.String(), l.Sector.String(),
			l.ScanStart.Unix(), l.ScanEnd.Unix(),
			centroid.Lat, centroid.Lon,
			c.Power(), c.MaxScanAngle(), blob,
		)
		if err != nil {
			return fmt.Errorf("insert cluster row: %w", err)
		}
	}
	return tx.Commit()
}

func insertNoFireRow(tx *sql.Tx, l *cluster.List) error {
	_, err := tx.Exec(`INSERT OR REPLACE INTO no_fire
		(satellite, sector, scan_start, scan_end) VALUES (?, ?, ?, ?)`,
		l.Satellite.String(), l.Sector.String(), l.ScanStart.Unix(), l.ScanEnd.Unix())
	if err != nil {
		return fmt.Errorf("insert no-fire row: %w", err)
	}
	return nil
}

// NewestScanStart returns the latest scan_start persisted for the
// satellite/sector pair, across both the clusters and no-fire tables.
// ok is false when the store has never seen that pair.
func (db *DB) NewestScanStart(sat fdc.Satellite, sector fdc.Sector) (t time.Time, ok bool, err error) {
	var newest sql.NullInt64
	err = db.QueryRow(`SELECT MAX(scan_start) FROM (
			SELECT scan_start FROM clusters WHERE satellite = ? AND sector = ?
			UNION ALL
			SELECT scan_start FROM no_fire WHERE satellite = ? AND sector = ?
		)`,
		sat.String(), sector.String(), sat.String(), sector.String()).Scan(&newest)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("newest scan start: %w", err)
	}
	if !newest.Valid {
		return time.Time{}, false, nil
	}
	return time.Unix(newest.Int64, 0).UTC(), true, nil
}

// Presence classifies whether a scan is already in the store.
type Presence int

const (
	// PresenceUnknown means the scan has never been processed.
	PresenceUnknown Presence = iota
	// PresenceClusters means cluster rows exist for the scan.
	PresenceClusters
	// PresenceNoFire means the scan was processed and had no detections.
	PresenceNoFire
)

// ScanPresence checks whether the identified scan was already processed,
// and with how many cluster rows if so.
func (db *DB) ScanPresence(id fdc.ScanID) (Presence, int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM clusters
			WHERE satellite = ? AND sector = ? AND scan_start = ? AND scan_end = ?`,
		id.Satellite.String(), id.Sector.String(), id.Start.Unix(), id.End.Unix()).Scan(&count)
	if err != nil {
		return PresenceUnknown, 0, fmt.Errorf("presence query: %w", err)
	}
	if count > 0 {
		return PresenceClusters, count, nil
	}

	var marker int
	err = db.QueryRow(`SELECT COUNT(*) FROM no_fire
			WHERE satellite = ? AND sector = ? AND scan_start = ? AND scan_end = ?`,
		id.Satellite.String(), id.Sector.String(), id.Start.Unix(), id.End.Unix()).Scan(&marker)
	if err != nil {
		return PresenceUnknown, 0, fmt.Errorf("no-fire presence query: %w", err)
	}
	if marker > 0 {
		return PresenceNoFire, 0, nil
	}
	return PresenceUnknown, 0, nil
}
