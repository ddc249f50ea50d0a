package firedb

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ashfall-data/wildfire.report/internal/fdc"
	"github.com/ashfall-data/wildfire.report/internal/geom"
	"github.com/ashfall-data/wildfire.report/internal/track"
)

// RowQuery selects cluster rows for the temporal tracker. Every filter is
// optional; results always come back ordered by scan_start ascending.
type RowQuery struct {
	Satellite fdc.Satellite // SatelliteNone matches all
	Sector    fdc.Sector    // SectorNone matches all
	Start     *time.Time    // inclusive lower bound on scan_start
	End       *time.Time    // inclusive upper bound on scan_start
	Box       *geom.BoundingBox
}

// QueryClusterRows streams the rows matching q. The caller must exhaust
// or Close the iterator.
func (db *DB) QueryClusterRows(q RowQuery) (*ClusterRowIter, error) {
	var (
		where []string
		args  []any
	)
	if q.Satellite != fdc.SatelliteNone {
		where = append(where, "satellite = ?")
		args = append(args, q.Satellite.String())
	}
	if q.Sector != fdc.SectorNone {
		where = append(where, "sector = ?")
		args = append(args, q.Sector.String())
	}
	if q.Start != nil {
		where = append(where, "scan_start >= ?")
		args = append(args, q.Start.Unix())
	}
	if q.End != nil {
		where = append(where, "scan_start <= ?")
		args = append(args, q.End.Unix())
	}
	if q.Box != nil {
		where = append(where, "lat >= ? AND lat <= ? AND lon >= ? AND lon <= ?")
		args = append(args, q.Box.LL.Lat, q.Box.UR.Lat, q.Box.LL.Lon, q.Box.UR.Lon)
	}

	query := `SELECT satellite, sector, scan_start, scan_end, lat, lon, power, max_scan_angle, pixels
		FROM clusters`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY scan_start ASC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("cluster row query: %w", err)
	}
	return &ClusterRowIter{rows: rows}, nil
}

// ClusterRowIter streams ClusterRows from a query.
type ClusterRowIter struct {
	rows *sql.Rows
	row  *track.ClusterRow
	err  error
}

// Next advances to the next row, reporting false at the end of the stream
// or on error; check Err after the loop.
func (it *ClusterRowIter) Next() bool {
	if it.err != nil || !it.rows.Next() {
		return false
	}

	var (
		satStr, secStr     string
		startUnix, endUnix int64
		lat, lon           float64
		power, maxAngle    float64
		blob               []byte
	)
	if err := it.rows.Scan(&satStr, &secStr, &startUnix, &endUnix,
		&lat, &lon, &power, &maxAngle, &blob); err != nil {
		it.err = fmt.Errorf("scan cluster row: %w", err)
		return false
	}

	sat, err := fdc.ParseSatellite(satStr)
	if err != nil {
		it.err = err
		return false
	}
	sector, err := fdc.ParseSector(secStr)
	if err != nil {
		it.err = err
		return false
	}
	pixels, err := fdc.UnmarshalPixelList(blob)
	if err != nil {
		it.err = fmt.Errorf("decode cluster row pixels: %w", err)
		return false
	}

	it.row = &track.ClusterRow{
		Satellite:    sat,
		Sector:       sector,
		ScanStart:    time.Unix(startUnix, 0).UTC(),
		ScanEnd:      time.Unix(endUnix, 0).UTC(),
		Power:        power,
		MaxScanAngle: maxAngle,
		Centroid:     geom.Coord{Lat: lat, Lon: lon},
		Pixels:       pixels,
	}
	return true
}

// Row returns the row produced by the last successful Next. Ownership
// transfers to the caller; the iterator does not retain it.
func (it *ClusterRowIter) Row() *track.ClusterRow {
	r := it.row
	it.row = nil
	return r
}

// Err returns the first error encountered while iterating.
func (it *ClusterRowIter) Err() error {
	if it.err != nil {
		return it.err
	}
	return it.rows.Err()
}

// Close releases the underlying result set.
func (it *ClusterRowIter) Close() error {
	return it.rows.Close()
}
