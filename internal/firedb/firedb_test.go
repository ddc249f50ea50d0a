package firedb

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ashfall-data/wildfire.report/internal/cluster"
	"github.com/ashfall-data/wildfire.report/internal/fdc"
	"github.com/ashfall-data/wildfire.report/internal/geom"
	"github.com/ashfall-data/wildfire.report/internal/testutil"
	"github.com/ashfall-data/wildfire.report/internal/track"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "fires.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func listWithClusters(start time.Time, powers ...float64) *cluster.List {
	var clusters []cluster.Cluster
	for i, p := range powers {
		c := cluster.NewCluster()
		c.AddPixel(testutil.CellPixel(3*i, 0, p))
		clusters = append(clusters, c)
	}
	return cluster.NewList(testutil.ScanAt(start), clusters)
}

var scanTime = time.Date(2021, 7, 24, 6, 0, 0, 0, time.UTC)

func TestInsertAndQueryClusterRows(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.InsertClusterList(listWithClusters(scanTime, 10, 25)))
	require.NoError(t, db.InsertClusterList(listWithClusters(scanTime.Add(time.Hour), 40)))

	it, err := db.QueryClusterRows(RowQuery{Satellite: fdc.G16, Sector: fdc.CONUS})
	require.NoError(t, err)
	defer it.Close()

	var rows []*track.ClusterRow
	for it.Next() {
		rows = append(rows, it.Row())
	}
	require.NoError(t, it.Err())
	require.Len(t, rows, 3)

	// Ordered by scan_start ascending.
	require.False(t, rows[0].ScanStart.After(rows[1].ScanStart))
	require.False(t, rows[1].ScanStart.After(rows[2].ScanStart))
	require.True(t, rows[2].ScanStart.Equal(scanTime.Add(time.Hour)))
	require.Equal(t, 40.0, rows[2].Power)

	// The pixel footprint survives the blob round trip.
	require.Len(t, rows[2].Pixels, 1)
	require.Equal(t, 440.0, rows[2].MaxTemperature())
}

func TestInsertClusterListIsUpsert(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.InsertClusterList(listWithClusters(scanTime, 10)))
	require.NoError(t, db.InsertClusterList(listWithClusters(scanTime, 10)))

	kind, count, err := db.ScanPresence(testutil.ScanAt(scanTime))
	require.NoError(t, err)
	require.Equal(t, PresenceClusters, kind)
	require.Equal(t, 1, count)
}

func TestNoFireMarker(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.InsertClusterList(listWithClusters(scanTime)))

	kind, _, err := db.ScanPresence(testutil.ScanAt(scanTime))
	require.NoError(t, err)
	require.Equal(t, PresenceNoFire, kind)

	// The marker still advances the newest-scan clock.
	newest, ok, err := db.NewestScanStart(fdc.G16, fdc.CONUS)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, newest.Equal(scanTime))
}

func TestScanPresenceUnknown(t *testing.T) {
	db := openTestDB(t)
	kind, _, err := db.ScanPresence(testutil.ScanAt(scanTime))
	require.NoError(t, err)
	require.Equal(t, PresenceUnknown, kind)

	_, ok, err := db.NewestScanStart(fdc.G17, fdc.FullDisk)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestQueryFilters(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.InsertClusterList(listWithClusters(scanTime, 10)))
	require.NoError(t, db.InsertClusterList(listWithClusters(scanTime.Add(2*time.Hour), 20)))

	// Time window excluding the first scan.
	start := scanTime.Add(time.Hour)
	it, err := db.QueryClusterRows(RowQuery{Start: &start})
	require.NoError(t, err)
	defer it.Close()

	var count int
	for it.Next() {
		require.Equal(t, 20.0, it.Row().Power)
		count++
	}
	require.NoError(t, it.Err())
	require.Equal(t, 1, count)

	// Spatial box excluding everything.
	box := geom.BoundingBox{LL: geom.Coord{Lat: -10, Lon: 0}, UR: geom.Coord{Lat: 10, Lon: 20}}
	it2, err := db.QueryClusterRows(RowQuery{Box: &box})
	require.NoError(t, err)
	defer it2.Close()
	require.False(t, it2.Next())
	require.NoError(t, it2.Err())
}

func TestFirePersistence(t *testing.T) {
	db := openTestDB(t)

	maxID, err := db.MaxFireID()
	require.NoError(t, err)
	require.Equal(t, uint32(0), maxID)

	pl := fdc.PixelList{testutil.CellPixel(1, 1, 10)}
	row := &track.ClusterRow{
		Satellite: fdc.G16,
		Sector:    fdc.CONUS,
		ScanStart: scanTime,
		ScanEnd:   scanTime.Add(5 * time.Minute),
		Power:     10,
		Centroid:  pl.Centroid(),
		Pixels:    pl,
	}
	fire := track.NewWildfire(12, row)
	require.NoError(t, db.InsertFires([]*track.Wildfire{fire}))

	maxID, err = db.MaxFireID()
	require.NoError(t, err)
	require.Equal(t, uint32(12), maxID)

	// Upsert on id: re-inserting the same fire does not duplicate it.
	require.NoError(t, db.InsertFires([]*track.Wildfire{fire}))
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM fires`).Scan(&n))
	require.Equal(t, 1, n)
}

func TestMergeEvents(t *testing.T) {
	db := openTestDB(t)

	events := []track.MergeEvent{
		{SurvivorID: 1, AbsorbedID: 2},
		{SurvivorID: 1, AbsorbedID: 3},
	}
	require.NoError(t, db.InsertMergeEvents(events, scanTime))

	var n int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM fire_merges WHERE survivor_id = 1`).Scan(&n))
	require.Equal(t, 2, n)
}

func TestInsertClusterListFailsOnClosedStore(t *testing.T) {
	db := openTestDB(t)

	// Closing the database underneath the insert forces a failure, which
	// must come back to the caller as an error.
	l := listWithClusters(scanTime, 10, 20)
	require.NoError(t, db.Close())
	require.Error(t, db.InsertClusterList(l))
}
