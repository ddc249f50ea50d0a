// Package connectfire runs the temporal tracker: it streams persisted
// cluster rows in scan_start order, partitioned by satellite, and drives
// the wildfire state machine over them. The tracker is single-threaded on
// purpose; its state is inherently sequential over time.
package connectfire

import (
	"fmt"
	"log"
	"time"

	"github.com/ashfall-data/wildfire.report/internal/config"
	"github.com/ashfall-data/wildfire.report/internal/fdc"
	"github.com/ashfall-data/wildfire.report/internal/firedb"
	"github.com/ashfall-data/wildfire.report/internal/track"
)

// Stats summarises one tracking run.
type Stats struct {
	RowsProcessed int
	FiresSpawned  int
	FiresUpdated  int
	FiresMerged   int // absorbed fires persisted by merge sweeps
	FiresRetired  int // stale fires drained to the store
	FiresLive     int // live fires checkpointed at end of stream
}

// Tracker owns the store connection and tuning for one run.
type Tracker struct {
	db  *firedb.DB
	cfg *config.TuningConfig
}

// New opens a tracker over the configured store.
func New(cfg *config.TuningConfig) (*Tracker, error) {
	db, err := firedb.Open(cfg.GetDatabasePath())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &Tracker{db: db, cfg: cfg}, nil
}

// Close releases the store connection.
func (t *Tracker) Close() error { return t.db.Close() }

// satState is the per-satellite tracking state: the live fires plus the
// batch of rows sharing the current time step.
type satState struct {
	live       *track.List
	batch      []*track.ClusterRow
	batchStart time.Time
}

// Run streams the cluster rows matching q through the wildfire state
// machine. Fires retired or absorbed along the way are persisted as they
// drain; the fires still live at end of stream are checkpointed.
func (t *Tracker) Run(q firedb.RowQuery) (Stats, error) {
	var stats Stats

	maxID, err := t.db.MaxFireID()
	if err != nil {
		return stats, err
	}
	nextID := maxID + 1

	states := make(map[fdc.Satellite]*satState)
	stateFor := func(sat fdc.Satellite) *satState {
		s, ok := states[sat]
		if !ok {
			s = &satState{live: track.NewList()}
			states[sat] = s
		}
		return s
	}

	it, err := t.db.QueryClusterRows(q)
	if err != nil {
		return stats, err
	}
	defer it.Close()

	for it.Next() {
		row := it.Row()
		stats.RowsProcessed++

		s := stateFor(row.Satellite)
		if len(s.batch) > 0 && !row.ScanStart.Equal(s.batchStart) {
			if err := t.flushBatch(s, &nextID, &stats); err != nil {
				return stats, err
			}
		}
		if len(s.batch) == 0 {
			s.batchStart = row.ScanStart
		}
		s.batch = append(s.batch, row)
	}
	if err := it.Err(); err != nil {
		return stats, err
	}

	for _, s := range states {
		if err := t.flushBatch(s, &nextID, &stats); err != nil {
			return stats, err
		}
		// End of stream: checkpoint whatever is still burning.
		if err := t.db.InsertFires(s.live.Fires()); err != nil {
			return stats, fmt.Errorf("checkpoint live fires: %w", err)
		}
		stats.FiresLive += s.live.Len()
	}

	log.Printf("connect run: %d rows, %d spawned, %d updated, %d merged, %d retired, %d live",
		stats.RowsProcessed, stats.FiresSpawned, stats.FiresUpdated,
		stats.FiresMerged, stats.FiresRetired, stats.FiresLive)
	return stats, nil
}

// flushBatch applies one time step's rows to the satellite's live fires,
// then runs the merge sweep and the stale drain, persisting everything
// that falls out.
func (t *Tracker) flushBatch(s *satState, nextID *uint32, stats *Stats) error {
	if len(s.batch) == 0 {
		return nil
	}
	eps := t.cfg.GetGeometryEpsilon()
	now := s.batchStart

	for _, row := range s.batch {
		if s.live.TryUpdate(row, eps) {
			stats.FiresUpdated++
			continue
		}
		s.live.Add(track.NewWildfire(*nextID, row))
		*nextID++
		stats.FiresSpawned++
	}
	s.batch = s.batch[:0]

	merged, events := s.live.MergeFires(eps)
	if len(events) > 0 {
		if err := t.db.InsertMergeEvents(events, now); err != nil {
			return fmt.Errorf("persist merge events: %w", err)
		}
		if err := t.db.InsertFires(merged.Fires()); err != nil {
			return fmt.Errorf("persist absorbed fires: %w", err)
		}
		stats.FiresMerged += merged.Len()
	}

	stale := s.live.DrainStale(now, t.cfg.GetStaleGracePeriod(), t.cfg.GetStaleMaximumGap())
	if stale.Len() > 0 {
		if err := t.db.InsertFires(stale.Fires()); err != nil {
			return fmt.Errorf("persist retired fires: %w", err)
		}
		stats.FiresRetired += stale.Len()
	}
	return nil
}
