package findfire

import (
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/alitto/pond"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/ashfall-data/wildfire.report/internal/cluster"
	"github.com/ashfall-data/wildfire.report/internal/config"
	"github.com/ashfall-data/wildfire.report/internal/fdc"
	"github.com/ashfall-data/wildfire.report/internal/firedb"
	"github.com/ashfall-data/wildfire.report/internal/fsutil"
	"github.com/ashfall-data/wildfire.report/internal/mailbox"
	"github.com/ashfall-data/wildfire.report/internal/timeutil"
)

// Stats summarises one ingest run.
type Stats struct {
	RunID          string
	ScansSeen      int // scan files encountered by the walker
	ScansSkipped   int // already present in the store
	ClusterLists   int // lists persisted with at least one cluster
	Clusters       int
	NoFireScans    int
	DecodeFailures int
	InsertFailures int
	MeanPower      float64 // mean cluster power, MW
	MaxPower       float64 // hottest cluster power, MW
	Duration       time.Duration
}

// Pipeline wires the three ingest stages together:
//
//	directory walker → [paths] → N decode workers → [cluster lists] → db filler
//
// Mailbox operations are the only blocking points between stages; workers
// shut down cooperatively by deregistering as the tree and queues drain.
type Pipeline struct {
	cfg     *config.TuningConfig
	decoder ScanDecoder
	fs      fsutil.FileSystem
	clock   timeutil.Clock

	fillerDB *firedb.DB
	walkerDB *firedb.DB
}

// New builds a pipeline over the given store path. The walker and the
// filler each get their own connection; no database handle is shared
// across stages.
func New(cfg *config.TuningConfig, decoder ScanDecoder) (*Pipeline, error) {
	fillerDB, err := firedb.Open(cfg.GetDatabasePath())
	if err != nil {
		return nil, fmt.Errorf("open filler store: %w", err)
	}
	walkerDB, err := firedb.Open(cfg.GetDatabasePath())
	if err != nil {
		fillerDB.Close()
		return nil, fmt.Errorf("open walker store: %w", err)
	}
	return &Pipeline{
		cfg:      cfg,
		decoder:  decoder,
		fs:       fsutil.OSFileSystem{},
		clock:    timeutil.RealClock{},
		fillerDB: fillerDB,
		walkerDB: walkerDB,
	}, nil
}

// Close releases the pipeline's store connections.
func (p *Pipeline) Close() error {
	err1 := p.fillerDB.Close()
	err2 := p.walkerDB.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// Run ingests every unprocessed scan file under root and returns the run
// statistics. It blocks until the pipeline has drained.
func (p *Pipeline) Run(root string) (Stats, error) {
	stats := Stats{RunID: uuid.New().String()}
	started := p.clock.Now()

	numWorkers := p.cfg.GetDecodeWorkers()
	paths := mailbox.New[string](p.cfg.GetMailboxCapacity())
	lists := mailbox.New[*cluster.List](p.cfg.GetMailboxCapacity())

	// Register every stage before any goroutine starts, so no stage can
	// observe a transient zero count and shut down early.
	paths.RegisterSender()
	for i := 0; i < numWorkers; i++ {
		paths.RegisterReceiver()
		lists.RegisterSender()
	}
	lists.RegisterReceiver()

	log.Printf("ingest run %s: walking %s with %d decode workers", stats.RunID, root, numWorkers)

	walkErr := make(chan error, 1)
	go func() {
		defer paths.DeregisterSender()
		walkErr <- p.walk(root, paths, &stats)
	}()

	pool := pond.New(numWorkers, 0, pond.MinWorkers(numWorkers))
	for i := 0; i < numWorkers; i++ {
		pool.Submit(func() {
			defer paths.DeregisterReceiver()
			defer lists.DeregisterSender()
			p.decodeWorker(paths, lists)
		})
	}

	// The filler runs on the driver goroutine.
	var powers []float64
	p.fill(lists, &stats, &powers)
	pool.StopAndWait()

	if err := <-walkErr; err != nil {
		return stats, fmt.Errorf("walk %s: %w", root, err)
	}

	if len(powers) > 0 {
		stats.MeanPower = stat.Mean(powers, nil)
		stats.MaxPower = lo.Max(powers)
	}
	stats.Duration = p.clock.Since(started)

	log.Printf("ingest run %s: %d scans (%d skipped), %d cluster lists, %d clusters, %d no-fire, %d decode failures in %s",
		stats.RunID, stats.ScansSeen, stats.ScansSkipped, stats.ClusterLists,
		stats.Clusters, stats.NoFireScans, stats.DecodeFailures, stats.Duration)
	return stats, nil
}

// walk feeds unprocessed scan file paths into the paths mailbox. Files
// that do not parse as FDC products are ignored; scans already in the
// store are skipped.
func (p *Pipeline) walk(root string, paths *mailbox.Mailbox[string], stats *Stats) error {
	return p.fs.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		id, err := fdc.ParseScanFileName(path)
		if err != nil {
			return nil
		}
		stats.ScansSeen++

		presence, _, err := p.walkerDB.ScanPresence(id)
		if err != nil {
			return err
		}
		if presence != firedb.PresenceUnknown {
			stats.ScansSkipped++
			return nil
		}

		if !paths.Send(path) {
			// Every decoder is gone; nothing will consume further paths.
			return fs.SkipAll
		}
		return nil
	})
}

// decodeWorker drains the paths mailbox: decode, cluster, filter, and
// forward each scan's cluster list. A failed decode forwards the
// error-state list so the filler can account for it.
func (p *Pipeline) decodeWorker(paths *mailbox.Mailbox[string], lists *mailbox.Mailbox[*cluster.List]) {
	eps := p.cfg.GetGeometryEpsilon()
	for {
		path, ok := paths.Receive()
		if !ok {
			return
		}

		id, points, err := p.decoder.Decode(path)
		if err != nil {
			if !lists.Send(cluster.NewErrorList(id, err)) {
				return
			}
			continue
		}

		l := cluster.NewList(id, cluster.FromFirePoints(points))
		l.FilterBox(id.Satellite.ValidDataBox(), eps)
		l.FilterMaxScanAngle(p.cfg.GetMaxScanAngle())
		if !lists.Send(l) {
			return
		}
	}
}

// fill drains the lists mailbox into the store, one transaction per
// cluster list, and accumulates the run statistics.
func (p *Pipeline) fill(lists *mailbox.Mailbox[*cluster.List], stats *Stats, powers *[]float64) {
	defer lists.DeregisterReceiver()

	for {
		l, ok := lists.Receive()
		if !ok {
			return
		}

		if l.Err != nil {
			stats.DecodeFailures++
			log.Printf("decode failure for %v %v scan at %v: %v",
				l.Satellite, l.Sector, l.ScanStart, l.Err)
			continue
		}

		if err := p.fillerDB.InsertClusterList(l); err != nil {
			stats.InsertFailures++
			log.Printf("insert failure for %v %v scan at %v: %v",
				l.Satellite, l.Sector, l.ScanStart, err)
			continue
		}

		if len(l.Clusters) == 0 {
			stats.NoFireScans++
			continue
		}
		stats.ClusterLists++
		stats.Clusters += len(l.Clusters)
		for i := range l.Clusters {
			*powers = append(*powers, l.Clusters[i].Power())
		}
	}
}
