// Package track maintains long-lived wildfire objects across scans: it
// matches freshly observed clusters to live fires by footprint geometry,
// merges fires that have grown together, and retires fires that have gone
// dormant for too long.
package track

import (
	"fmt"
	"math"
	"time"

	"github.com/ashfall-data/wildfire.report/internal/fdc"
	"github.com/ashfall-data/wildfire.report/internal/geom"
)

// ClusterRow is a single persisted cluster as it comes back from the
// store, in scan_start order. Its pixel list is the cluster's footprint.
type ClusterRow struct {
	Satellite    fdc.Satellite
	Sector       fdc.Sector
	ScanStart    time.Time
	ScanEnd      time.Time
	Power        float64
	MaxScanAngle float64
	Centroid     geom.Coord
	Pixels       fdc.PixelList
}

// MaxTemperature derives the row's hottest pixel temperature from its
// footprint. The clusters table stores no temperature column; the blob
// carries the per-pixel values.
func (r *ClusterRow) MaxTemperature() float64 {
	return r.Pixels.MaxTemperature()
}

// Wildfire is a persistent fire object aggregating the clusters observed
// for one burn over hours to months. It exclusively owns its pixel list;
// the centroid is recomputed from the footprint after every mutation. The
// id is assigned once at creation and the satellite never changes.
type Wildfire struct {
	id            uint32
	firstObserved time.Time
	lastObserved  time.Time
	centroid      geom.Coord
	maxPower      float64
	maxTemp       float64
	satellite     fdc.Satellite
	pixels        fdc.PixelList
}

// NewWildfire spawns a fire from its first observed cluster, stealing the
// row's pixel list. The row must not be read afterwards.
func NewWildfire(id uint32, row *ClusterRow) *Wildfire {
	w := &Wildfire{
		id:            id,
		firstObserved: row.ScanStart,
		lastObserved:  row.ScanEnd,
		centroid:      row.Centroid,
		maxPower:      row.Power,
		maxTemp:       row.MaxTemperature(),
		satellite:     row.Satellite,
		pixels:        row.Pixels,
	}
	row.Pixels = nil
	return w
}

// ID returns the fire's immutable identifier.
func (w *Wildfire) ID() uint32 { return w.id }

// Satellite returns the satellite this fire is observed by.
func (w *Wildfire) Satellite() fdc.Satellite { return w.satellite }

// FirstObserved returns the scan start of the fire's first observation.
func (w *Wildfire) FirstObserved() time.Time { return w.firstObserved }

// LastObserved returns the scan end of the fire's latest observation.
func (w *Wildfire) LastObserved() time.Time { return w.lastObserved }

// Centroid returns the centroid of the fire's footprint.
func (w *Wildfire) Centroid() geom.Coord { return w.centroid }

// MaxPower returns the largest cluster power ever observed, in MW.
func (w *Wildfire) MaxPower() float64 { return w.maxPower }

// MaxTemperature returns the hottest pixel temperature ever observed, in K.
func (w *Wildfire) MaxTemperature() float64 { return w.maxTemp }

// Pixels returns the fire's footprint. The fire retains ownership.
func (w *Wildfire) Pixels() fdc.PixelList { return w.pixels }

// PixelCount returns the footprint size in pixels.
func (w *Wildfire) PixelCount() int { return len(w.pixels) }

// Update folds a new observation into the fire: maxima advance, the
// observation clock moves to the row's scan end, the footprint absorbs
// the row's pixels by max-merge, and the centroid is recomputed. The row's
// pixel list is consumed. Updating a fire with a row from a different
// satellite is a programming error.
func (w *Wildfire) Update(row *ClusterRow, eps float64) {
	if row.Satellite != w.satellite {
		panic(fmt.Sprintf("track: update of %v fire %d with %v row",
			w.satellite, w.id, row.Satellite))
	}
	w.maxPower = math.Max(w.maxPower, row.Power)
	w.maxTemp = math.Max(w.maxTemp, row.MaxTemperature())
	w.lastObserved = row.ScanEnd
	w.pixels = w.pixels.MaxMerge(row.Pixels, eps)
	row.Pixels = nil
	w.centroid = w.pixels.Centroid()
}

// absorb merges other into w during a merge sweep: observation interval
// widens, maxima advance, footprints max-merge, centroid recomputed.
func (w *Wildfire) absorb(other *Wildfire, eps float64) {
	if other.firstObserved.Before(w.firstObserved) {
		w.firstObserved = other.firstObserved
	}
	if other.lastObserved.After(w.lastObserved) {
		w.lastObserved = other.lastObserved
	}
	w.maxPower = math.Max(w.maxPower, other.maxPower)
	w.maxTemp = math.Max(w.maxTemp, other.maxTemp)
	w.pixels = w.pixels.MaxMerge(other.pixels, eps)
	other.pixels = nil
	w.centroid = w.pixels.Centroid()
}

// Default staleness windows. A fire is never retired inside the grace
// period, always retired past the maximum gap, and otherwise retired once
// its dormancy exceeds its active lifetime. The middle rule admits
// seasonal re-ignition of long-lived burns while bounding live state.
const (
	DefaultGracePeriod = 4 * 24 * time.Hour
	DefaultMaximumGap  = 30 * 24 * time.Hour
)

// Stale reports whether the fire should be retired as of now.
func (w *Wildfire) Stale(now time.Time, grace, maxGap time.Duration) bool {
	gap := now.Sub(w.lastObserved)
	if gap < grace {
		return false
	}
	if gap > maxGap {
		return true
	}
	lifetime := w.lastObserved.Sub(w.firstObserved)
	return gap > lifetime
}
