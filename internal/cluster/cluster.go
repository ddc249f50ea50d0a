// Package cluster groups the fire pixels of a single scan into connected
// components and carries the per-scan metadata bundle that travels with
// them through the ingest pipeline.
package cluster

import (
	"math"
	"sort"
	"time"

	"github.com/ashfall-data/wildfire.report/internal/fdc"
	"github.com/ashfall-data/wildfire.report/internal/geom"
)

// Cluster is one connected blob of fire pixels observed in a single scan.
// It exclusively owns its pixel list and caches the aggregates that are
// queried repeatedly downstream.
type Cluster struct {
	power        float64
	area         float64
	maxTemp      float64
	maxScanAngle float64
	pixels       fdc.PixelList
}

// NewCluster returns an empty cluster.
func NewCluster() Cluster {
	return Cluster{maxTemp: fdc.MissingValue}
}

// AddPixel appends p to the cluster and folds it into the cached
// aggregates. Missing measurements contribute nothing to the sums and
// maxima; the scan angle is always present.
func (c *Cluster) AddPixel(p fdc.Pixel) {
	if !math.IsInf(p.Power, -1) {
		c.power += p.Power
	}
	if !math.IsInf(p.Area, -1) {
		c.area += p.Area
	}
	if !math.IsInf(p.Temperature, -1) {
		c.maxTemp = math.Max(c.maxTemp, p.Temperature)
	}
	c.maxScanAngle = math.Max(c.maxScanAngle, p.ScanAngle)
	c.pixels = append(c.pixels, p)
}

// Power returns the summed fire power of the cluster in MW.
func (c *Cluster) Power() float64 { return c.power }

// Area returns the summed fire area of the cluster in m².
func (c *Cluster) Area() float64 { return c.area }

// MaxTemperature returns the hottest pixel temperature in K, or the
// missing sentinel when no pixel carried one.
func (c *Cluster) MaxTemperature() float64 { return c.maxTemp }

// MaxScanAngle returns the largest scan angle of any pixel in the cluster.
func (c *Cluster) MaxScanAngle() float64 { return c.maxScanAngle }

// PixelCount returns the number of pixels in the cluster.
func (c *Cluster) PixelCount() int { return len(c.pixels) }

// Pixels returns the cluster's pixel list. The cluster retains ownership.
func (c *Cluster) Pixels() fdc.PixelList { return c.pixels }

// StealPixels transfers ownership of the pixel list to the caller, leaving
// the cluster empty.
func (c *Cluster) StealPixels() fdc.PixelList {
	pl := c.pixels
	c.pixels = nil
	return pl
}

// Centroid returns the centroid of the cluster's footprint.
func (c *Cluster) Centroid() geom.Coord { return c.pixels.Centroid() }

// MorePowerful is the descending-power comparator used to order clusters
// before export.
func MorePowerful(a, b *Cluster) bool { return a.power > b.power }

// List is one scan's worth of clusters plus the scan metadata. A failed
// decode produces a List whose Err is set and whose Clusters is empty;
// readers must check Err before touching Clusters.
type List struct {
	Satellite fdc.Satellite
	Sector    fdc.Sector
	ScanStart time.Time
	ScanEnd   time.Time
	Clusters  []Cluster
	Err       error
}

// NewList builds a cluster list for the identified scan.
func NewList(id fdc.ScanID, clusters []Cluster) *List {
	return &List{
		Satellite: id.Satellite,
		Sector:    id.Sector,
		ScanStart: id.Start,
		ScanEnd:   id.End,
		Clusters:  clusters,
	}
}

// NewErrorList builds the error-state list for a scan that failed to
// decode.
func NewErrorList(id fdc.ScanID, err error) *List {
	return &List{
		Satellite: id.Satellite,
		Sector:    id.Sector,
		ScanStart: id.Start,
		ScanEnd:   id.End,
		Err:       err,
	}
}

// FilterBox keeps only the clusters whose centroid lies within box,
// mutating the list in place.
func (l *List) FilterBox(box geom.BoundingBox, eps float64) {
	kept := l.Clusters[:0]
	for i := range l.Clusters {
		if box.Contains(l.Clusters[i].Centroid(), eps) {
			kept = append(kept, l.Clusters[i])
		}
	}
	l.Clusters = kept
}

// FilterMaxScanAngle keeps only the clusters whose pixels all lie closer
// to nadir than maxAngle degrees, mutating the list in place. Detections
// near the limb have badly distorted footprints and poor retrievals.
func (l *List) FilterMaxScanAngle(maxAngle float64) {
	kept := l.Clusters[:0]
	for i := range l.Clusters {
		if l.Clusters[i].MaxScanAngle() < maxAngle {
			kept = append(kept, l.Clusters[i])
		}
	}
	l.Clusters = kept
}

// SortByPower orders the clusters by descending total power.
func (l *List) SortByPower() {
	sort.Slice(l.Clusters, func(i, j int) bool {
		return MorePowerful(&l.Clusters[i], &l.Clusters[j])
	})
}

// TotalPower sums the power of every cluster in the list.
func (l *List) TotalPower() float64 {
	var sum float64
	for i := range l.Clusters {
		sum += l.Clusters[i].Power()
	}
	return sum
}
