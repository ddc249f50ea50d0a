package fdc

import (
	"math"

	"github.com/ashfall-data/wildfire.report/internal/geom"
)

// PixelList is an ordered, growable sequence of pixels, semantically a
// multiset of distinct footprints. It is the spatial currency of the
// system: clusters and wildfires both own exactly one.
type PixelList []Pixel

// Centroid returns the arithmetic mean of the per-pixel centroids.
// Calling Centroid on an empty list is a programming error.
func (pl PixelList) Centroid() geom.Coord {
	if len(pl) == 0 {
		panic("fdc: centroid of empty pixel list")
	}
	var sumLat, sumLon float64
	for _, p := range pl {
		c := p.Quad.Centroid()
		sumLat += c.Lat
		sumLon += c.Lon
	}
	n := float64(len(pl))
	return geom.Coord{Lat: sumLat / n, Lon: sumLon / n}
}

// TotalPower sums the finite per-pixel fire power values, in MW.
func (pl PixelList) TotalPower() float64 {
	var sum float64
	for _, p := range pl {
		if !math.IsInf(p.Power, -1) {
			sum += p.Power
		}
	}
	return sum
}

// TotalArea sums the finite per-pixel fire area values, in m².
func (pl PixelList) TotalArea() float64 {
	var sum float64
	for _, p := range pl {
		if !math.IsInf(p.Area, -1) {
			sum += p.Area
		}
	}
	return sum
}

// MaxTemperature returns the hottest finite pixel temperature in K, or
// MissingValue when every pixel is missing one.
func (pl PixelList) MaxTemperature() float64 {
	maxT := MissingValue
	for _, p := range pl {
		maxT = math.Max(maxT, p.Temperature)
	}
	return maxT
}

// MaxScanAngle returns the largest per-pixel scan angle in the list.
func (pl PixelList) MaxScanAngle() float64 {
	var maxA float64
	for _, p := range pl {
		maxA = math.Max(maxA, p.ScanAngle)
	}
	return maxA
}

// BoundingBox returns the axis-aligned extent of every pixel in the list.
// Calling BoundingBox on an empty list is a programming error.
func (pl PixelList) BoundingBox() geom.BoundingBox {
	if len(pl) == 0 {
		panic("fdc: bounding box of empty pixel list")
	}
	box := pl[0].Quad.BoundingBox()
	for _, p := range pl[1:] {
		box = box.Union(p.Quad.BoundingBox())
	}
	return box
}

// MaxMerge folds other into pl and returns the merged list. Pixels whose
// footprints are eps-equal are merged by maxMergeInPlace; pixels unique to
// either input are retained. pl is extended in place when capacity allows;
// other must not be used afterwards.
func (pl PixelList) MaxMerge(other PixelList, eps float64) PixelList {
	merged := pl
	for _, p := range other {
		found := false
		for i := range merged {
			if merged[i].ApproxEqual(p, eps) {
				merged[i].maxMergeInPlace(p)
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, p)
		}
	}
	return merged
}

// AdjacentOrOverlaps reports whether any pixel of pl overlaps or touches
// any pixel of other. This is the association test between a wildfire's
// footprint and a new cluster.
func (pl PixelList) AdjacentOrOverlaps(other PixelList, eps float64) bool {
	for i := range pl {
		for j := range other {
			if pl[i].Quad.Overlaps(other[j].Quad, eps) || pl[i].Quad.Adjacent(other[j].Quad, eps) {
				return true
			}
		}
	}
	return false
}

// ContainsPixel reports whether the list holds a pixel whose footprint is
// eps-equal to p's.
func (pl PixelList) ContainsPixel(p Pixel, eps float64) bool {
	for i := range pl {
		if pl[i].ApproxEqual(p, eps) {
			return true
		}
	}
	return false
}
