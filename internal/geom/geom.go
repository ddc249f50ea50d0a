// Package geom implements the planar geometry kernel used to reason about
// satellite fire pixels: coordinates, axis-aligned bounding boxes, line
// segment intersection, and predicates on convex quadrilaterals.
//
// All coordinates are (latitude, longitude) pairs in signed decimal degrees.
// Pixels are small and roughly planar, so plain planar geometry in lat/lon
// space is used throughout; no map projection is performed here. Every
// predicate takes an explicit tolerance eps and no comparison is ever
// bit-exact.
package geom

import "math"

// DefaultEpsilon is the tolerance used by callers that have no better
// domain-specific value. It matches the scale of sub-meter jitter in the
// ground-projected pixel corners of the FDC products.
const DefaultEpsilon = 1.0e-6

// Coord is a point on the globe in signed decimal degrees.
type Coord struct {
	Lat float64
	Lon float64
}

// Close reports whether c and other are within eps of each other, measured
// as straight-line distance in lat/lon space.
func (c Coord) Close(other Coord, eps float64) bool {
	dlat := c.Lat - other.Lat
	dlon := c.Lon - other.Lon
	return dlat*dlat+dlon*dlon <= eps*eps
}

// BoundingBox is an axis-aligned box described by its lower-left and
// upper-right corners. Invariant: LL.Lat <= UR.Lat and LL.Lon <= UR.Lon.
type BoundingBox struct {
	LL Coord
	UR Coord
}

// Contains reports whether c lies inside the box expanded by eps on all
// sides.
func (b BoundingBox) Contains(c Coord, eps float64) bool {
	return c.Lat >= b.LL.Lat-eps && c.Lat <= b.UR.Lat+eps &&
		c.Lon >= b.LL.Lon-eps && c.Lon <= b.UR.Lon+eps
}

// Overlaps reports whether the two boxes overlap, with eps slack. Two boxes
// overlap when any corner of one is contained in the other.
func (b BoundingBox) Overlaps(other BoundingBox, eps float64) bool {
	for _, c := range b.corners() {
		if other.Contains(c, eps) {
			return true
		}
	}
	for _, c := range other.corners() {
		if b.Contains(c, eps) {
			return true
		}
	}
	return false
}

func (b BoundingBox) corners() [4]Coord {
	return [4]Coord{
		b.LL,
		{Lat: b.LL.Lat, Lon: b.UR.Lon},
		b.UR,
		{Lat: b.UR.Lat, Lon: b.LL.Lon},
	}
}

// Union returns the smallest box containing both b and other.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	return BoundingBox{
		LL: Coord{
			Lat: math.Min(b.LL.Lat, other.LL.Lat),
			Lon: math.Min(b.LL.Lon, other.LL.Lon),
		},
		UR: Coord{
			Lat: math.Max(b.UR.Lat, other.UR.Lat),
			Lon: math.Max(b.UR.Lon, other.UR.Lon),
		},
	}
}
