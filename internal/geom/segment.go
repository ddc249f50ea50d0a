package geom

import "math"

// Segment is a line segment between two coordinates.
type Segment struct {
	A Coord
	B Coord
}

// IntersectKind classifies the result of intersecting two segments.
type IntersectKind int

const (
	// IntersectNone means the segments do not meet.
	IntersectNone IntersectKind = iota
	// IntersectPoint means the segments cross at a single interior point.
	IntersectPoint
	// IntersectEndpoints means the segments meet at a point that is an
	// endpoint of both. Containment and adjacency tests use this to ignore
	// trivial vertex-sharing between neighbouring quads.
	IntersectEndpoints
	// IntersectColinear means the segments lie on the same line.
	IntersectColinear
	// IntersectParallel means the segments have equal slope and never meet.
	IntersectParallel
)

// IntersectResult carries the classification and, for the point-valued
// kinds, the intersection coordinate.
type IntersectResult struct {
	Kind  IntersectKind
	Point Coord
}

// bbox returns the axis-aligned extent of the segment.
func (s Segment) bbox() BoundingBox {
	return BoundingBox{
		LL: Coord{Lat: math.Min(s.A.Lat, s.B.Lat), Lon: math.Min(s.A.Lon, s.B.Lon)},
		UR: Coord{Lat: math.Max(s.A.Lat, s.B.Lat), Lon: math.Max(s.A.Lon, s.B.Lon)},
	}
}

// slope returns the segment's slope d(lat)/d(lon). A vertical segment
// (constant longitude) yields +Inf or -Inf depending on direction.
func (s Segment) slope() float64 {
	dlon := s.B.Lon - s.A.Lon
	dlat := s.B.Lat - s.A.Lat
	if dlon == 0 {
		if dlat >= 0 {
			return math.Inf(1)
		}
		return math.Inf(-1)
	}
	return dlat / dlon
}

// distanceToLine returns the perpendicular distance from c to the infinite
// line through the segment. A degenerate zero-length segment falls back to
// point distance.
func (s Segment) distanceToLine(c Coord) float64 {
	dlon := s.B.Lon - s.A.Lon
	dlat := s.B.Lat - s.A.Lat
	length := math.Hypot(dlon, dlat)
	if length == 0 {
		return math.Hypot(c.Lon-s.A.Lon, c.Lat-s.A.Lat)
	}
	// Cross product of (B-A) with (c-A), normalised by |B-A|.
	return math.Abs(dlat*(c.Lon-s.A.Lon)-dlon*(c.Lat-s.A.Lat)) / length
}

// hasEndpointCloseTo reports whether c is eps-close to either endpoint.
func (s Segment) hasEndpointCloseTo(c Coord, eps float64) bool {
	return s.A.Close(c, eps) || s.B.Close(c, eps)
}

// Intersect intersects two segments with tolerance eps.
//
// Co-linearity is detected first: if more than one endpoint of either
// segment lies within perpendicular distance eps of the other segment's
// line, the segments are co-linear. Equal slopes (including two verticals)
// are parallel. Otherwise the crossing point of the two lines is computed,
// required to lie within both segments' extents expanded by eps, and
// flagged as an endpoints-only meeting when it is eps-close to an endpoint
// of both segments.
func Intersect(l1, l2 Segment, eps float64) IntersectResult {
	close1 := 0
	if l2.distanceToLine(l1.A) <= eps {
		close1++
	}
	if l2.distanceToLine(l1.B) <= eps {
		close1++
	}
	close2 := 0
	if l1.distanceToLine(l2.A) <= eps {
		close2++
	}
	if l1.distanceToLine(l2.B) <= eps {
		close2++
	}
	if close1 > 1 || close2 > 1 {
		return IntersectResult{Kind: IntersectColinear}
	}

	m1 := l1.slope()
	m2 := l2.slope()
	if m1 == m2 || (math.IsInf(m1, 0) && math.IsInf(m2, 0)) {
		return IntersectResult{Kind: IntersectParallel}
	}

	var lon0, lat0 float64
	switch {
	case math.IsInf(m1, 0):
		lon0 = l1.A.Lon
		lat0 = m2*(lon0-l2.A.Lon) + l2.A.Lat
	case math.IsInf(m2, 0):
		lon0 = l2.A.Lon
		lat0 = m1*(lon0-l1.A.Lon) + l1.A.Lat
	default:
		// m1*(x - x1) + y1 = m2*(x - x2) + y2
		lon0 = (m1*l1.A.Lon - m2*l2.A.Lon + l2.A.Lat - l1.A.Lat) / (m1 - m2)
		lat0 = m1*(lon0-l1.A.Lon) + l1.A.Lat
	}
	p := Coord{Lat: lat0, Lon: lon0}

	if !l1.bbox().Contains(p, eps) || !l2.bbox().Contains(p, eps) {
		return IntersectResult{Kind: IntersectNone}
	}

	if l1.hasEndpointCloseTo(p, eps) && l2.hasEndpointCloseTo(p, eps) {
		return IntersectResult{Kind: IntersectEndpoints, Point: p}
	}
	return IntersectResult{Kind: IntersectPoint, Point: p}
}
