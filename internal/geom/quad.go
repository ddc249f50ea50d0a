package geom

// Quad is a convex quadrilateral with corners listed in a consistent
// winding: upper-left, upper-right, lower-right, lower-left. Satellite
// pixels are ground-projected as quads.
type Quad struct {
	UL Coord
	UR Coord
	LR Coord
	LL Coord
}

// Corners returns the four corners in winding order.
func (q Quad) Corners() [4]Coord {
	return [4]Coord{q.UL, q.UR, q.LR, q.LL}
}

// Edges returns the four boundary segments in winding order.
func (q Quad) Edges() [4]Segment {
	return [4]Segment{
		{A: q.UL, B: q.UR},
		{A: q.UR, B: q.LR},
		{A: q.LR, B: q.LL},
		{A: q.LL, B: q.UL},
	}
}

// BoundingBox returns the axis-aligned extent of the quad.
func (q Quad) BoundingBox() BoundingBox {
	box := BoundingBox{LL: q.UL, UR: q.UL}
	for _, c := range q.Corners() {
		if c.Lat < box.LL.Lat {
			box.LL.Lat = c.Lat
		}
		if c.Lat > box.UR.Lat {
			box.UR.Lat = c.Lat
		}
		if c.Lon < box.LL.Lon {
			box.LL.Lon = c.Lon
		}
		if c.Lon > box.UR.Lon {
			box.UR.Lon = c.Lon
		}
	}
	return box
}

// ApproxEqual reports whether the two quads have eps-close corners,
// compared position by position in winding order.
func (q Quad) ApproxEqual(other Quad, eps float64) bool {
	a := q.Corners()
	b := other.Corners()
	for i := range a {
		if !a[i].Close(b[i], eps) {
			return false
		}
	}
	return true
}

func triangleCentroid(a, b, c Coord) Coord {
	return Coord{
		Lat: (a.Lat + b.Lat + c.Lat) / 3,
		Lon: (a.Lon + b.Lon + c.Lon) / 3,
	}
}

// centroidEpsilon is the tolerance used internally by Centroid. It is far
// below any realistic pixel size so the crossing segments are never
// misclassified as co-linear.
const centroidEpsilon = 1.0e-12

// Centroid computes the quad's centroid by splitting it along each
// diagonal into two triangles and intersecting the two segments that join
// the centroids of opposite triangles. For a non-degenerate convex quad
// the intersection always exists; its absence is a programming error.
func (q Quad) Centroid() Coord {
	// Diagonal UL-LR splits the quad into (UL,UR,LR) and (UL,LR,LL);
	// diagonal UR-LL splits it into (UL,UR,LL) and (UR,LR,LL).
	s1 := Segment{
		A: triangleCentroid(q.UL, q.UR, q.LR),
		B: triangleCentroid(q.UL, q.LR, q.LL),
	}
	s2 := Segment{
		A: triangleCentroid(q.UL, q.UR, q.LL),
		B: triangleCentroid(q.UR, q.LR, q.LL),
	}
	res := Intersect(s1, s2, centroidEpsilon)
	if res.Kind != IntersectPoint && res.Kind != IntersectEndpoints {
		panic("geom: degenerate quad has no centroid")
	}
	return res.Point
}

// ContainsCoord reports whether c lies inside the quad. After a bounding
// box fast-fail, segments from c to each corner are intersected with each
// edge: any proper (non-endpoint) crossing places c outside. Meetings at
// shared endpoints are the normal consequence of the probe segments ending
// on the boundary and are ignored.
func (q Quad) ContainsCoord(c Coord, eps float64) bool {
	if !q.BoundingBox().Contains(c, eps) {
		return false
	}
	edges := q.Edges()
	for _, corner := range q.Corners() {
		probe := Segment{A: c, B: corner}
		for _, e := range edges {
			if Intersect(probe, e, eps).Kind == IntersectPoint {
				return false
			}
		}
	}
	return true
}

// containsNonSharedCorner reports whether any corner of other that is not
// eps-shared with a corner of q lies inside q. Shared corners are skipped:
// two quads meeting at a vertex do not contain each other's corner.
func (q Quad) containsNonSharedCorner(other Quad, eps float64) bool {
	for _, c := range other.Corners() {
		if q.hasCornerCloseTo(c, eps) {
			continue
		}
		if q.ContainsCoord(c, eps) {
			return true
		}
	}
	return false
}

func (q Quad) hasCornerCloseTo(c Coord, eps float64) bool {
	for _, corner := range q.Corners() {
		if corner.Close(c, eps) {
			return true
		}
	}
	return false
}

// Overlaps reports whether the two quads share interior area.
func (q Quad) Overlaps(other Quad, eps float64) bool {
	if q.ApproxEqual(other, eps) {
		return true
	}
	if !q.BoundingBox().Overlaps(other.BoundingBox(), eps) {
		return false
	}
	for _, e1 := range q.Edges() {
		for _, e2 := range other.Edges() {
			if Intersect(e1, e2, eps).Kind == IntersectPoint {
				return true
			}
		}
	}
	return q.containsNonSharedCorner(other, eps) || other.containsNonSharedCorner(q, eps)
}

// Adjacent reports whether the two quads touch along an edge or at a
// corner without overlapping. They must share one or two eps-close
// corners, neither may properly contain a non-shared corner of the other,
// and neither centroid may lie inside the other quad.
func (q Quad) Adjacent(other Quad, eps float64) bool {
	if q.ApproxEqual(other, eps) {
		return false
	}
	if !q.BoundingBox().Overlaps(other.BoundingBox(), eps) {
		return false
	}

	shared := 0
	for _, c := range q.Corners() {
		if other.hasCornerCloseTo(c, eps) {
			shared++
		}
	}
	if shared < 1 || shared > 2 {
		return false
	}

	if q.containsNonSharedCorner(other, eps) || other.containsNonSharedCorner(q, eps) {
		return false
	}
	if q.ContainsCoord(other.Centroid(), eps) || other.ContainsCoord(q.Centroid(), eps) {
		return false
	}
	return true
}
