package geom

import (
	"math"
	"testing"
)

// unitSquare returns a 1x1 degree quad with the given upper-left corner.
func unitSquare(lat, lon float64) Quad {
	return Quad{
		UL: Coord{Lat: lat, Lon: lon},
		UR: Coord{Lat: lat, Lon: lon + 1},
		LR: Coord{Lat: lat - 1, Lon: lon + 1},
		LL: Coord{Lat: lat - 1, Lon: lon},
	}
}

func TestCoordClose(t *testing.T) {
	tests := []struct {
		name string
		a, b Coord
		eps  float64
		want bool
	}{
		{"identical", Coord{45, -120}, Coord{45, -120}, DefaultEpsilon, true},
		{"within eps", Coord{45, -120}, Coord{45 + 1e-7, -120}, DefaultEpsilon, true},
		{"outside eps", Coord{45, -120}, Coord{45.1, -120}, DefaultEpsilon, false},
		{"diagonal boundary", Coord{0, 0}, Coord{3e-7, 4e-7}, 5e-7, true},
		{"diagonal outside", Coord{0, 0}, Coord{4e-7, 4e-7}, 5e-7, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Close(tt.b, tt.eps); got != tt.want {
				t.Errorf("Close(%v, %v, %g) = %v, want %v", tt.a, tt.b, tt.eps, got, tt.want)
			}
			if got := tt.b.Close(tt.a, tt.eps); got != tt.want {
				t.Errorf("Close not symmetric for %v, %v", tt.a, tt.b)
			}
		})
	}
}

func TestBoundingBoxContains(t *testing.T) {
	box := BoundingBox{LL: Coord{44, -120}, UR: Coord{45, -119}}

	if !box.Contains(Coord{44.5, -119.5}, DefaultEpsilon) {
		t.Error("interior coord should be contained")
	}
	if !box.Contains(Coord{44, -120}, DefaultEpsilon) {
		t.Error("corner coord should be contained")
	}
	if !box.Contains(Coord{45 + 1e-7, -119}, DefaultEpsilon) {
		t.Error("coord within eps of edge should be contained")
	}
	if box.Contains(Coord{45.1, -119.5}, DefaultEpsilon) {
		t.Error("coord north of box should not be contained")
	}
}

func TestBoundingBoxOverlaps(t *testing.T) {
	a := BoundingBox{LL: Coord{44, -120}, UR: Coord{45, -119}}
	b := BoundingBox{LL: Coord{44.5, -119.5}, UR: Coord{45.5, -118.5}}
	c := BoundingBox{LL: Coord{50, -100}, UR: Coord{51, -99}}

	if !a.Overlaps(b, DefaultEpsilon) || !b.Overlaps(a, DefaultEpsilon) {
		t.Error("a and b should overlap (symmetrically)")
	}
	if a.Overlaps(c, DefaultEpsilon) {
		t.Error("disjoint boxes should not overlap")
	}
}

func TestIntersectCrossing(t *testing.T) {
	l1 := Segment{A: Coord{Lat: 0, Lon: -1}, B: Coord{Lat: 0, Lon: 1}}
	l2 := Segment{A: Coord{Lat: -1, Lon: 0}, B: Coord{Lat: 1, Lon: 0}}

	res := Intersect(l1, l2, DefaultEpsilon)
	if res.Kind != IntersectPoint {
		t.Fatalf("kind = %v, want IntersectPoint", res.Kind)
	}
	if !res.Point.Close(Coord{Lat: 0, Lon: 0}, DefaultEpsilon) {
		t.Errorf("intersection point = %v, want origin", res.Point)
	}
}

func TestIntersectDisjoint(t *testing.T) {
	l1 := Segment{A: Coord{Lat: 0, Lon: 0}, B: Coord{Lat: 0, Lon: 1}}
	l2 := Segment{A: Coord{Lat: 1, Lon: 5}, B: Coord{Lat: -1, Lon: 5}}

	if res := Intersect(l1, l2, DefaultEpsilon); res.Kind != IntersectNone {
		t.Errorf("kind = %v, want IntersectNone", res.Kind)
	}
}

func TestIntersectSharedEndpoint(t *testing.T) {
	l1 := Segment{A: Coord{Lat: 0, Lon: 0}, B: Coord{Lat: 1, Lon: 1}}
	l2 := Segment{A: Coord{Lat: 1, Lon: 1}, B: Coord{Lat: 2, Lon: 0}}

	if res := Intersect(l1, l2, DefaultEpsilon); res.Kind != IntersectEndpoints {
		t.Errorf("kind = %v, want IntersectEndpoints", res.Kind)
	}
}

func TestIntersectParallel(t *testing.T) {
	l1 := Segment{A: Coord{Lat: 0, Lon: 0}, B: Coord{Lat: 1, Lon: 1}}
	l2 := Segment{A: Coord{Lat: 5, Lon: 0}, B: Coord{Lat: 6, Lon: 1}}

	if res := Intersect(l1, l2, DefaultEpsilon); res.Kind != IntersectParallel {
		t.Errorf("kind = %v, want IntersectParallel", res.Kind)
	}

	// Two verticals are parallel as well.
	v1 := Segment{A: Coord{Lat: 0, Lon: 0}, B: Coord{Lat: 1, Lon: 0}}
	v2 := Segment{A: Coord{Lat: 0, Lon: 3}, B: Coord{Lat: 1, Lon: 3}}
	if res := Intersect(v1, v2, DefaultEpsilon); res.Kind != IntersectParallel {
		t.Errorf("vertical kind = %v, want IntersectParallel", res.Kind)
	}
}

func TestIntersectColinear(t *testing.T) {
	l1 := Segment{A: Coord{Lat: 0, Lon: 0}, B: Coord{Lat: 0, Lon: 2}}
	l2 := Segment{A: Coord{Lat: 0, Lon: 1}, B: Coord{Lat: 0, Lon: 3}}

	if res := Intersect(l1, l2, DefaultEpsilon); res.Kind != IntersectColinear {
		t.Errorf("kind = %v, want IntersectColinear", res.Kind)
	}
}

func TestIntersectVertical(t *testing.T) {
	vertical := Segment{A: Coord{Lat: -1, Lon: 0}, B: Coord{Lat: 1, Lon: 0}}
	slanted := Segment{A: Coord{Lat: -1, Lon: -1}, B: Coord{Lat: 1, Lon: 1}}

	res := Intersect(vertical, slanted, DefaultEpsilon)
	if res.Kind != IntersectPoint {
		t.Fatalf("kind = %v, want IntersectPoint", res.Kind)
	}
	if !res.Point.Close(Coord{Lat: 0, Lon: 0}, DefaultEpsilon) {
		t.Errorf("intersection point = %v, want origin", res.Point)
	}
}

func TestQuadCentroidSquare(t *testing.T) {
	q := unitSquare(45, -120)
	got := q.Centroid()
	want := Coord{Lat: 44.5, Lon: -119.5}
	if !got.Close(want, DefaultEpsilon) {
		t.Errorf("Centroid() = %v, want %v", got, want)
	}
}

func TestQuadCentroidIrregular(t *testing.T) {
	// A slightly skewed quad; the centroid must land inside the quad's
	// bounding box regardless of shape.
	q := Quad{
		UL: Coord{Lat: 45.1, Lon: -120.05},
		UR: Coord{Lat: 45.0, Lon: -119.0},
		LR: Coord{Lat: 44.1, Lon: -118.9},
		LL: Coord{Lat: 44.0, Lon: -120.0},
	}
	c := q.Centroid()
	if !q.BoundingBox().Contains(c, DefaultEpsilon) {
		t.Errorf("centroid %v outside bounding box %v", c, q.BoundingBox())
	}
	if !q.ContainsCoord(c, DefaultEpsilon) {
		t.Errorf("centroid %v not contained in quad", c)
	}
}

func TestQuadContainsCoord(t *testing.T) {
	q := unitSquare(45, -120)

	if !q.ContainsCoord(Coord{Lat: 44.5, Lon: -119.5}, DefaultEpsilon) {
		t.Error("center should be contained")
	}
	if q.ContainsCoord(Coord{Lat: 44.5, Lon: -110}, DefaultEpsilon) {
		t.Error("coord far east should not be contained")
	}
	if q.ContainsCoord(Coord{Lat: 45.5, Lon: -119.5}, DefaultEpsilon) {
		t.Error("coord north of quad should not be contained")
	}
}

func TestQuadOverlapsSelf(t *testing.T) {
	q := unitSquare(45, -120)
	if !q.Overlaps(q, DefaultEpsilon) {
		t.Error("a quad must overlap itself")
	}
	if q.Adjacent(q, DefaultEpsilon) {
		t.Error("a quad must not be adjacent to itself")
	}
}

func TestQuadAdjacentSharedEdge(t *testing.T) {
	a := unitSquare(45, -120)
	b := unitSquare(45, -119) // shares the lon = -119 edge

	if !a.Adjacent(b, DefaultEpsilon) || !b.Adjacent(a, DefaultEpsilon) {
		t.Error("squares sharing an edge should be adjacent (symmetrically)")
	}
	if a.Overlaps(b, DefaultEpsilon) {
		t.Error("squares sharing only an edge should not overlap")
	}
}

func TestQuadAdjacentSharedCorner(t *testing.T) {
	a := unitSquare(45, -120)
	b := unitSquare(46, -119) // shares only the corner (45, -119)

	if !a.Adjacent(b, DefaultEpsilon) {
		t.Error("squares sharing one corner should be adjacent")
	}
}

func TestQuadOverlapPartialEdge(t *testing.T) {
	// A covers lon [-120, -119]; B covers lon [-119.5, -118.5]. They share
	// half a degree of overlapping area, not an edge.
	a := unitSquare(45, -120)
	b := unitSquare(45, -119.5)

	if !a.Overlaps(b, DefaultEpsilon) || !b.Overlaps(a, DefaultEpsilon) {
		t.Error("half-shifted squares should overlap (symmetrically)")
	}
	if a.Adjacent(b, DefaultEpsilon) {
		t.Error("half-shifted squares should not be adjacent")
	}
}

func TestQuadDisjoint(t *testing.T) {
	a := unitSquare(45, -120)
	b := unitSquare(30, -90)

	if a.Overlaps(b, DefaultEpsilon) {
		t.Error("far-apart squares should not overlap")
	}
	if a.Adjacent(b, DefaultEpsilon) {
		t.Error("far-apart squares should not be adjacent")
	}
}

func TestQuadContainedNotAdjacent(t *testing.T) {
	outer := unitSquare(45, -120)
	inner := Quad{
		UL: Coord{Lat: 44.9, Lon: -119.9},
		UR: Coord{Lat: 44.9, Lon: -119.1},
		LR: Coord{Lat: 44.1, Lon: -119.1},
		LL: Coord{Lat: 44.1, Lon: -119.9},
	}

	if !outer.Overlaps(inner, DefaultEpsilon) {
		t.Error("containing quad should overlap the contained quad")
	}
	if outer.Adjacent(inner, DefaultEpsilon) {
		t.Error("contained quad is not adjacent")
	}
}

func TestCentroidInsideBoundingBox(t *testing.T) {
	quads := []Quad{
		unitSquare(45, -120),
		unitSquare(0, 0),
		{
			UL: Coord{Lat: 40.01, Lon: -105.03},
			UR: Coord{Lat: 40.0, Lon: -105.0},
			LR: Coord{Lat: 39.98, Lon: -105.01},
			LL: Coord{Lat: 39.99, Lon: -105.04},
		},
	}
	for i, q := range quads {
		c := q.Centroid()
		if !q.BoundingBox().Contains(c, DefaultEpsilon) {
			t.Errorf("quad %d: centroid %v outside bounding box", i, c)
		}
	}
}

func TestBoundingBoxUnion(t *testing.T) {
	a := BoundingBox{LL: Coord{44, -120}, UR: Coord{45, -119}}
	b := BoundingBox{LL: Coord{46, -118}, UR: Coord{47, -117}}

	u := a.Union(b)
	if u.LL.Lat != 44 || u.LL.Lon != -120 || u.UR.Lat != 47 || u.UR.Lon != -117 {
		t.Errorf("Union = %+v", u)
	}
}

func TestSegmentSlope(t *testing.T) {
	up := Segment{A: Coord{Lat: 0, Lon: 0}, B: Coord{Lat: 2, Lon: 0}}
	if s := up.slope(); !math.IsInf(s, 1) {
		t.Errorf("upward vertical slope = %v, want +Inf", s)
	}
	down := Segment{A: Coord{Lat: 2, Lon: 0}, B: Coord{Lat: 0, Lon: 0}}
	if s := down.slope(); !math.IsInf(s, -1) {
		t.Errorf("downward vertical slope = %v, want -Inf", s)
	}
}
