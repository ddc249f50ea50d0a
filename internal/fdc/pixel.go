package fdc

import (
	"math"

	"github.com/ashfall-data/wildfire.report/internal/geom"
)

// MissingValue is the sentinel stored in a pixel field whose measurement
// is absent from the scan (cloud cover, saturation, bad retrieval). Every
// numeric pixel field is either finite or MissingValue.
var MissingValue = math.Inf(-1)

// Pixel is a single ground-projected FDC sample: a convex quadrilateral
// footprint plus the fire measurements retrieved for it.
type Pixel struct {
	geom.Quad

	Power           float64 // Fire radiative power in MW, or MissingValue
	Area            float64 // Fire area in m², or MissingValue
	Temperature     float64 // Fire temperature in K, or MissingValue
	ScanAngle       float64 // Angular distance from satellite nadir, degrees (>= 0)
	MaskFlag        int16   // FDC mask taxonomy code
	DataQualityFlag uint16  // FDC data quality taxonomy code
}

// ApproxEqual reports whether the two pixels occupy the same footprint,
// corner by corner within eps. Measurements are not compared: two
// observations of the same ground cell are the same pixel.
func (p Pixel) ApproxEqual(other Pixel, eps float64) bool {
	return p.Quad.ApproxEqual(other.Quad, eps)
}

// maxMergeInPlace folds other's measurements into p for two pixels that
// cover the same footprint: measurements take the maximum and flags take
// the minimum (lower taxonomy codes are better detections).
func (p *Pixel) maxMergeInPlace(other Pixel) {
	p.Power = math.Max(p.Power, other.Power)
	p.Temperature = math.Max(p.Temperature, other.Temperature)
	p.Area = math.Max(p.Area, other.Area)
	p.ScanAngle = math.Max(p.ScanAngle, other.ScanAngle)
	if other.MaskFlag < p.MaskFlag {
		p.MaskFlag = other.MaskFlag
	}
	if other.DataQualityFlag < p.DataQualityFlag {
		p.DataQualityFlag = other.DataQualityFlag
	}
}

// FirePoint is a fire pixel tagged with its integer grid position within
// the originating scan. The (0, 0) position is reserved as the consumed
// sentinel during clustering, so decoders must emit 1-based grid indices.
type FirePoint struct {
	X, Y  int
	Pixel Pixel
}

// Consumed reports whether the point has been claimed by a cluster.
func (fp FirePoint) Consumed() bool {
	return fp.X == 0 && fp.Y == 0
}

// IsNeighbor reports whether other occupies one of the eight grid cells
// surrounding fp (or shares a cell edge with it).
func (fp FirePoint) IsNeighbor(other FirePoint) bool {
	dx := fp.X - other.X
	dy := fp.Y - other.Y
	if dx == 0 && dy == 0 {
		return false
	}
	return dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1
}
