// Package testutil provides shared test fixtures for the fire domain.
//
// This package centralises the grid-cell pixels, fire points, and scan
// identities used across package tests to reduce duplication between
// test files.
package testutil

import (
	"time"

	"github.com/ashfall-data/wildfire.report/internal/fdc"
	"github.com/ashfall-data/wildfire.report/internal/geom"
)

// CellSize is the edge length, in degrees, of the fixture grid cells.
const CellSize = 0.02

// pixelAt builds a square pixel of the given edge length whose lower-left
// corner sits at (lat, lon). Derived measurements are deterministic in
// power so merge tests can tell observations apart: area is power*2,
// temperature 400+power.
func pixelAt(lat, lon, size, power float64) fdc.Pixel {
	return fdc.Pixel{
		Quad: geom.Quad{
			UL: geom.Coord{Lat: lat + size, Lon: lon},
			UR: geom.Coord{Lat: lat + size, Lon: lon + size},
			LR: geom.Coord{Lat: lat, Lon: lon + size},
			LL: geom.Coord{Lat: lat, Lon: lon},
		},
		Power:       power,
		Area:        power * 2,
		Temperature: 400 + power,
		ScanAngle:   2,
		MaskFlag:    13,
	}
}

// CellPixel builds a CellSize-degree pixel for ground cell (x, y) on a
// grid anchored at (40N, 110W). Grid neighbors touch on the ground as
// well, so geometric adjacency mirrors grid adjacency.
func CellPixel(x, y int, power float64) fdc.Pixel {
	return pixelAt(40.0+CellSize*float64(y), -110.0+CellSize*float64(x), CellSize, power)
}

// GridPoint builds a fire point at grid cell (x, y) with a CellPixel
// footprint.
func GridPoint(x, y int, power float64) fdc.FirePoint {
	return fdc.FirePoint{X: x, Y: y, Pixel: CellPixel(x, y, power)}
}

// SquarePixel builds a 1x1 degree pixel with the given upper-left corner.
// The oversized footprint makes geometry-heavy tests legible.
func SquarePixel(lat, lon, power float64) fdc.Pixel {
	return pixelAt(lat-1, lon, 1, power)
}

// ScanAt returns a G16 CONUS scan identity spanning five minutes from
// start.
func ScanAt(start time.Time) fdc.ScanID {
	return fdc.ScanID{
		Satellite: fdc.G16,
		Sector:    fdc.CONUS,
		Start:     start,
		End:       start.Add(5 * time.Minute),
	}
}
