// Package findfire runs the clustering pipeline: walk a directory tree of
// FDC scan files, decode each scan into fire points, cluster them, and
// persist the cluster lists.
package findfire

import (
	"fmt"
	"math"
	"os"

	"github.com/ctessum/cdf"

	"github.com/ashfall-data/wildfire.report/internal/fdc"
	"github.com/ashfall-data/wildfire.report/internal/geom"
)

// ScanDecoder turns a scan file into the fire points it contains. Grid
// indices in the returned points are 1-based; (0, 0) is reserved as the
// clustering sentinel.
type ScanDecoder interface {
	Decode(path string) (fdc.ScanID, []fdc.FirePoint, error)
}

// fireMaskCodes are the FDC mask values that identify a fire pixel:
// 10-15 are the processed/saturated/cloud-contaminated/low-to-high
// confidence fire classes, 30-35 their temporally-filtered equivalents.
var fireMaskCodes = map[int16]bool{
	10: true, 11: true, 12: true, 13: true, 14: true, 15: true,
	30: true, 31: true, 32: true, 33: true, 34: true, 35: true,
}

// Sub-satellite longitudes, used to approximate per-pixel scan angles.
const (
	g16NadirLon = -75.2
	g17NadirLon = -137.2
)

// CDFDecoder reads FDC scan files in NetCDF classic format. It expects
// 2D Power/Area/Temp/Mask/DQF grids over dimensions (y, x) plus 1D
// cell-edge coordinate arrays "lat_edges" (length ny+1) and "lon_edges"
// (length nx+1) describing the ground projection of the grid.
type CDFDecoder struct{}

// Decode implements ScanDecoder.
func (CDFDecoder) Decode(path string) (fdc.ScanID, []fdc.FirePoint, error) {
	id, err := fdc.ParseScanFileName(path)
	if err != nil {
		return fdc.ScanID{}, nil, err
	}

	ff, err := os.Open(path)
	if err != nil {
		return id, nil, fmt.Errorf("open scan file: %w", err)
	}
	defer ff.Close()

	f, err := cdf.Open(ff)
	if err != nil {
		return id, nil, fmt.Errorf("parse scan file %s: %w", path, err)
	}

	dims := f.Header.Lengths("Mask")
	if len(dims) != 2 {
		return id, nil, fmt.Errorf("scan file %s: Mask has %d dimensions, want 2", path, len(dims))
	}
	ny, nx := dims[0], dims[1]

	latEdges, err := readFloats(f, "lat_edges")
	if err != nil {
		return id, nil, err
	}
	lonEdges, err := readFloats(f, "lon_edges")
	if err != nil {
		return id, nil, err
	}
	if len(latEdges) != ny+1 || len(lonEdges) != nx+1 {
		return id, nil, fmt.Errorf("scan file %s: edge arrays (%d, %d) do not bracket grid (%d, %d)",
			path, len(latEdges), len(lonEdges), ny, nx)
	}

	mask, err := readInts(f, "Mask")
	if err != nil {
		return id, nil, err
	}
	dqf, err := readInts(f, "DQF")
	if err != nil {
		return id, nil, err
	}
	power, err := readFloats(f, "Power")
	if err != nil {
		return id, nil, err
	}
	area, err := readFloats(f, "Area")
	if err != nil {
		return id, nil, err
	}
	temp, err := readFloats(f, "Temp")
	if err != nil {
		return id, nil, err
	}
	if len(mask) != ny*nx || len(dqf) != ny*nx ||
		len(power) != ny*nx || len(area) != ny*nx || len(temp) != ny*nx {
		return id, nil, fmt.Errorf("scan file %s: variable lengths do not match grid", path)
	}

	nadir := g16NadirLon
	if id.Satellite == fdc.G17 {
		nadir = g17NadirLon
	}

	var points []fdc.FirePoint
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			i := y*nx + x
			if !fireMaskCodes[mask[i]] {
				continue
			}
			quad := geom.Quad{
				UL: geom.Coord{Lat: latEdges[y+1], Lon: lonEdges[x]},
				UR: geom.Coord{Lat: latEdges[y+1], Lon: lonEdges[x+1]},
				LR: geom.Coord{Lat: latEdges[y], Lon: lonEdges[x+1]},
				LL: geom.Coord{Lat: latEdges[y], Lon: lonEdges[x]},
			}
			centroid := quad.Centroid()
			points = append(points, fdc.FirePoint{
				// 1-based so no live point collides with the sentinel.
				X: x + 1,
				Y: y + 1,
				Pixel: fdc.Pixel{
					Quad:            quad,
					Power:           missingToSentinel(power[i]),
					Area:            missingToSentinel(area[i]),
					Temperature:     missingToSentinel(temp[i]),
					ScanAngle:       math.Hypot(centroid.Lat, centroid.Lon-nadir),
					MaskFlag:        mask[i],
					DataQualityFlag: uint16(dqf[i]),
				},
			})
		}
	}
	return id, points, nil
}

func missingToSentinel(v float64) float64 {
	if math.IsNaN(v) {
		return fdc.MissingValue
	}
	return v
}

// readFloats reads a float variable of any width, mapping _FillValue
// entries to NaN.
func readFloats(f *cdf.File, name string) ([]float64, error) {
	r := f.Reader(name, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var data []float64
	switch v := buf.(type) {
	case []float64:
		data = v
	case []float32:
		data = make([]float64, len(v))
		for i, x := range v {
			data[i] = float64(x)
		}
	default:
		return nil, fmt.Errorf("variable %s has non-float type %T", name, buf)
	}

	if fill := f.Header.GetAttribute(name, "_FillValue"); fill != nil {
		var noData float64
		switch fv := fill.(type) {
		case []float32:
			noData = float64(fv[0])
		case []float64:
			noData = fv[0]
		default:
			return nil, fmt.Errorf("variable %s has invalid _FillValue type %T", name, fill)
		}
		for i, d := range data {
			if d == noData {
				data[i] = math.NaN()
			}
		}
	}
	return data, nil
}

// readInts reads an integer variable of any width as int16 codes.
func readInts(f *cdf.File, name string) ([]int16, error) {
	r := f.Reader(name, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	switch v := buf.(type) {
	case []int16:
		return v, nil
	case []int8:
		data := make([]int16, len(v))
		for i, x := range v {
			data[i] = int16(x)
		}
		return data, nil
	case []int32:
		data := make([]int16, len(v))
		for i, x := range v {
			data[i] = int16(x)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("variable %s has non-integer type %T", name, buf)
	}
}
