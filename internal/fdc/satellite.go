// Package fdc models the Fire Detection Characteristics product of the
// GOES-R geostationary satellites: the satellites and scan sectors, the
// ground-projected fire pixel with its measurements, and ordered pixel
// lists with their reductions and stable binary form.
package fdc

import (
	"fmt"

	"github.com/ashfall-data/wildfire.report/internal/geom"
)

// Satellite identifies a GOES-R series satellite. SatelliteNone is the
// absent sentinel.
type Satellite int

const (
	SatelliteNone Satellite = iota
	G16
	G17
)

// String returns the short designator used in file names and the database.
func (s Satellite) String() string {
	switch s {
	case G16:
		return "G16"
	case G17:
		return "G17"
	default:
		return "NONE"
	}
}

// ParseSatellite maps a designator string to a Satellite.
func ParseSatellite(s string) (Satellite, error) {
	switch s {
	case "G16":
		return G16, nil
	case "G17":
		return G17, nil
	}
	return SatelliteNone, fmt.Errorf("fdc: unknown satellite %q", s)
}

// ValidDataBox returns the region of the globe where the satellite
// produces usable FDC data: roughly 60 degrees of great-circle angle
// around the sub-satellite longitude, clamped to [-180, 180]. Detections
// outside this box are limb artifacts and are filtered out.
func (s Satellite) ValidDataBox() geom.BoundingBox {
	switch s {
	case G16:
		// GOES-East at 75.2W.
		return geom.BoundingBox{
			LL: geom.Coord{Lat: -60, Lon: -135},
			UR: geom.Coord{Lat: 60, Lon: -15},
		}
	case G17:
		// GOES-West at 137.2W; the western half of the footprint crosses
		// the antimeridian and is clamped off.
		return geom.BoundingBox{
			LL: geom.Coord{Lat: -60, Lon: -180},
			UR: geom.Coord{Lat: 60, Lon: -77},
		}
	default:
		return geom.BoundingBox{}
	}
}

// Sector identifies an ABI scan sector. SectorNone is the absent sentinel.
type Sector int

const (
	SectorNone Sector = iota
	FullDisk
	CONUS
	Meso1
	Meso2
)

// String returns the product designator used in file names and the
// database.
func (s Sector) String() string {
	switch s {
	case FullDisk:
		return "FDCF"
	case CONUS:
		return "FDCC"
	case Meso1:
		return "FDCM1"
	case Meso2:
		return "FDCM2"
	default:
		return "NONE"
	}
}

// ParseSector maps a product designator string to a Sector.
func ParseSector(s string) (Sector, error) {
	switch s {
	case "FDCF":
		return FullDisk, nil
	case "FDCC":
		return CONUS, nil
	case "FDCM1":
		return Meso1, nil
	case "FDCM2":
		return Meso2, nil
	}
	return SectorNone, fmt.Errorf("fdc: unknown sector %q", s)
}
