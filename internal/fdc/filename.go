package fdc

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ScanID identifies one sweep of a sector by a satellite, bracketed by its
// start and end times. It is parsed from product file names like
//
//	OR_ABI-L2-FDCC-M6_G16_s20212050601176_e20212050603549_c20212050604025.nc
type ScanID struct {
	Satellite Satellite
	Sector    Sector
	Start     time.Time
	End       time.Time
}

var (
	satelliteRe = regexp.MustCompile(`G1[67]`)
	sectorRe    = regexp.MustCompile(`(FDCM[12]|FDC[FC])`)
	startRe     = regexp.MustCompile(`_s(\d{13})`)
	endRe       = regexp.MustCompile(`_e(\d{13})`)
)

// ParseScanFileName extracts the scan identity from a product file name.
// Only the base name components matter; any directory prefix is ignored by
// virtue of the component searches.
func ParseScanFileName(name string) (ScanID, error) {
	var id ScanID

	desig := satelliteRe.FindString(name)
	if desig == "" {
		return id, fmt.Errorf("fdc: no satellite designator in %q", name)
	}
	sat, err := ParseSatellite(desig)
	if err != nil {
		return id, err
	}

	sm := sectorRe.FindStringSubmatch(name)
	if sm == nil {
		return id, fmt.Errorf("fdc: no sector designator in %q", name)
	}
	sector, err := ParseSector(sm[1])
	if err != nil {
		return id, err
	}

	start, err := parseScanTime(startRe, name, "start")
	if err != nil {
		return id, err
	}
	end, err := parseScanTime(endRe, name, "end")
	if err != nil {
		return id, err
	}

	id = ScanID{Satellite: sat, Sector: sector, Start: start, End: end}
	return id, nil
}

// parseScanTime decodes the _sYYYYDDDHHMMSS / _eYYYYDDDHHMMSS components.
// Trailing sub-second digits present in real product names are ignored by
// the 13-digit capture.
func parseScanTime(re *regexp.Regexp, name, which string) (time.Time, error) {
	m := re.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, fmt.Errorf("fdc: no scan %s time in %q", which, name)
	}
	digits := m[1]

	year, _ := strconv.Atoi(digits[0:4])
	doy, _ := strconv.Atoi(digits[4:7])
	hour, _ := strconv.Atoi(digits[7:9])
	minute, _ := strconv.Atoi(digits[9:11])
	second, _ := strconv.Atoi(digits[11:13])

	if doy < 1 || doy > 366 {
		return time.Time{}, fmt.Errorf("fdc: scan %s day-of-year %d out of range in %q", which, doy, name)
	}
	if hour > 23 || minute > 59 || second > 60 {
		return time.Time{}, fmt.Errorf("fdc: scan %s clock component out of range in %q", which, name)
	}

	t := time.Date(year, time.January, 1, hour, minute, second, 0, time.UTC)
	return t.AddDate(0, 0, doy-1), nil
}
