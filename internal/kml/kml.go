// Package kml renders wildfire footprints as KML for map viewers. It is a
// leaf over plain data: callers map their store rows into Fire values.
package kml

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/ashfall-data/wildfire.report/internal/fdc"
	"github.com/ashfall-data/wildfire.report/internal/geom"
)

// Fire is one placemark's worth of wildfire data.
type Fire struct {
	ID             uint32
	Satellite      fdc.Satellite
	FirstObserved  time.Time
	LastObserved   time.Time
	Centroid       geom.Coord
	MaxPower       float64
	MaxTemperature float64
	Footprint      fdc.PixelList
}

type kmlRoot struct {
	XMLName  xml.Name    `xml:"kml"`
	Xmlns    string      `xml:"xmlns,attr"`
	Document kmlDocument `xml:"Document"`
}

type kmlDocument struct {
	Name       string      `xml:"name"`
	Placemarks []placemark `xml:"Placemark"`
}

type placemark struct {
	Name        string        `xml:"name"`
	Description string        `xml:"description"`
	Style       *style        `xml:"Style,omitempty"`
	Geometry    multiGeometry `xml:"MultiGeometry"`
}

type style struct {
	PolyColor string `xml:"PolyStyle>color"`
}

type multiGeometry struct {
	Polygons []polygon `xml:"Polygon"`
}

type polygon struct {
	Coordinates string `xml:"outerBoundaryIs>LinearRing>coordinates"`
}

// powerColor maps cluster power onto an aabbggrr KML color ramp, hotter
// fires redder.
func powerColor(power float64) string {
	switch {
	case power >= 1000:
		return "ff0000ff" // red
	case power >= 100:
		return "ff0055ff" // orange
	case power >= 10:
		return "ff00ffff" // yellow
	default:
		return "ff00ff00" // green
	}
}

func ringCoordinates(q geom.Quad) string {
	var b strings.Builder
	corners := q.Corners()
	for _, c := range corners {
		fmt.Fprintf(&b, "%.6f,%.6f,0 ", c.Lon, c.Lat)
	}
	// Close the ring on the first corner.
	fmt.Fprintf(&b, "%.6f,%.6f,0", corners[0].Lon, corners[0].Lat)
	return b.String()
}

// WriteFires renders the fires as a KML document, most powerful first.
func WriteFires(w io.Writer, name string, fires []Fire) error {
	sorted := make([]Fire, len(fires))
	copy(sorted, fires)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MaxPower > sorted[j].MaxPower })

	doc := kmlRoot{
		Xmlns:    "http://www.opengis.net/kml/2.2",
		Document: kmlDocument{Name: name},
	}
	for _, f := range sorted {
		polys := make([]polygon, 0, len(f.Footprint))
		for _, p := range f.Footprint {
			polys = append(polys, polygon{Coordinates: ringCoordinates(p.Quad)})
		}
		doc.Document.Placemarks = append(doc.Document.Placemarks, placemark{
			Name: fmt.Sprintf("Fire %d (%s)", f.ID, f.Satellite),
			Description: fmt.Sprintf(
				"Max power: %.1f MW\nMax temperature: %.1f K\nFirst observed: %s\nLast observed: %s\nPixels: %d",
				f.MaxPower, f.MaxTemperature,
				f.FirstObserved.Format(time.RFC3339), f.LastObserved.Format(time.RFC3339),
				len(f.Footprint)),
			Style:    &style{PolyColor: powerColor(f.MaxPower)},
			Geometry: multiGeometry{Polygons: polys},
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode kml: %w", err)
	}
	return enc.Close()
}
