package fdc

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Pixel lists cross the database boundary as BLOBs in a length-prefixed
// little-endian layout: an 8-byte pixel count, an 8-byte capacity, then
// one fixed-size record per pixel (four corner coordinate pairs, the four
// measurements, and the two flag fields). The round trip is byte-stable on
// a single platform; cross-endian portability is not attempted.

const (
	codecHeaderSize = 16
	pixelRecordSize = 8*8 + 4*8 + 2 + 2
)

// MarshalBinary encodes the pixel list into its stable blob form.
func (pl PixelList) MarshalBinary() ([]byte, error) {
	buf := make([]byte, codecHeaderSize+len(pl)*pixelRecordSize)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(len(pl)))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(cap(pl)))

	off := codecHeaderSize
	for i := range pl {
		off = putPixel(buf, off, &pl[i])
	}
	return buf, nil
}

func putFloat(buf []byte, off int, v float64) int {
	binary.LittleEndian.PutUint64(buf[off:off+8], math.Float64bits(v))
	return off + 8
}

func putPixel(buf []byte, off int, p *Pixel) int {
	for _, c := range p.Quad.Corners() {
		off = putFloat(buf, off, c.Lat)
		off = putFloat(buf, off, c.Lon)
	}
	off = putFloat(buf, off, p.Power)
	off = putFloat(buf, off, p.Area)
	off = putFloat(buf, off, p.Temperature)
	off = putFloat(buf, off, p.ScanAngle)
	binary.LittleEndian.PutUint16(buf[off:off+2], uint16(p.MaskFlag))
	binary.LittleEndian.PutUint16(buf[off+2:off+4], p.DataQualityFlag)
	return off + 4
}

// UnmarshalPixelList decodes a blob previously produced by MarshalBinary.
// Blobs come back from the database file, so malformed input is reported
// as an error rather than a panic.
func UnmarshalPixelList(data []byte) (PixelList, error) {
	if len(data) < codecHeaderSize {
		return nil, fmt.Errorf("fdc: pixel list blob too short: %d bytes", len(data))
	}
	n := binary.LittleEndian.Uint64(data[0:8])
	want := codecHeaderSize + int(n)*pixelRecordSize
	if len(data) != want {
		return nil, fmt.Errorf("fdc: pixel list blob length %d does not match %d pixels (want %d)",
			len(data), n, want)
	}

	pl := make(PixelList, n)
	off := codecHeaderSize
	for i := range pl {
		off = getPixel(data, off, &pl[i])
	}
	return pl, nil
}

func getFloat(buf []byte, off int) (float64, int) {
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[off : off+8])), off + 8
}

func getPixel(buf []byte, off int, p *Pixel) int {
	p.Quad.UL.Lat, off = getFloat(buf, off)
	p.Quad.UL.Lon, off = getFloat(buf, off)
	p.Quad.UR.Lat, off = getFloat(buf, off)
	p.Quad.UR.Lon, off = getFloat(buf, off)
	p.Quad.LR.Lat, off = getFloat(buf, off)
	p.Quad.LR.Lon, off = getFloat(buf, off)
	p.Quad.LL.Lat, off = getFloat(buf, off)
	p.Quad.LL.Lon, off = getFloat(buf, off)
	p.Power, off = getFloat(buf, off)
	p.Area, off = getFloat(buf, off)
	p.Temperature, off = getFloat(buf, off)
	p.ScanAngle, off = getFloat(buf, off)
	p.MaskFlag = int16(binary.LittleEndian.Uint16(buf[off : off+2]))
	p.DataQualityFlag = binary.LittleEndian.Uint16(buf[off+2 : off+4])
	return off + 4
}
