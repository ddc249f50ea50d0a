package cluster

import "github.com/ashfall-data/wildfire.report/internal/fdc"

// FromFirePoints partitions one scan's fire points into connected
// components under 8-neighbor grid adjacency and materialises a Cluster
// per component.
//
// The algorithm is in-place seed expansion over the input slice: each
// unconsumed point seeds a working set, then forward passes over the array
// pull in every point neighboring ANY member of the working set, until a
// pass adds nothing. Consumed points are marked by resetting their grid
// position to the (0, 0) sentinel, so decoders must never emit that
// position for a live point. The scan's fire pixel count is small
// (hundreds to low thousands), so the quadratic sweep is dominated by its
// constant factors.
//
// The input slice is consumed by the call.
func FromFirePoints(points []fdc.FirePoint) []Cluster {
	var clusters []Cluster
	var members []fdc.FirePoint

	for i := range points {
		if points[i].Consumed() {
			continue
		}

		members = members[:0]
		members = append(members, points[i])
		points[i].X, points[i].Y = 0, 0

		for {
			added := false
			for j := range points {
				if points[j].Consumed() {
					continue
				}
				for _, m := range members {
					if m.IsNeighbor(points[j]) {
						members = append(members, points[j])
						points[j].X, points[j].Y = 0, 0
						added = true
						break
					}
				}
			}
			if !added {
				break
			}
		}

		c := NewCluster()
		for _, m := range members {
			c.AddPixel(m.Pixel)
		}
		clusters = append(clusters, c)
	}

	return clusters
}
