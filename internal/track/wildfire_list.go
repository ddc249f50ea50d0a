package track

import "time"

// List is a growable collection of live wildfires. Removal is
// steal-by-swap: the removed slot is filled by the tail element, so
// deletion is O(1) and iteration order is unspecified.
type List struct {
	fires []*Wildfire
}

// NewList returns an empty wildfire list.
func NewList() *List {
	return &List{}
}

// Len returns the number of live fires.
func (l *List) Len() int { return len(l.fires) }

// Fires returns the live fires. The list retains ownership.
func (l *List) Fires() []*Wildfire { return l.fires }

// Add appends a fire to the list.
func (l *List) Add(f *Wildfire) {
	l.fires = append(l.fires, f)
}

// swapRemove removes and returns the fire at i by swapping in the tail.
func (l *List) swapRemove(i int) *Wildfire {
	f := l.fires[i]
	last := len(l.fires) - 1
	l.fires[i] = l.fires[last]
	l.fires[last] = nil
	l.fires = l.fires[:last]
	return f
}

// TryUpdate matches the row against the live fires by footprint
// adjacency-or-overlap and updates the first match. It reports whether a
// match was found; on false the caller spawns a new fire from the row.
func (l *List) TryUpdate(row *ClusterRow, eps float64) bool {
	for _, f := range l.fires {
		if f.pixels.AdjacentOrOverlaps(row.Pixels, eps) {
			f.Update(row, eps)
			return true
		}
	}
	return false
}

// Extend moves every fire from other into l, leaving other empty.
func (l *List) Extend(other *List) {
	l.fires = append(l.fires, other.fires...)
	other.fires = nil
}

// MergeEvent records one absorption during a merge sweep, for persistence
// as an external row naming the survivor and the absorbed fire.
type MergeEvent struct {
	SurvivorID uint32
	AbsorbedID uint32
}

// MergeFires sweeps the list pairwise and merges fires whose footprints
// have grown together. The fire with the larger pixel count absorbs the
// other; the absorbed fire is stolen into the returned drained list by
// swap removal. After each merge the inner sweep restarts at i's successor
// so transitive merges are caught in the same pass.
func (l *List) MergeFires(eps float64) (*List, []MergeEvent) {
	drained := NewList()
	var events []MergeEvent

	for i := 0; i < len(l.fires); i++ {
		for j := i + 1; j < len(l.fires); {
			if !l.fires[i].pixels.AdjacentOrOverlaps(l.fires[j].pixels, eps) {
				j++
				continue
			}
			// Keep the survivor at position i.
			if l.fires[j].PixelCount() > l.fires[i].PixelCount() {
				l.fires[i], l.fires[j] = l.fires[j], l.fires[i]
			}
			l.fires[i].absorb(l.fires[j], eps)
			events = append(events, MergeEvent{
				SurvivorID: l.fires[i].ID(),
				AbsorbedID: l.fires[j].ID(),
			})
			drained.fires = append(drained.fires, l.swapRemove(j))
			j = i + 1
		}
	}
	return drained, events
}

// DrainStale removes and returns the fires that are stale as of now under
// the given grace and maximum-gap windows.
func (l *List) DrainStale(now time.Time, grace, maxGap time.Duration) *List {
	drained := NewList()
	for i := 0; i < len(l.fires); {
		if l.fires[i].Stale(now, grace, maxGap) {
			drained.fires = append(drained.fires, l.swapRemove(i))
		} else {
			i++
		}
	}
	return drained
}
