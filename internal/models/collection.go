// ABOUTME: Collection aggregate holding the active cellar and the archive.
// ABOUTME: Sorting is always stable and descending by the timestamp field.

package models

import (
	"sort"

	"github.com/google/uuid"
)

// Collection is the full persisted state: active wines plus archived ones,
// each list independently ordered newest-first.
type Collection struct {
	Wines    []Wine         `json:"wines"`
	Archived []ArchivedWine `json:"archived"`
}

// Sort orders both lists descending by their timestamp. The sort is stable
// so records with equal timestamps keep their original order.
func (c *Collection) Sort() {
	sort.SliceStable(c.Wines, func(i, j int) bool {
		return c.Wines[i].AddedAt.After(c.Wines[j].AddedAt)
	})
	sort.SliceStable(c.Archived, func(i, j int) bool {
		return c.Archived[i].ArchivedAt.After(c.Archived[j].ArchivedAt)
	})
}

// TotalBottles sums the quantity of every active wine.
func (c Collection) TotalBottles() int {
	total := 0
	for _, w := range c.Wines {
		total += w.Quantity
	}
	return total
}

// FindWine returns the active wine with the given ID.
func (c Collection) FindWine(id uuid.UUID) (Wine, bool) {
	for _, w := range c.Wines {
		if w.ID == id {
			return w, true
		}
	}
	return Wine{}, false
}

// FindArchived returns the archived wine with the given ID.
func (c Collection) FindArchived(id uuid.UUID) (ArchivedWine, bool) {
	for _, a := range c.Archived {
		if a.ID == id {
			return a, true
		}
	}
	return ArchivedWine{}, false
}

// Clone returns a deep enough copy: the slices are copied so the caller
// can mutate them without aliasing the original.
func (c Collection) Clone() Collection {
	out := Collection{
		Wines:    make([]Wine, len(c.Wines)),
		Archived: make([]ArchivedWine, len(c.Archived)),
	}
	copy(out.Wines, c.Wines)
	copy(out.Archived, c.Archived)
	return out
}

// StripImages returns a copy of the collection with every embedded image
// removed. Used as the degraded retry when the local store hits its size
// limit.
func (c Collection) StripImages() Collection {
	out := c.Clone()
	for i := range out.Wines {
		out.Wines[i].Image = ""
	}
	for i := range out.Archived {
		out.Archived[i].Image = ""
	}
	return out
}

// WinesByID returns the active list as a map keyed by ID.
func (c Collection) WinesByID() map[uuid.UUID]Wine {
	m := make(map[uuid.UUID]Wine, len(c.Wines))
	for _, w := range c.Wines {
		m[w.ID] = w
	}
	return m
}

// ArchivedByID returns the archive list as a map keyed by ID.
func (c Collection) ArchivedByID() map[uuid.UUID]ArchivedWine {
	m := make(map[uuid.UUID]ArchivedWine, len(c.Archived))
	for _, a := range c.Archived {
		m[a.ID] = a
	}
	return m
}
