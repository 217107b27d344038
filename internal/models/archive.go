// ABOUTME: ArchivedWine model for consumed bottles kept with a verdict.
// ABOUTME: Archive and restore are copies, never shared references.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Rebuy enumerates the would-buy-again verdict on an archived wine.
type Rebuy string

const (
	RebuyYes   Rebuy = "yes"
	RebuyMaybe Rebuy = "maybe"
	RebuyNo    Rebuy = "no"
	RebuyUnset Rebuy = ""
)

// Valid reports whether r is a known rebuy verdict. The empty value is
// valid and means no verdict was recorded.
func (r Rebuy) Valid() bool {
	switch r {
	case RebuyYes, RebuyMaybe, RebuyNo, RebuyUnset:
		return true
	}
	return false
}

// ArchivedWine is a wine that left the active cellar, retaining the full
// record plus a rating, a rebuy verdict, and archive-specific notes.
type ArchivedWine struct {
	Wine         `yaml:",inline"`
	Rating       int       `json:"rating" yaml:"rating"`
	Rebuy        Rebuy     `json:"rebuy,omitempty" yaml:"rebuy,omitempty"`
	ArchiveNotes string    `json:"archive_notes,omitempty" yaml:"archive_notes,omitempty"`
	ArchivedAt   time.Time `json:"archived_at" yaml:"archived"`
}

// Archive copies w into a new ArchivedWine stamped with the current time.
// The rating is clamped to 0..5.
func Archive(w Wine, rating int, rebuy Rebuy, notes string) ArchivedWine {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return ArchivedWine{
		Wine:         w,
		Rating:       rating,
		Rebuy:        rebuy,
		ArchiveNotes: notes,
		ArchivedAt:   time.Now(),
	}
}

// Restore produces a new active wine from the archived record. The result
// carries a freshly generated ID and AddedAt; the old identity is never
// reused.
func (a ArchivedWine) Restore() Wine {
	w := a.Wine
	w.ID = uuid.New()
	w.AddedAt = time.Now()
	if w.Quantity < 1 {
		w.Quantity = 1
	}
	return w
}
