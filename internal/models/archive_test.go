// ABOUTME: Tests for archive and restore lifecycle transitions.
// ABOUTME: Verifies copy semantics and fresh identity on restore.

package models

import (
	"testing"
	"time"
)

func TestArchiveCopiesRecord(t *testing.T) {
	w := NewWine("Barolo", TypeRed)
	w.Producer = "Conterno"
	w.Year = 2016
	w.Quantity = 2

	a := Archive(*w, 4, RebuyYes, "great with dinner")

	if a.ID != w.ID {
		t.Errorf("archive should keep the original ID, got %s want %s", a.ID, w.ID)
	}
	if a.Name != w.Name || a.Producer != w.Producer || a.Year != w.Year {
		t.Error("archive should copy descriptive fields")
	}
	if a.Rating != 4 {
		t.Errorf("expected rating 4, got %d", a.Rating)
	}
	if a.Rebuy != RebuyYes {
		t.Errorf("expected rebuy yes, got %q", a.Rebuy)
	}
	if a.ArchiveNotes != "great with dinner" {
		t.Errorf("unexpected archive notes: %q", a.ArchiveNotes)
	}
	if a.ArchivedAt.IsZero() {
		t.Error("expected ArchivedAt to be set")
	}
}

func TestArchiveClampsRating(t *testing.T) {
	w := NewWine("Test", TypeWhite)

	if got := Archive(*w, -1, RebuyUnset, "").Rating; got != 0 {
		t.Errorf("expected rating clamped to 0, got %d", got)
	}
	if got := Archive(*w, 7, RebuyUnset, "").Rating; got != 5 {
		t.Errorf("expected rating clamped to 5, got %d", got)
	}
}

func TestRestoreGeneratesFreshIdentity(t *testing.T) {
	w := NewWine("Chablis", TypeWhite)
	a := Archive(*w, 3, RebuyMaybe, "")

	time.Sleep(time.Millisecond)
	restored := a.Restore()

	if restored.ID == a.ID {
		t.Error("restore must generate a new ID, not reuse the archived one")
	}
	if !restored.AddedAt.After(a.AddedAt) {
		t.Error("restore must stamp a fresh AddedAt")
	}
	if restored.Name != a.Name || restored.Type != a.Type {
		t.Error("restore should copy descriptive fields")
	}
	if restored.Quantity < 1 {
		t.Errorf("restored quantity must be at least 1, got %d", restored.Quantity)
	}
}

func TestRestoreKeepsBottleCount(t *testing.T) {
	w := NewWine("Meursault", TypeWhite)
	w.Quantity = 4
	a := Archive(*w, 4, RebuyYes, "")

	if got := a.Restore().Quantity; got != 4 {
		t.Errorf("restore should keep the archived bottle count, got %d want 4", got)
	}

	a.Quantity = 0
	if got := a.Restore().Quantity; got != 1 {
		t.Errorf("restore should floor a zero count at 1, got %d", got)
	}
}

func TestRebuyValid(t *testing.T) {
	for _, r := range []Rebuy{RebuyYes, RebuyMaybe, RebuyNo, RebuyUnset} {
		if !r.Valid() {
			t.Errorf("expected %q to be valid", r)
		}
	}
	if Rebuy("definitely").Valid() {
		t.Error("expected unknown rebuy value to be invalid")
	}
}
