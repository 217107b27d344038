// ABOUTME: Tests for terminal UI formatting functions.
// ABOUTME: Validates wine display, rating stars, and markdown rendering.

package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/harper/cellar/internal/models"
)

func TestFormatWineListItem(t *testing.T) {
	w := models.NewWine("Barolo", models.TypeRed)
	w.Producer = "Vietti"
	w.Year = 2019
	w.Region = "Piedmont"
	w.Quantity = 2

	output := FormatWineListItem(w)

	if !strings.Contains(output, w.ID.String()[:6]) {
		t.Error("expected output to contain ID prefix")
	}
	if !strings.Contains(output, "Vietti Barolo") {
		t.Error("expected output to contain producer and name")
	}
	if !strings.Contains(output, "2019") {
		t.Error("expected output to contain vintage")
	}
	if !strings.Contains(output, "2 bottles") {
		t.Error("expected plural bottle count")
	}
}

func TestFormatWineListItemSingleBottle(t *testing.T) {
	w := models.NewWine("Chablis", models.TypeWhite)

	output := FormatWineListItem(w)

	if !strings.Contains(output, "1 bottle") || strings.Contains(output, "1 bottles") {
		t.Errorf("expected singular bottle count, got:\n%s", output)
	}
}

func TestFormatArchivedListItem(t *testing.T) {
	w := models.NewWine("Rioja", models.TypeRed)
	a := models.Archive(*w, 4, models.RebuyYes, "great with lamb")
	a.ArchivedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	output := FormatArchivedListItem(&a)

	if !strings.Contains(output, "Rioja") {
		t.Error("expected output to contain name")
	}
	if !strings.Contains(output, "rebuy: yes") {
		t.Error("expected output to contain rebuy verdict")
	}
	if !strings.Contains(output, "2026-03-01") {
		t.Error("expected output to contain archive date")
	}
}

func TestRatingStars(t *testing.T) {
	tests := []struct {
		rating int
		filled int
	}{
		{0, 0},
		{3, 3},
		{5, 5},
		{9, 5},
		{-1, 0},
	}

	for _, tt := range tests {
		output := RatingStars(tt.rating)
		if got := strings.Count(output, "★"); got != tt.filled {
			t.Errorf("RatingStars(%d) has %d filled stars, want %d", tt.rating, got, tt.filled)
		}
		if got := strings.Count(output, "☆"); got != 5-tt.filled {
			t.Errorf("RatingStars(%d) has %d empty stars, want %d", tt.rating, got, 5-tt.filled)
		}
	}
}

func TestFormatNotes(t *testing.T) {
	notes := "# Tasting\n\nDark fruit, **firm** tannins."

	output, err := FormatNotes(notes)
	if err != nil {
		t.Fatalf("failed to format notes: %v", err)
	}

	if output == "" {
		t.Error("expected non-empty output")
	}
}

func TestFormatWineHeader(t *testing.T) {
	w := models.NewWine("Sancerre", models.TypeWhite)
	w.Grape = "Sauvignon Blanc"
	price := 24.50
	w.Price = &price

	output := FormatWineHeader(w)

	if !strings.Contains(output, "Sancerre") {
		t.Error("expected output to contain name")
	}
	if !strings.Contains(output, "Sauvignon Blanc") {
		t.Error("expected output to contain grape")
	}
	if !strings.Contains(output, "24.50") {
		t.Error("expected output to contain price")
	}
	if !strings.Contains(output, w.ID.String()) {
		t.Error("expected output to contain full ID")
	}
}
