// ABOUTME: Wine model representing an active bottle in the cellar.
// ABOUTME: Provides constructor, type enumeration, and scale clamping.

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WineType enumerates the supported wine styles.
type WineType string

const (
	TypeRed       WineType = "red"
	TypeWhite     WineType = "white"
	TypeRose      WineType = "rosé"
	TypeSparkling WineType = "sparkling"
	TypeDessert   WineType = "dessert"
)

// WineTypes lists every valid WineType, in display order.
var WineTypes = []WineType{TypeRed, TypeWhite, TypeRose, TypeSparkling, TypeDessert}

// Valid reports whether t is a known wine type.
func (t WineType) Valid() bool {
	for _, known := range WineTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseWineType converts a user-supplied string to a WineType.
func ParseWineType(s string) (WineType, error) {
	t := WineType(s)
	if s == "rose" {
		t = TypeRose
	}
	if !t.Valid() {
		return "", fmt.Errorf("unknown wine type %q (valid: red, white, rosé, sparkling, dessert)", s)
	}
	return t, nil
}

type Wine struct {
	ID       uuid.UUID `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Producer string    `json:"producer,omitempty" yaml:"producer,omitempty"`
	Type     WineType  `json:"type" yaml:"type"`
	Year     int       `json:"year,omitempty" yaml:"year,omitempty"`
	Region   string    `json:"region,omitempty" yaml:"region,omitempty"`
	Grape    string    `json:"grape,omitempty" yaml:"grape,omitempty"`
	Boldness int       `json:"boldness" yaml:"boldness"`
	Tannins  int       `json:"tannins" yaml:"tannins"`
	Acidity  int       `json:"acidity" yaml:"acidity"`
	Price    *float64  `json:"price,omitempty" yaml:"price,omitempty"`
	Quantity int       `json:"quantity" yaml:"quantity"`
	Store    string    `json:"store,omitempty" yaml:"store,omitempty"`
	Notes    string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	Image    string    `json:"image,omitempty" yaml:"-"`
	AddedAt  time.Time `json:"added_at" yaml:"added"`
}

// NewWine creates a wine with a fresh ID, a quantity of one bottle,
// mid-scale taste attributes, and the current time as AddedAt.
func NewWine(name string, wineType WineType) *Wine {
	return &Wine{
		ID:       uuid.New(),
		Name:     name,
		Type:     wineType,
		Boldness: 3,
		Tannins:  3,
		Acidity:  3,
		Quantity: 1,
		AddedAt:  time.Now(),
	}
}

// ClampScales forces the 1..5 taste attributes into range.
func (w *Wine) ClampScales() {
	w.Boldness = clampScale(w.Boldness)
	w.Tannins = clampScale(w.Tannins)
	w.Acidity = clampScale(w.Acidity)
}

func clampScale(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}
