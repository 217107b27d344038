// ABOUTME: Label recognition contract and result type.
// ABOUTME: Implementations: OpenAI-compatible HTTP client and demo stub.

package vision

import (
	"context"
	"errors"

	"github.com/harper/cellar/internal/models"
)

var (
	// ErrUnauthorized means the API key was rejected.
	ErrUnauthorized = errors.New("vision service rejected credentials")
	// ErrRateLimited means the service asked us to back off.
	ErrRateLimited = errors.New("vision service rate limit reached")
	// ErrMalformed means the reply carried no extractable record.
	ErrMalformed = errors.New("vision service returned a malformed reply")
)

// Recognition is the structured record a vision model extracts from a
// label photo.
type Recognition struct {
	Name     string          `json:"name"`
	Producer string          `json:"producer"`
	Type     models.WineType `json:"type"`
	Year     int             `json:"year"`
	Region   string          `json:"region"`
	Grape    string          `json:"grape"`
	Boldness int             `json:"boldness"`
	Tannins  int             `json:"tannins"`
	Acidity  int             `json:"acidity"`
	Price    *float64        `json:"price"`
	Notes    string          `json:"description"`
}

// Wine builds a new active record from the recognition, with a fresh ID
// and sane bounds.
func (r Recognition) Wine() models.Wine {
	wineType := r.Type
	if !wineType.Valid() {
		wineType = models.TypeRed
	}
	w := models.NewWine(r.Name, wineType)
	w.Producer = r.Producer
	w.Year = r.Year
	w.Region = r.Region
	w.Grape = r.Grape
	w.Boldness = r.Boldness
	w.Tannins = r.Tannins
	w.Acidity = r.Acidity
	w.Price = r.Price
	w.Notes = r.Notes
	w.ClampScales()
	return *w
}

// Recognizer turns a base64-encoded label photo into a structured record.
type Recognizer interface {
	Recognize(ctx context.Context, imageBase64 string) (*Recognition, error)
}

// WithFallback wraps a primary recognizer so that any failure falls
// through to the backup. Used to keep the add-a-bottle flow unblocked
// when the real service is down: the backup is the demo stub.
func WithFallback(primary, backup Recognizer) Recognizer {
	return &fallback{primary: primary, backup: backup}
}

type fallback struct {
	primary Recognizer
	backup  Recognizer
}

func (f *fallback) Recognize(ctx context.Context, imageBase64 string) (*Recognition, error) {
	rec, err := f.primary.Recognize(ctx, imageBase64)
	if err == nil {
		return rec, nil
	}
	return f.backup.Recognize(ctx, imageBase64)
}
