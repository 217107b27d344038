// ABOUTME: Demo recognizer returning canned records.
// ABOUTME: Keeps the add-a-bottle flow working without a vision service.

package vision

import (
	"context"
	"math/rand"
)

// demoCellar is the pool of canned recognitions the stub draws from.
var demoCellar = []Recognition{
	{
		Name: "Gran Reserva", Producer: "Bodegas Altura", Type: "red",
		Year: 2018, Region: "Rioja", Grape: "Tempranillo",
		Boldness: 4, Tannins: 4, Acidity: 3,
		Notes: "Dark cherry and vanilla with a long oak finish.",
	},
	{
		Name: "Les Terrasses", Producer: "Domaine Vallon", Type: "white",
		Year: 2022, Region: "Burgundy", Grape: "Chardonnay",
		Boldness: 2, Tannins: 1, Acidity: 4,
		Notes: "Crisp orchard fruit, light flint, lively acidity.",
	},
	{
		Name: "Coastal Rosé", Producer: "Mareterra", Type: "rosé",
		Year: 2023, Region: "Provence", Grape: "Grenache",
		Boldness: 1, Tannins: 1, Acidity: 3,
		Notes: "Pale salmon, strawberry and citrus zest, bone dry.",
	},
	{
		Name: "Blanc de Blancs", Producer: "Maison Perle", Type: "sparkling",
		Year: 2019, Region: "Champagne", Grape: "Chardonnay",
		Boldness: 2, Tannins: 1, Acidity: 5,
		Notes: "Fine mousse, brioche and green apple.",
	},
	{
		Name: "Late Harvest", Producer: "Quinta do Sol", Type: "dessert",
		Year: 2017, Region: "Douro", Grape: "Touriga Nacional",
		Boldness: 5, Tannins: 2, Acidity: 3,
		Notes: "Fig and honey sweetness balanced by fresh acidity.",
	},
}

// Stub is a Recognizer that ignores the image and returns a random demo
// record. Selected by configuration when no real provider is set up, and
// used as the fallback when the real one fails.
type Stub struct {
	rng *rand.Rand
}

// NewStub creates a stub seeded from the given source. A zero seed gives
// deterministic output, handy in tests.
func NewStub(seed int64) *Stub {
	return &Stub{rng: rand.New(rand.NewSource(seed))}
}

// Recognize returns one of the canned records.
func (s *Stub) Recognize(ctx context.Context, _ string) (*Recognition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec := demoCellar[s.rng.Intn(len(demoCellar))]
	return &rec, nil
}
