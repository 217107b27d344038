// ABOUTME: Tests for recognition parsing, error taxonomy, and fallback.
// ABOUTME: Uses httptest servers to stand in for the vision API.

package vision

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/harper/cellar/internal/models"
)

func TestParseRecognition(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		want    string // expected wine name, empty means error
		wantErr bool
	}{
		{
			name:  "bare json",
			reply: `{"name":"Barolo","type":"red","boldness":4}`,
			want:  "Barolo",
		},
		{
			name: "fenced json",
			reply: "```json\n" +
				`{"name":"Chablis","type":"white"}` + "\n```",
			want: "Chablis",
		},
		{
			name:  "lead-in prose",
			reply: `Sure! Here is the record: {"name":"Cava","type":"sparkling"} Hope that helps.`,
			want:  "Cava",
		},
		{name: "no json object", reply: "I could not read the label.", wantErr: true},
		{name: "broken json", reply: `{"name": "oops"`, wantErr: true},
		{name: "missing name", reply: `{"type":"red"}`, wantErr: true},
		{name: "empty", reply: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseRecognition(tt.reply)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformed) {
					t.Fatalf("expected ErrMalformed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Name != tt.want {
				t.Errorf("name = %q, want %q", rec.Name, tt.want)
			}
		})
	}
}

func TestRecognitionWineClampsAndDefaults(t *testing.T) {
	rec := Recognition{Name: "Test", Type: "merlot-ish", Boldness: 9, Tannins: 0, Acidity: 3}
	w := rec.Wine()

	if w.Type != models.TypeRed {
		t.Errorf("unknown type should default to red, got %q", w.Type)
	}
	if w.Boldness != 5 || w.Tannins != 1 {
		t.Errorf("scales not clamped: boldness=%d tannins=%d", w.Boldness, w.Tannins)
	}
	if w.Quantity != 1 {
		t.Errorf("expected quantity 1, got %d", w.Quantity)
	}
}

func visionHandler(status int, content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":` + content + `}}]}`))
		}
	}
}

func TestOpenAIRecognize(t *testing.T) {
	srv := httptest.NewServer(visionHandler(http.StatusOK,
		`"{\"name\":\"Rioja\",\"type\":\"red\",\"year\":2019}"`))
	defer srv.Close()

	client := NewOpenAI(srv.URL, "test-model", "key")
	rec, err := client.Recognize(context.Background(), "aW1n")
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if rec.Name != "Rioja" || rec.Year != 2019 {
		t.Errorf("unexpected recognition: %+v", rec)
	}
}

func TestOpenAIErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, want: ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, want: ErrUnauthorized},
		{name: "rate limited", status: http.StatusTooManyRequests, want: ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(visionHandler(tt.status, ""))
			defer srv.Close()

			client := NewOpenAI(srv.URL, "", "bad-key")
			_, err := client.Recognize(context.Background(), "aW1n")
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestStubIsDeterministicPerSeed(t *testing.T) {
	a, err := NewStub(42).Recognize(context.Background(), "")
	if err != nil {
		t.Fatalf("stub failed: %v", err)
	}
	b, err := NewStub(42).Recognize(context.Background(), "")
	if err != nil {
		t.Fatalf("stub failed: %v", err)
	}
	if a.Name != b.Name {
		t.Errorf("same seed should give same record: %q vs %q", a.Name, b.Name)
	}
	if a.Name == "" {
		t.Error("stub record must have a name")
	}
}

// failingRecognizer always errors, for fallback tests.
type failingRecognizer struct{}

func (failingRecognizer) Recognize(context.Context, string) (*Recognition, error) {
	return nil, ErrRateLimited
}

func TestFallbackKeepsFlowUnblocked(t *testing.T) {
	rec := WithFallback(failingRecognizer{}, NewStub(1))

	got, err := rec.Recognize(context.Background(), "aW1n")
	if err != nil {
		t.Fatalf("fallback should not fail: %v", err)
	}
	if got.Name == "" {
		t.Error("fallback should produce a usable record")
	}
}
