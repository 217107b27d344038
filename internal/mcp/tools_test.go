// ABOUTME: Tests for the MCP tool handlers.
// ABOUTME: List filtering and limit handling against an in-memory manager.

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/harper/cellar/internal/cellar"
	"github.com/harper/cellar/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func newTestServer(t *testing.T, wines int) *Server {
	t.Helper()
	m := cellar.NewManager(nil, nil)
	for i := 0; i < wines; i++ {
		if _, err := m.Add(context.Background(), models.Wine{
			Name: fmt.Sprintf("wine-%02d", i),
			Type: models.TypeRed,
		}); err != nil {
			t.Fatalf("seed wine: %v", err)
		}
		a := models.Archive(*models.NewWine(fmt.Sprintf("drunk-%02d", i), models.TypeWhite), 3, models.RebuyNo, "")
		if _, err := m.AddArchived(context.Background(), a); err != nil {
			t.Fatalf("seed archive: %v", err)
		}
	}
	return NewServer(m)
}

func callWith(args string) *mcp.CallToolRequest {
	return &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Arguments: json.RawMessage(args)},
	}
}

func decodeList[T any](t *testing.T, res *mcp.CallToolResult) []T {
	t.Helper()
	if res.IsError {
		t.Fatalf("unexpected tool error: %v", res.Content)
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	var out []T
	if err := json.Unmarshal([]byte(text.Text), &out); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return out
}

func TestListWinesLimit(t *testing.T) {
	s := newTestServer(t, 25)

	tests := []struct {
		name string
		args string
		want int
	}{
		{"explicit limit", `{"limit": 3}`, 3},
		{"absent limit defaults to 20", `{}`, 20},
		{"zero limit defaults to 20", `{"limit": 0}`, 20},
		{"negative limit defaults to 20", `{"limit": -1}`, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.handleListWines(context.Background(), callWith(tt.args))
			if err != nil {
				t.Fatalf("handleListWines: %v", err)
			}
			got := decodeList[models.Wine](t, res)
			if len(got) != tt.want {
				t.Errorf("got %d wines, want %d", len(got), tt.want)
			}
		})
	}
}

func TestListArchiveLimitMatchesListWines(t *testing.T) {
	s := newTestServer(t, 25)

	for _, args := range []string{`{}`, `{"limit": 0}`, `{"limit": -5}`} {
		res, err := s.handleListArchive(context.Background(), callWith(args))
		if err != nil {
			t.Fatalf("handleListArchive(%s): %v", args, err)
		}
		got := decodeList[models.ArchivedWine](t, res)
		if len(got) != 20 {
			t.Errorf("args %s: got %d archived, want default 20", args, len(got))
		}
	}

	res, err := s.handleListArchive(context.Background(), callWith(`{"limit": 4}`))
	if err != nil {
		t.Fatalf("handleListArchive: %v", err)
	}
	if got := decodeList[models.ArchivedWine](t, res); len(got) != 4 {
		t.Errorf("got %d archived, want 4", len(got))
	}
}

func TestListWinesSearchFilter(t *testing.T) {
	s := newTestServer(t, 5)

	res, err := s.handleListWines(context.Background(), callWith(`{"search": "wine-03"}`))
	if err != nil {
		t.Fatalf("handleListWines: %v", err)
	}
	got := decodeList[models.Wine](t, res)
	if len(got) != 1 || got[0].Name != "wine-03" {
		t.Errorf("search miss: got %v", got)
	}
}
