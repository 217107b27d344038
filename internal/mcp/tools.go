// ABOUTME: MCP tools for wine collection CRUD operations.
// ABOUTME: Maps CLI functionality to MCP tool interface.

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harper/cellar/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// add_wine
	s.server.AddTool(&mcp.Tool{
		Name:        "add_wine",
		Description: "Add a wine to the active collection",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"name": {"type": "string", "description": "Wine name"},
				"type": {"type": "string", "description": "Wine type: red, white, rosé, sparkling, dessert"},
				"producer": {"type": "string", "description": "Producer or winery"},
				"year": {"type": "integer", "description": "Vintage year"},
				"region": {"type": "string", "description": "Region of origin"},
				"grape": {"type": "string", "description": "Grape variety"},
				"quantity": {"type": "integer", "description": "Bottle count", "default": 1},
				"price": {"type": "number", "description": "Price per bottle"},
				"store": {"type": "string", "description": "Where it was bought"},
				"notes": {"type": "string", "description": "Free-form notes (markdown)"}
			},
			"required": ["name", "type"]
		}`),
	}, s.handleAddWine)

	// list_wines
	s.server.AddTool(&mcp.Tool{
		Name:        "list_wines",
		Description: "List wines in the active collection with optional filtering",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"type": {"type": "string", "description": "Filter by wine type"},
				"search": {"type": "string", "description": "Substring match on name, producer, region, grape"},
				"limit": {"type": "integer", "description": "Max results", "default": 20}
			}
		}`),
	}, s.handleListWines)

	// get_wine
	s.server.AddTool(&mcp.Tool{
		Name:        "get_wine",
		Description: "Get a wine by ID prefix",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Wine ID or prefix (6+ chars)"}
			},
			"required": ["id"]
		}`),
	}, s.handleGetWine)

	// update_wine
	s.server.AddTool(&mcp.Tool{
		Name:        "update_wine",
		Description: "Update fields on a wine in the active collection",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Wine ID or prefix"},
				"name": {"type": "string", "description": "New name"},
				"producer": {"type": "string", "description": "New producer"},
				"year": {"type": "integer", "description": "New vintage year"},
				"region": {"type": "string", "description": "New region"},
				"grape": {"type": "string", "description": "New grape variety"},
				"notes": {"type": "string", "description": "New notes"}
			},
			"required": ["id"]
		}`),
	}, s.handleUpdateWine)

	// adjust_quantity
	s.server.AddTool(&mcp.Tool{
		Name:        "adjust_quantity",
		Description: "Adjust a wine's bottle count by a delta (never below one; archive to remove)",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Wine ID or prefix"},
				"delta": {"type": "integer", "description": "Change in bottle count, e.g. -1 or 2"}
			},
			"required": ["id", "delta"]
		}`),
	}, s.handleAdjustQuantity)

	// archive_wine
	s.server.AddTool(&mcp.Tool{
		Name:        "archive_wine",
		Description: "Move a wine to the archive with a tasting verdict",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Wine ID or prefix"},
				"rating": {"type": "integer", "description": "Rating 1-5"},
				"rebuy": {"type": "string", "description": "Rebuy verdict: yes, maybe, no"},
				"notes": {"type": "string", "description": "Tasting notes"}
			},
			"required": ["id"]
		}`),
	}, s.handleArchiveWine)

	// restore_wine
	s.server.AddTool(&mcp.Tool{
		Name:        "restore_wine",
		Description: "Restore an archived wine back into the active collection as a new entry",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Archived wine ID or prefix"}
			},
			"required": ["id"]
		}`),
	}, s.handleRestoreWine)

	// delete_wine
	s.server.AddTool(&mcp.Tool{
		Name:        "delete_wine",
		Description: "Permanently delete a wine from the active collection or the archive",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Wine ID or prefix"},
				"archived": {"type": "boolean", "description": "Delete from the archive instead of the active collection"}
			},
			"required": ["id"]
		}`),
	}, s.handleDeleteWine)

	// list_archive
	s.server.AddTool(&mcp.Tool{
		Name:        "list_archive",
		Description: "List archived wines with ratings and rebuy verdicts",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"limit": {"type": "integer", "description": "Max results", "default": 20}
			}
		}`),
	}, s.handleListArchive)
}

func toolError(format string, args ...interface{}) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(format, args...)},
		},
		IsError: true,
	}
}

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func toolJSON(v interface{}) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(v, "", "  ")
	return toolText(string(data))
}

// Tool handlers.
func (s *Server) handleAddWine(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Name     string   `json:"name"`
		Type     string   `json:"type"`
		Producer string   `json:"producer"`
		Year     int      `json:"year"`
		Region   string   `json:"region"`
		Grape    string   `json:"grape"`
		Quantity int      `json:"quantity"`
		Price    *float64 `json:"price"`
		Store    string   `json:"store"`
		Notes    string   `json:"notes"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	wineType, err := models.ParseWineType(params.Type)
	if err != nil {
		return toolError("invalid wine type: %v", err), nil
	}

	w := models.NewWine(strings.TrimSpace(params.Name), wineType)
	w.Producer = params.Producer
	w.Year = params.Year
	w.Region = params.Region
	w.Grape = params.Grape
	w.Price = params.Price
	w.Store = params.Store
	w.Notes = params.Notes
	if params.Quantity > 0 {
		w.Quantity = params.Quantity
	}

	added, err := s.manager.Add(ctx, *w)
	if err != nil {
		return toolError("failed to add wine: %v", err), nil
	}

	return toolText(fmt.Sprintf("Added wine %s", added.ID.String())), nil
}

func (s *Server) handleListWines(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Type   string `json:"type"`
		Search string `json:"search"`
		Limit  int    `json:"limit"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}
	if params.Limit <= 0 {
		params.Limit = 20
	}

	col := s.manager.Snapshot()
	col = col.StripImages()

	var out []models.Wine
	for _, w := range col.Wines {
		if params.Type != "" && !strings.EqualFold(string(w.Type), params.Type) {
			continue
		}
		if params.Search != "" && !wineMatches(w, params.Search) {
			continue
		}
		out = append(out, w)
		if len(out) >= params.Limit {
			break
		}
	}

	return toolJSON(out), nil
}

func wineMatches(w models.Wine, query string) bool {
	q := strings.ToLower(query)
	for _, field := range []string{w.Name, w.Producer, w.Region, w.Grape, w.Notes} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func (s *Server) handleGetWine(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	w, err := s.manager.FindByPrefix(params.ID)
	if err != nil {
		return toolError("failed to get wine: %v", err), nil
	}
	w.Image = ""

	return toolJSON(w), nil
}

func (s *Server) handleUpdateWine(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID       string  `json:"id"`
		Name     *string `json:"name"`
		Producer *string `json:"producer"`
		Year     *int    `json:"year"`
		Region   *string `json:"region"`
		Grape    *string `json:"grape"`
		Notes    *string `json:"notes"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	w, err := s.manager.FindByPrefix(params.ID)
	if err != nil {
		return toolError("failed to find wine: %v", err), nil
	}

	if params.Name != nil {
		w.Name = *params.Name
	}
	if params.Producer != nil {
		w.Producer = *params.Producer
	}
	if params.Year != nil {
		w.Year = *params.Year
	}
	if params.Region != nil {
		w.Region = *params.Region
	}
	if params.Grape != nil {
		w.Grape = *params.Grape
	}
	if params.Notes != nil {
		w.Notes = *params.Notes
	}

	if _, err := s.manager.Update(ctx, w); err != nil {
		return toolError("failed to update wine: %v", err), nil
	}

	return toolText(fmt.Sprintf("Updated wine %s", w.ID.String())), nil
}

func (s *Server) handleAdjustQuantity(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID    string `json:"id"`
		Delta int    `json:"delta"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	w, err := s.manager.FindByPrefix(params.ID)
	if err != nil {
		return toolError("failed to find wine: %v", err), nil
	}

	updated, err := s.manager.AdjustQuantity(ctx, w.ID, params.Delta)
	if err != nil {
		return toolError("failed to adjust quantity: %v", err), nil
	}

	return toolText(fmt.Sprintf("Wine %s now has %d bottle(s)", updated.ID.String(), updated.Quantity)), nil
}

func (s *Server) handleArchiveWine(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID     string `json:"id"`
		Rating int    `json:"rating"`
		Rebuy  string `json:"rebuy"`
		Notes  string `json:"notes"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	rebuy := models.Rebuy(params.Rebuy)
	if !rebuy.Valid() {
		return toolError("invalid rebuy verdict %q: want yes, maybe, or no", params.Rebuy), nil
	}

	w, err := s.manager.FindByPrefix(params.ID)
	if err != nil {
		return toolError("failed to find wine: %v", err), nil
	}

	archived, err := s.manager.Archive(ctx, w.ID, params.Rating, rebuy, params.Notes)
	if err != nil {
		return toolError("failed to archive wine: %v", err), nil
	}

	return toolText(fmt.Sprintf("Archived wine %s", archived.ID.String())), nil
}

func (s *Server) handleRestoreWine(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	a, err := s.manager.FindArchivedByPrefix(params.ID)
	if err != nil {
		return toolError("failed to find archived wine: %v", err), nil
	}

	restored, err := s.manager.Restore(ctx, a.ID)
	if err != nil {
		return toolError("failed to restore wine: %v", err), nil
	}

	return toolText(fmt.Sprintf("Restored %s as new wine %s", a.Name, restored.ID.String())), nil
}

func (s *Server) handleDeleteWine(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID       string `json:"id"`
		Archived bool   `json:"archived"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	if params.Archived {
		a, err := s.manager.FindArchivedByPrefix(params.ID)
		if err != nil {
			return toolError("failed to find archived wine: %v", err), nil
		}
		if err := s.manager.PurgeArchived(ctx, a.ID); err != nil {
			return toolError("failed to delete archived wine: %v", err), nil
		}
		return toolText(fmt.Sprintf("Deleted archived wine %s", a.ID.String())), nil
	}

	w, err := s.manager.FindByPrefix(params.ID)
	if err != nil {
		return toolError("failed to find wine: %v", err), nil
	}
	if err := s.manager.Delete(ctx, w.ID); err != nil {
		return toolError("failed to delete wine: %v", err), nil
	}

	return toolText(fmt.Sprintf("Deleted wine %s", w.ID.String())), nil
}

func (s *Server) handleListArchive(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Limit int `json:"limit"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}
	if params.Limit <= 0 {
		params.Limit = 20
	}

	col := s.manager.Snapshot()
	col = col.StripImages()

	out := col.Archived
	if len(out) > params.Limit {
		out = out[:params.Limit]
	}

	return toolJSON(out), nil
}
