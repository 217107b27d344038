// ABOUTME: MCP resources for exposing the collection as readable resources.
// ABOUTME: Allows AI agents to read a cellar summary and wines via URI scheme.

package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/harper/cellar/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	s.server.AddResource(
		&mcp.Resource{
			URI:         "cellar://summary",
			Name:        "Cellar summary",
			Description: "Overview of the active collection and archive",
			MIMEType:    "text/markdown",
		},
		s.handleSummaryResource,
	)

	// Dynamic per-wine access; the SDK handles listing from the template.
	s.server.AddResourceTemplate(
		&mcp.ResourceTemplate{
			URITemplate: "cellar://wine/{id}",
			Name:        "Wine",
			Description: "Access individual wines by ID",
			MIMEType:    "text/markdown",
		},
		s.handleWineResource,
	)
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	col := s.manager.Snapshot()

	var sb strings.Builder
	sb.WriteString("# Cellar\n\n")
	sb.WriteString(fmt.Sprintf("%d wines, %d bottles in the active collection. %d archived.\n\n",
		len(col.Wines), col.TotalBottles(), len(col.Archived)))

	byType := map[models.WineType]int{}
	for _, w := range col.Wines {
		byType[w.Type] += w.Quantity
	}
	for _, t := range []models.WineType{models.TypeRed, models.TypeWhite, models.TypeRose, models.TypeSparkling, models.TypeDessert} {
		if n := byType[t]; n > 0 {
			sb.WriteString(fmt.Sprintf("- %s: %d bottle(s)\n", t, n))
		}
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      req.Params.URI,
				MIMEType: "text/markdown",
				Text:     sb.String(),
			},
		},
	}, nil
}

func (s *Server) handleWineResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	// Parse URI: cellar://wine/{id}
	var idStr string
	if _, err := fmt.Sscanf(req.Params.URI, "cellar://wine/%s", &idStr); err != nil {
		return nil, fmt.Errorf("invalid resource URI: %s", req.Params.URI)
	}

	w, err := s.manager.FindByPrefix(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to get wine: %w", err)
	}

	content := fmt.Sprintf("# %s\n\n", strings.TrimSpace(w.Producer+" "+w.Name))
	content += fmt.Sprintf("**Type:** %s\n", w.Type)
	if w.Year > 0 {
		content += fmt.Sprintf("**Vintage:** %d\n", w.Year)
	}
	if w.Region != "" {
		content += fmt.Sprintf("**Region:** %s\n", w.Region)
	}
	if w.Grape != "" {
		content += fmt.Sprintf("**Grape:** %s\n", w.Grape)
	}
	content += fmt.Sprintf("**Bottles:** %d\n", w.Quantity)
	if w.Notes != "" {
		content += "\n" + w.Notes + "\n"
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      req.Params.URI,
				MIMEType: "text/markdown",
				Text:     content,
			},
		},
	}, nil
}
