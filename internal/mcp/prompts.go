// ABOUTME: MCP prompts for common cellar workflows.
// ABOUTME: Provides pre-configured prompts for AI agent interactions.

package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerPrompts() {
	// Register individual prompts - SDK will automatically handle listing
	s.server.AddPrompt(&mcp.Prompt{
		Name:        "suggest-pairing",
		Description: "Suggest wines from the cellar to pair with a dish",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "dish",
				Description: "The dish or meal being served",
				Required:    true,
			},
		},
	}, s.getPairingPrompt)

	s.server.AddPrompt(&mcp.Prompt{
		Name:        "pick-tonight",
		Description: "Pick a bottle to open tonight based on occasion",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "occasion",
				Description: "The occasion, e.g. weeknight dinner or celebration",
				Required:    false,
			},
		},
	}, s.getPickTonightPrompt)

	s.server.AddPrompt(&mcp.Prompt{
		Name:        "restock-advice",
		Description: "Recommend wines to buy again based on archive ratings and rebuy verdicts",
	}, s.getRestockPrompt)
}

func (s *Server) getPairingPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	dish, ok := req.Params.Arguments["dish"]
	if !ok || dish == "" {
		return nil, fmt.Errorf("dish argument is required")
	}

	template := fmt.Sprintf(`Suggest a wine pairing for: %s

1. Use the list_wines tool to see what is in the cellar
2. Consider the dish's weight, richness, and dominant flavors
3. Rank the two or three best matches from the collection, explaining each pairing
4. Note the taste profile (boldness, tannins, acidity) that makes each a fit
5. If nothing in the cellar pairs well, say so and describe what style would`, dish)

	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: template,
				},
			},
		},
	}, nil
}

func (s *Server) getPickTonightPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	occasion, ok := req.Params.Arguments["occasion"]
	if !ok || occasion == "" {
		occasion = "a relaxed evening"
	}

	template := fmt.Sprintf(`Help me pick a bottle to open tonight for %s.

1. Use the list_wines tool to see the active collection
2. Favor bottles held the longest (oldest added date) unless the occasion calls for something special
3. Suggest one bottle with a short reason
4. After I confirm, use the adjust_quantity tool with delta -1, or the archive_wine tool if it was the last bottle`, occasion)

	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: template,
				},
			},
		},
	}, nil
}

func (s *Server) getRestockPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	template := `Help me decide what to restock:

1. Use the list_archive tool to see past wines with ratings and rebuy verdicts
2. List everything marked rebuy "yes", highest rated first
3. Mention "maybe" wines rated 4 or above as candidates
4. Use the list_wines tool to flag any of these already back in the collection
5. For each recommendation include the producer, name, and the store it was bought from`

	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: template,
				},
			},
		},
	}, nil
}
