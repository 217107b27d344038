// ABOUTME: OpenAI-compatible vision client for reading wine labels.
// ABOUTME: Extracts the JSON record defensively from chatty replies.

package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultEndpoint is the chat-completions URL of the hosted API.
	DefaultEndpoint = "https://api.openai.com/v1/chat/completions"
	// DefaultModel is used when the config leaves the model empty.
	DefaultModel = "gpt-4o-mini"

	requestTimeout = 30 * time.Second
)

const prompt = `You are a sommelier cataloguing a wine from its label photo.
Reply with a single JSON object and nothing else, with these keys:
name, producer, type (one of red, white, rosé, sparkling, dessert),
year (integer), region, grape, boldness (1-5), tannins (1-5),
acidity (1-5), price (number or null), description (one sentence).`

// OpenAI calls an OpenAI-compatible chat-completions endpoint with the
// label image attached.
type OpenAI struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
}

// NewOpenAI builds a client. Empty endpoint or model fall back to the
// defaults.
func NewOpenAI(endpoint, model, apiKey string) *OpenAI {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if model == "" {
		model = DefaultModel
	}
	return &OpenAI{
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: requestTimeout},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Recognize sends the image and parses the structured reply.
func (o *OpenAI) Recognize(ctx context.Context, imageBase64 string) (*Recognition, error) {
	reqBody := chatRequest{
		Model: o.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &imageURL{
					URL: "data:image/jpeg;base64," + imageBase64,
				}},
			},
		}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call vision service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, fmt.Errorf("vision service returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read reply: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrMalformed)
	}

	return ParseRecognition(parsed.Choices[0].Message.Content)
}

// ParseRecognition pulls the JSON record out of a model reply. Models
// wrap the payload in code fences or lead-in prose often enough that the
// extraction has to be defensive: take everything between the first '{'
// and the last '}'.
func ParseRecognition(reply string) (*Recognition, error) {
	reply = strings.TrimSpace(reply)
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in reply", ErrMalformed)
	}

	var rec Recognition
	if err := json.Unmarshal([]byte(reply[start:end+1]), &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if strings.TrimSpace(rec.Name) == "" {
		return nil, fmt.Errorf("%w: missing name", ErrMalformed)
	}
	return &rec, nil
}
