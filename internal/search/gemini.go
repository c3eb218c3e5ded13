package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lumina-market/backend/internal/domain"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Model identifiers tried in order. If the primary errors or is rejected the
// secondary gets one attempt before the whole resolution fails.
var defaultModels = []string{"gemini-2.5-flash", "gemini-2.5-pro"}

// GeminiResolver resolves queries through the Gemini generateContent REST
// API. It owns its configuration; construct it once at startup and inject it
// into the search service.
type GeminiResolver struct {
	apiKey  string
	baseURL string
	models  []string
	httpc   *http.Client
	log     *slog.Logger
}

func NewGeminiResolver(apiKey string, log *slog.Logger) *GeminiResolver {
	return &GeminiResolver{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		models:  defaultModels,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

// catalogEntry is the compact product form embedded in the prompt. Stock and
// rating are deliberately left out: the model does not need them and the
// prompt should not leak inventory internals.
type catalogEntry struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
}

func (r *GeminiResolver) Resolve(ctx context.Context, query string, catalog []domain.Product) ([]primitive.ObjectID, error) {
	prompt, err := buildPrompt(query, catalog)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResolutionFailed, err)
	}

	body, err := r.generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResolutionFailed, err)
	}

	text, ok := extractText(body)
	if !ok {
		r.log.Warn("no text payload in gemini response")
		return nil, fmt.Errorf("%w: no text in response", ErrResolutionFailed)
	}

	rawIDs, err := parseProductIDs(text)
	if err != nil {
		r.log.Warn("unparseable gemini response", slog.String("text", truncate(text, 200)))
		return nil, fmt.Errorf("%w: %v", ErrResolutionFailed, err)
	}

	if len(rawIDs) == 0 {
		return nil, ErrNoMatch
	}

	// The model may hallucinate identifiers; drop anything that is not a
	// syntactically valid ObjectID rather than failing.
	ids := make([]primitive.ObjectID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		if id, err := primitive.ObjectIDFromHex(raw); err == nil {
			ids = append(ids, id)
		}
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no valid product ids", ErrResolutionFailed)
	}
	return ids, nil
}

func buildPrompt(query string, catalog []domain.Product) (string, error) {
	entries := make([]catalogEntry, len(catalog))
	for i, p := range catalog {
		entries[i] = catalogEntry{
			ID:          p.ID.Hex(),
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			Price:       p.Price,
		}
	}

	serialized, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize catalog: %w", err)
	}

	return fmt.Sprintf(`You are an intelligent shopping assistant for an e-commerce store.

User Query: %q

Here is our Product Catalog:
%s

Task:
Analyze the user's query and the product catalog.
Return a list of Product IDs that match the user's intent.
- If the user asks for "cheap" or "affordable" items, consider price.
- If the user describes a scenario (e.g., "wedding guest", "beach party"), infer the style and category.
- Match based on description, category, and use case.

Return ONLY a valid JSON object with this exact structure:
{
  "productIds": ["id1", "id2", "id3"]
}

Return the JSON object only, no other text.`, query, serialized), nil
}

// generate calls generateContent, trying each configured model in order and
// returning the first decoded response body.
func (r *GeminiResolver) generate(ctx context.Context, prompt string) (map[string]any, error) {
	payload, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	})
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, model := range r.models {
		body, err := r.call(ctx, model, payload)
		if err == nil {
			return body, nil
		}
		lastErr = err
		r.log.Warn("gemini model failed", slog.String("model", model), slog.Any("err", err))
	}
	return nil, lastErr
}

func (r *GeminiResolver) call(ctx context.Context, model string, payload []byte) (map[string]any, error) {
	url := fmt.Sprintf("%s/v1/models/%s:generateContent", r.baseURL, model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", r.apiKey)

	resp, err := r.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return body, nil
}

// extractText pulls the generated text out of the response body. Provider
// responses have shipped in several shapes over SDK versions, so each known
// shape is tried in order and the first hit wins.
func extractText(body map[string]any) (string, bool) {
	for _, extract := range textExtractors {
		if text, ok := extract(body); ok && text != "" {
			return text, true
		}
	}
	return "", false
}

var textExtractors = []func(map[string]any) (string, bool){
	// {"text": "..."}
	func(body map[string]any) (string, bool) {
		s, ok := body["text"].(string)
		return s, ok
	},
	// {"response": {"text": "..."}}
	func(body map[string]any) (string, bool) {
		resp, ok := body["response"].(map[string]any)
		if !ok {
			return "", false
		}
		s, ok := resp["text"].(string)
		return s, ok
	},
	// {"candidates": [{"content": {"parts": [{"text": "..."}]}}]}
	func(body map[string]any) (string, bool) {
		candidates, ok := body["candidates"].([]any)
		if !ok || len(candidates) == 0 {
			return "", false
		}
		candidate, ok := candidates[0].(map[string]any)
		if !ok {
			return "", false
		}
		content, ok := candidate["content"].(map[string]any)
		if !ok {
			return "", false
		}
		parts, ok := content["parts"].([]any)
		if !ok || len(parts) == 0 {
			return "", false
		}
		part, ok := parts[0].(map[string]any)
		if !ok {
			return "", false
		}
		s, ok := part["text"].(string)
		return s, ok
	},
}

// stripFences removes Markdown code-fence wrapping (```json ... ``` or
// plain ``` ... ```) that models like to put around JSON.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func parseProductIDs(text string) ([]string, error) {
	var parsed struct {
		ProductIDs []string `json:"productIds"`
	}
	if err := json.Unmarshal([]byte(stripFences(text)), &parsed); err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}
	return parsed.ProductIDs, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
