// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pdiddy/webresearch/internal/httputil"
	"github.com/pdiddy/webresearch/pkg/types"
)

// tavilyAPIBase is the Tavily API endpoint. Declared as a var so tests can
// substitute an httptest server.
var tavilyAPIBase = "https://api.tavily.com/search"

// Tavily queries the Tavily search API. Requires an API key. Tavily scores
// its own results, so the engine's heuristic scorer is skipped for them.
type Tavily struct {
	Client *http.Client
	APIKey string
}

// Name returns the backend identifier.
func (t *Tavily) Name() string { return "tavily" }

// Search posts the query to the Tavily API.
func (t *Tavily) Search(ctx context.Context, query string, maxResults int) ([]types.SearchResult, error) {
	if t.APIKey == "" {
		return nil, fmt.Errorf("tavily API key is missing")
	}

	body, err := json.Marshal(map[string]any{
		"api_key":     t.APIKey,
		"query":       query,
		"max_results": maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding tavily request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilyAPIBase, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.DoWithRetry(ctx, t.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("tavily API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily API returned HTTP %d", resp.StatusCode)
	}

	var payload struct {
		Results []struct {
			Title   string  `json:"title"`
			URL     string  `json:"url"`
			Content string  `json:"content"`
			Score   float64 `json:"score"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parsing tavily response: %w", err)
	}

	var results []types.SearchResult
	for _, r := range payload.Results {
		score := int(r.Score * 100)
		if score > 100 {
			score = 100
		}
		if score < 0 {
			score = 0
		}
		results = append(results, types.SearchResult{
			Title:          r.Title,
			Snippet:        r.Content,
			URL:            r.URL,
			Source:         "tavily",
			RelevanceScore: score,
		})
		if maxResults > 0 && len(results) >= maxResults {
			break
		}
	}
	return results, nil
}
