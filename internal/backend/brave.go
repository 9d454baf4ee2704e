// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/webresearch/internal/httputil"
	"github.com/pdiddy/webresearch/pkg/types"
)

// braveAPIBase is the Brave Search API endpoint. Declared as a var so tests
// can substitute an httptest server.
var braveAPIBase = "https://api.search.brave.com/res/v1/web/search"

// Brave queries the Brave Search API. Requires an API key.
type Brave struct {
	Client    *http.Client
	APIKey    string
	UserAgent string
}

// Name returns the backend identifier.
func (b *Brave) Name() string { return "brave" }

// Search queries the Brave web search endpoint.
func (b *Brave) Search(ctx context.Context, query string, maxResults int) ([]types.SearchResult, error) {
	if b.APIKey == "" {
		return nil, fmt.Errorf("brave API key is missing")
	}

	params := url.Values{}
	params.Set("q", query)
	if maxResults > 0 {
		params.Set("count", fmt.Sprintf("%d", maxResults))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, braveAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.APIKey)
	req.Header.Set("User-Agent", b.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("brave API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("brave API returned HTTP %d", resp.StatusCode)
	}

	var payload struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parsing brave response: %w", err)
	}

	var results []types.SearchResult
	for _, r := range payload.Web.Results {
		results = append(results, types.SearchResult{
			Title:   r.Title,
			Snippet: r.Description,
			URL:     r.URL,
			Source:  "brave",
		})
		if maxResults > 0 && len(results) >= maxResults {
			break
		}
	}
	return results, nil
}
