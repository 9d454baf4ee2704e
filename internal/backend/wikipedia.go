// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/webresearch/internal/httputil"
	"github.com/pdiddy/webresearch/pkg/types"
)

// wikipediaAPIBase is the MediaWiki search endpoint. Declared as a var so
// tests can substitute an httptest server.
var wikipediaAPIBase = "https://en.wikipedia.org/w/api.php"

// searchmatchTag strips the highlight markup MediaWiki embeds in snippets.
var searchmatchTag = regexp.MustCompile(`</?[^>]+>`)

// Wikipedia queries the MediaWiki search API. No API key needed.
type Wikipedia struct {
	Client    *http.Client
	UserAgent string
}

// Name returns the backend identifier.
func (w *Wikipedia) Name() string { return "wikipedia" }

// Search queries the MediaWiki list=search endpoint.
func (w *Wikipedia) Search(ctx context.Context, query string, maxResults int) ([]types.SearchResult, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("format", "json")
	params.Set("srsearch", query)
	params.Set("srlimit", fmt.Sprintf("%d", maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wikipediaAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", w.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, w.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("wikipedia API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia API returned HTTP %d", resp.StatusCode)
	}

	var payload struct {
		Query struct {
			Search []struct {
				Title   string `json:"title"`
				Snippet string `json:"snippet"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parsing wikipedia response: %w", err)
	}

	var results []types.SearchResult
	for _, r := range payload.Query.Search {
		results = append(results, types.SearchResult{
			Title:   r.Title,
			Snippet: searchmatchTag.ReplaceAllString(r.Snippet, ""),
			URL:     "https://en.wikipedia.org/wiki/" + url.PathEscape(strings.ReplaceAll(r.Title, " ", "_")),
			Source:  "wikipedia",
		})
	}
	return results, nil
}
