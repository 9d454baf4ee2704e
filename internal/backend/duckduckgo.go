// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/webresearch/internal/httputil"
	"github.com/pdiddy/webresearch/pkg/types"
)

// duckduckgoAPIBase is the DuckDuckGo lite endpoint. Declared as a var so
// tests can substitute an httptest server.
var duckduckgoAPIBase = "https://lite.duckduckgo.com/lite/"

// ddgGate enforces one query per second across all DuckDuckGo instances and
// goroutines; the lite endpoint bans faster scrapers.
var ddgGate struct {
	mu   sync.Mutex
	last time.Time
}

// DuckDuckGo scrapes the DuckDuckGo lite HTML interface. No API key needed.
type DuckDuckGo struct {
	Client    *http.Client
	UserAgent string
}

// Name returns the backend identifier.
func (d *DuckDuckGo) Name() string { return "duckduckgo" }

// Search posts the query to the lite endpoint and parses result rows.
func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) ([]types.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty duckduckgo query")
	}
	if err := ddgWait(ctx); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, duckduckgoAPIBase, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", d.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, d.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing duckduckgo response: %w", err)
	}

	var snippets []string
	doc.Find("td.result-snippet").Each(func(_ int, s *goquery.Selection) {
		snippets = append(snippets, strings.TrimSpace(s.Text()))
	})

	var results []types.SearchResult
	doc.Find("a.result-link").EachWithBreak(func(i int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		title := strings.TrimSpace(s.Text())
		if !ok || title == "" {
			return true
		}

		r := types.SearchResult{
			Title:  title,
			URL:    ddgResolveRedirect(href),
			Source: "duckduckgo",
		}
		if i < len(snippets) {
			r.Snippet = snippets[i]
		}
		results = append(results, r)
		return len(results) < maxResults
	})

	return results, nil
}

// ddgWait blocks until the global 1 QPS budget allows another query.
func ddgWait(ctx context.Context) error {
	ddgGate.mu.Lock()
	if wait := time.Until(ddgGate.last.Add(time.Second)); wait > 0 {
		ddgGate.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		ddgGate.mu.Lock()
	}
	ddgGate.last = time.Now()
	ddgGate.mu.Unlock()
	return nil
}

// ddgResolveRedirect unwraps the lite interface's redirect links
// ("//duckduckgo.com/l/?uddg=<encoded>") to the destination URL.
func ddgResolveRedirect(href string) string {
	if !strings.Contains(href, "uddg=") {
		return href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if dest := u.Query().Get("uddg"); dest != "" {
		return dest
	}
	return href
}
