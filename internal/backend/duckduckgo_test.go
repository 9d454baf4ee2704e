// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDuckDuckGoParsesLitePage(t *testing.T) {
	page := `<html><body><table>
		<tr><td><a rel="nofollow" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2Fdoc" class="result-link">Go Documentation</a></td></tr>
		<tr><td class="result-snippet">Official Go documentation and guides.</td></tr>
		<tr><td><a rel="nofollow" href="https://golang.org/pkg" class="result-link">Packages</a></td></tr>
		<tr><td class="result-snippet">Standard library reference.</td></tr>
	</table></body></html>`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(page))
	}))
	defer ts.Close()

	old := duckduckgoAPIBase
	duckduckgoAPIBase = ts.URL
	defer func() { duckduckgoAPIBase = old }()

	b := &DuckDuckGo{Client: ts.Client(), UserAgent: "test/0.1"}
	results, err := b.Search(context.Background(), "golang docs", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].URL != "https://go.dev/doc" {
		t.Errorf("redirect not unwrapped: %q", results[0].URL)
	}
	if results[0].Snippet != "Official Go documentation and guides." {
		t.Errorf("snippet = %q", results[0].Snippet)
	}
}
