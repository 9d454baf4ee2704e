// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract fetches web pages and reduces them to plain text for
// context synthesis. Extraction never returns an error: failures are
// represented by ExtractedContent with Success set to false, so a bad URL
// can only cost the session one candidate page.
package extract

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/pdiddy/webresearch/internal/httputil"
	"github.com/pdiddy/webresearch/pkg/types"
)

// maxBodyBytes caps how much of a response body is read before parsing.
const maxBodyBytes = 512 * 1024

// maxContentBytes caps the plain text kept per page.
const maxContentBytes = 64 * 1024

// Extractor fetches and parses pages into plain text.
type Extractor struct {
	client    *http.Client
	userAgent string
}

// New builds an Extractor from HTTP settings, applying the package defaults
// for missing values.
func New(cfg types.HTTPConfig) *Extractor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "webresearch/0.1"
	}
	return &Extractor{
		client:    &http.Client{Timeout: timeout},
		userAgent: ua,
	}
}

// Extract fetches pageURL and returns its title, plain text, and word count.
// On any failure the returned content has Success false and empty text.
func (e *Extractor) Extract(ctx context.Context, pageURL string) types.ExtractedContent {
	failed := types.ExtractedContent{URL: pageURL}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return failed
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := httputil.DoWithRetry(ctx, e.client, req, 2)
	if err != nil {
		return failed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return failed
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") && !strings.Contains(ct, "text/plain") {
		return failed
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return failed
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return failed
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	content := pageText(doc)
	if content == "" {
		return failed
	}
	if len(content) > maxContentBytes {
		content = content[:maxContentBytes]
	}

	return types.ExtractedContent{
		URL:       pageURL,
		Title:     title,
		Content:   content,
		WordCount: len(strings.Fields(content)),
		Success:   true,
	}
}

// pageText strips boilerplate and returns the page's visible text, preferring
// the main content container when one exists.
func pageText(doc *goquery.Document) string {
	doc.Find("script, style, noscript, iframe, nav, header, footer, aside, form").Remove()
	doc.Find("[class*=cookie], [class*=banner], [id*=cookie]").Remove()

	for _, sel := range []string{"article", "main", "#content", ".content"} {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if text := collapse(node.Text()); len(text) > 200 {
				return text
			}
		}
	}
	return collapse(doc.Find("body").Text())
}

// collapse normalizes runs of whitespace to single spaces while keeping
// paragraph breaks.
func collapse(s string) string {
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(line)
	}
	return b.String()
}
