// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/webresearch/pkg/types"
)

const (
	// minContentWords filters out near-empty extractions during synthesis.
	minContentWords = 100

	// contentCharBudget truncates each extracted page's contribution.
	contentCharBudget = 2000

	// maxSnippetResults caps how many raw results feed the context.
	maxSnippetResults = 15

	// confidenceDenominator: relevant results needed for full confidence.
	confidenceDenominator = 6
)

// GenerateResearchContext synthesizes the research context for a session
// from its current state. It is a pure read and can be called repeatedly,
// on running sessions (partial results) as well as terminal ones. Returns
// nil for unknown sessions, and for sessions that have produced no results
// and are still running.
func (e *Engine) GenerateResearchContext(sessionID string) *types.ResearchContext {
	s, ok := e.sessions.Get(sessionID)
	if !ok {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data.TotalResults == 0 && !s.data.Status.Terminal() {
		return nil
	}

	var parts []string
	var sources []string
	seen := make(map[string]bool)

	addSource := func(rawURL string) {
		key := sourceKey(rawURL)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		sources = append(sources, rawURL)
	}

	// Extracted content first: it is the richest evidence.
	for _, c := range s.data.ExtractedContent {
		if !c.Success || c.WordCount <= minContentWords {
			continue
		}
		text := c.Content
		if len(text) > contentCharBudget {
			text = text[:contentCharBudget]
		}
		parts = append(parts, fmt.Sprintf("Source: %s\n%s", c.URL, text))
		addSource(c.URL)
	}

	// Then the top-scoring raw results.
	for _, r := range topResults(s.data.Searches, s.cfg.RelevanceThreshold) {
		parts = append(parts, fmt.Sprintf("%s: %s (%s)", r.Title, r.Snippet, r.URL))
		addSource(r.URL)
	}

	return &types.ResearchContext{
		SessionID:  s.data.ID,
		Query:      s.data.CurrentQuery,
		Content:    strings.Join(parts, "\n\n"),
		Sources:    sources,
		Confidence: confidence(s.data.RelevantResults),
		UpdatedAt:  time.Now(),
	}
}

// GetMostRecentContext returns the context of the most recently terminated
// session, or nil when no session has terminated yet.
func (e *Engine) GetMostRecentContext() *types.ResearchContext {
	var (
		bestID  string
		bestEnd time.Time
	)
	for _, s := range e.sessions.Values() {
		s.mu.RLock()
		if s.data.Status.Terminal() && s.data.EndTime.After(bestEnd) {
			bestID = s.data.ID
			bestEnd = s.data.EndTime
		}
		s.mu.RUnlock()
	}
	if bestID == "" {
		return nil
	}
	return e.GenerateResearchContext(bestID)
}

// topResults collects results at or above the threshold across all
// searches, best first, capped at maxSnippetResults.
func topResults(searches []types.SearchQuery, threshold int) []types.SearchResult {
	var all []types.SearchResult
	for _, q := range searches {
		for _, r := range q.Results {
			if r.RelevanceScore >= threshold {
				all = append(all, r)
			}
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].RelevanceScore > all[j].RelevanceScore
	})
	if len(all) > maxSnippetResults {
		all = all[:maxSnippetResults]
	}
	return all
}

// confidence maps the relevant-result count onto [20, 100].
func confidence(relevant int) int {
	c := relevant * 100 / confidenceDenominator
	if c < 20 {
		c = 20
	}
	if c > 100 {
		c = 100
	}
	return c
}

// sourceKey normalizes a URL for source deduplication.
func sourceKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return strings.ToLower(rawURL)
	}
	return strings.ToLower(u.Hostname()) + strings.TrimSuffix(u.Path, "/")
}
