// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score assigns a 0-100 relevance score to search results that the
// originating backend did not score itself.
package score

import (
	"net/url"
	"strings"

	"github.com/pdiddy/webresearch/pkg/types"
)

const (
	baseScore    = 30
	titleBonus   = 15
	snippetBonus = 10
	urlBonus     = 5
	vocabBonus   = 8
	domainBonus  = 20
	maxScore     = 100
)

// technicalVocabulary earns a single flat bonus when any term appears in the
// title or snippet.
var technicalVocabulary = []string{
	"api", "error", "install", "config", "server", "database", "function",
	"library", "framework", "tutorial", "documentation", "debug", "command",
	"terminal", "version", "update", "plugin", "module",
}

// authoritativeDomains earns a single flat bonus when the result URL's host
// matches, including subdomains.
var authoritativeDomains = []string{
	"stackoverflow.com",
	"github.com",
	"developer.mozilla.org",
	"wikipedia.org",
	"learn.microsoft.com",
	"docs.microsoft.com",
	"askubuntu.com",
	"superuser.com",
	"serverfault.com",
	"python.org",
	"go.dev",
	"nodejs.org",
	"kernel.org",
}

// Score rates one result against the query: base 30, +15 per query term
// found in the title, +10 in the snippet, +5 in the URL (terms shorter than
// three characters are skipped), +8 once for technical vocabulary, +20 once
// for an authoritative domain. Clamped to [0, 100].
func Score(result types.SearchResult, query string) int {
	title := strings.ToLower(result.Title)
	snippet := strings.ToLower(result.Snippet)
	lowerURL := strings.ToLower(result.URL)

	s := baseScore
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if len(term) <= 2 {
			continue
		}
		if strings.Contains(title, term) {
			s += titleBonus
		}
		if strings.Contains(snippet, term) {
			s += snippetBonus
		}
		if strings.Contains(lowerURL, term) {
			s += urlBonus
		}
	}

	for _, term := range technicalVocabulary {
		if strings.Contains(title, term) || strings.Contains(snippet, term) {
			s += vocabBonus
			break
		}
	}

	if IsAuthoritative(result.URL) {
		s += domainBonus
	}

	if s > maxScore {
		s = maxScore
	}
	return s
}

// IsAuthoritative reports whether the URL's host is on the authoritative
// domain allowlist, directly or as a subdomain.
func IsAuthoritative(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, domain := range authoritativeDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// Fill scores every result in place that the backend left unscored.
func Fill(results []types.SearchResult, query string) {
	for i := range results {
		if results[i].RelevanceScore == 0 {
			results[i].RelevanceScore = Score(results[i], query)
		}
	}
}
