// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"net/url"
	"sort"
	"strings"
)

// domainAuthority ranks hosts by how much extractable value their pages
// usually carry. Subdomains inherit the parent's weight.
var domainAuthority = map[string]int{
	"stackoverflow.com":      100,
	"github.com":             90,
	"wikipedia.org":          88,
	"developer.mozilla.org":  85,
	"learn.microsoft.com":    80,
	"docs.microsoft.com":     80,
	"askubuntu.com":          75,
	"superuser.com":          75,
	"serverfault.com":        75,
	"python.org":             70,
	"go.dev":                 70,
	"nodejs.org":             70,
	"medium.com":             40,
	"reddit.com":             35,
}

// goodPathHints mark paths that usually hold substantive content.
var goodPathHints = []string{"/wiki/", "/questions/", "/docs/", "/doc/", "/blog/", "/guide", "/tutorial", "/how-to"}

// badPathHints mark paths that rarely extract to anything useful.
var badPathHints = []string{"/login", "/signup", "/signin", "/register", "/search", "/tag/", "/cart"}

// PrioritizeURLs deduplicates the candidate list and reorders it by
// estimated extraction value: domain authority first, then path shape. The
// sort is stable, so equally-ranked URLs keep their incoming order. Pure
// function; the input slice is not modified.
func PrioritizeURLs(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	var deduped []string
	for _, u := range urls {
		key := normalizeURL(u)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, u)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return urlValue(deduped[i]) > urlValue(deduped[j])
	})
	return deduped
}

// PrioritizeURLs lets an Extractor satisfy interfaces that pair extraction
// with URL prioritization.
func (e *Extractor) PrioritizeURLs(urls []string) []string {
	return PrioritizeURLs(urls)
}

// urlValue estimates how much usable text an extraction of the URL yields.
func urlValue(rawURL string) int {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return -100
	}

	value := 0
	host := strings.ToLower(u.Hostname())
	for domain, weight := range domainAuthority {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			value += weight
			break
		}
	}

	path := strings.ToLower(u.Path)
	for _, hint := range goodPathHints {
		if strings.Contains(path, hint) {
			value += 10
			break
		}
	}
	for _, hint := range badPathHints {
		if strings.Contains(path, hint) {
			value -= 30
			break
		}
	}
	if strings.HasSuffix(path, ".pdf") || strings.HasSuffix(path, ".zip") {
		value -= 50
	}
	if u.RawQuery != "" {
		value -= 5
	}
	return value
}

// normalizeURL returns a dedup key: lowercased host plus path with any
// trailing slash removed, ignoring scheme, query, and fragment.
func normalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	path := strings.TrimSuffix(u.Path, "/")
	return strings.ToLower(u.Hostname()) + path
}
