// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package strategy classifies a research query and plans an ordered list of
// search strategies for it: technical-error strategies from a signature
// table, a general strategy with shape-dependent follow-ups, and conditional
// platform, documentation, community, and person-profile strategies.
package strategy

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/webresearch/pkg/types"
)

// technicalKeywords mark a query as technical when any appears as a token.
var technicalKeywords = []string{
	"error", "fix", "install", "crash", "troubleshoot", "fail", "failed",
	"fails", "bug", "exception", "command", "server", "config", "configure",
	"compile", "build", "debug", "npm", "pip", "apt",
}

var windowsKeywords = []string{
	"windows", "win10", "win11", "powershell", "cmd.exe", "registry", "wsl",
}

var linuxKeywords = []string{
	"linux", "ubuntu", "debian", "fedora", "arch", "bash", "systemd", "apt",
	"yum", "kernel",
}

// personName matches 2-5 capitalized words with no digits or punctuation,
// e.g. "Ada Lovelace".
var personName = regexp.MustCompile(`^(?:\p{Lu}[\p{Ll}'.-]+\s+){1,4}\p{Lu}[\p{Ll}'.-]+$`)

// Generate plans the ordered strategy list for an enhanced query, highest
// value first: error strategies, then general, then platform, documentation,
// community, and person-profile strategies as the query shape warrants. The
// orchestrator truncates the plan to its search budget; Generate itself does
// not limit the list. At minimum the general strategy is always present.
func Generate(query string) []types.SearchStrategy {
	var strategies []types.SearchStrategy

	for _, sig := range matchErrorSignatures(query) {
		strategies = append(strategies, types.SearchStrategy{
			Name:           "error_" + sig.class,
			Description:    fmt.Sprintf("Targeted searches for %s errors", strings.ReplaceAll(sig.class, "_", " ")),
			Category:       types.CategoryTechnical,
			Queries:        expandTemplates(sig.templates, query),
			MaxResults:     8,
			ExtractContent: true,
		})
	}

	person := LooksLikePersonName(query)
	technical := LooksTechnical(query)
	windows := containsKeyword(query, windowsKeywords)
	linux := containsKeyword(query, linuxKeywords)

	strategies = append(strategies, generalStrategy(query, person, technical))

	if windows {
		strategies = append(strategies, types.SearchStrategy{
			Name:        "windows",
			Description: "Windows-specific phrasings",
			Category:    types.CategoryPlatform,
			Queries:     []string{query + " windows"},
			FollowUps: []string{
				query + " windows 11 solution",
				query + " powershell",
			},
			MaxResults:     8,
			ExtractContent: true,
		})
	}
	if linux {
		strategies = append(strategies, types.SearchStrategy{
			Name:        "linux",
			Description: "Linux-specific phrasings",
			Category:    types.CategoryPlatform,
			Queries:     []string{query + " linux"},
			FollowUps: []string{
				query + " ubuntu solution",
				query + " terminal command",
			},
			MaxResults:     8,
			ExtractContent: true,
		})
	}

	if technical {
		strategies = append(strategies,
			types.SearchStrategy{
				Name:        "documentation",
				Description: "Official documentation and reference material",
				Category:    types.CategoryDocumentation,
				Queries:     []string{query + " documentation"},
				FollowUps: []string{
					query + " official docs",
					query + " manual reference",
				},
				MaxResults:     6,
				ExtractContent: true,
			},
			types.SearchStrategy{
				Name:        "community",
				Description: "Forum and Q&A discussions",
				Category:    types.CategoryForum,
				Queries:     []string{query + " stack overflow"},
				FollowUps: []string{
					query + " reddit",
					query + " forum discussion",
				},
				MaxResults: 6,
			},
		)
	}

	if person {
		strategies = append(strategies, types.SearchStrategy{
			Name:        "people_profile",
			Description: "Professional profile and biography sources",
			Category:    types.CategoryPersonProfile,
			Queries:     []string{query + " profile"},
			FollowUps: []string{
				query + " linkedin",
				query + " career achievements",
			},
			MaxResults:     6,
			ExtractContent: true,
		})
	}

	return strategies
}

// generalStrategy is always emitted. Follow-ups depend on the query shape.
func generalStrategy(query string, person, technical bool) types.SearchStrategy {
	s := types.SearchStrategy{
		Name:           "general",
		Description:    "Direct search for the query as given",
		Category:       types.CategoryGeneral,
		Queries:        []string{query},
		MaxResults:     10,
		ExtractContent: true,
	}

	switch {
	case person:
		s.FollowUps = []string{
			query + " biography",
			query + " notable work",
		}
	case technical:
		s.FollowUps = []string{
			query + " solution",
			"how to fix " + query,
		}
	default:
		s.FollowUps = []string{
			query + " overview",
			query + " explained",
			query + " guide",
		}
	}
	return s
}

// LooksLikePersonName reports whether the query has the shape of a person's
// name: two to five capitalized words and nothing else.
func LooksLikePersonName(query string) bool {
	query = strings.TrimSpace(query)
	if !personName.MatchString(query) {
		return false
	}
	for _, r := range query {
		if unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// LooksTechnical reports whether the query reads like a technical question:
// a known keyword, an OS name, or an error-signature match.
func LooksTechnical(query string) bool {
	if containsKeyword(query, technicalKeywords) ||
		containsKeyword(query, windowsKeywords) ||
		containsKeyword(query, linuxKeywords) {
		return true
	}
	return len(matchErrorSignatures(query)) > 0
}

// containsKeyword does token-level case-insensitive matching so that e.g.
// "architecture" does not count as "arch".
func containsKeyword(query string, keywords []string) bool {
	tokens := strings.Fields(strings.ToLower(query))
	for _, tok := range tokens {
		tok = strings.Trim(tok, ".,;:!?\"'()")
		for _, kw := range keywords {
			if tok == kw {
				return true
			}
		}
	}
	return false
}

// expandTemplates substitutes the query into each %s template.
func expandTemplates(templates []string, query string) []string {
	out := make([]string, 0, len(templates))
	for _, t := range templates {
		out = append(out, fmt.Sprintf(t, query))
	}
	return out
}
