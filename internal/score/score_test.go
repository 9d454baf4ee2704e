// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"strings"
	"testing"

	"github.com/pdiddy/webresearch/pkg/types"
)

func TestScoreBase(t *testing.T) {
	r := types.SearchResult{Title: "unrelated", Snippet: "nothing here", URL: "https://example.com/x"}
	if got := Score(r, "quantum chromodynamics"); got != baseScore {
		t.Errorf("Score = %d, want base %d", got, baseScore)
	}
}

func TestScoreTermBonuses(t *testing.T) {
	r := types.SearchResult{
		Title:   "Docker networking explained",
		Snippet: "A deep dive into docker networking",
		URL:     "https://example.com/docker-networking",
	}
	// "docker" and "networking" each hit title (+15), snippet (+10), URL (+5).
	want := baseScore + 2*(titleBonus+snippetBonus+urlBonus)
	if got := Score(r, "docker networking"); got != want {
		t.Errorf("Score = %d, want %d", got, want)
	}
}

func TestScoreShortTermsSkipped(t *testing.T) {
	r := types.SearchResult{Title: "go to the store", URL: "https://example.com"}
	if got := Score(r, "go to"); got != baseScore {
		t.Errorf("Score = %d, want %d (terms of length <= 2 skipped)", got, baseScore)
	}
}

func TestScoreTechnicalVocabularyOnce(t *testing.T) {
	r := types.SearchResult{
		Title:   "API error handling",
		Snippet: "server config documentation",
		URL:     "https://example.com",
	}
	if got := Score(r, "zzz"); got != baseScore+vocabBonus {
		t.Errorf("Score = %d, want %d (vocabulary bonus applied once)", got, baseScore+vocabBonus)
	}
}

func TestScoreAuthoritativeDomain(t *testing.T) {
	r := types.SearchResult{Title: "x", URL: "https://stackoverflow.com/questions/123"}
	if got := Score(r, "zzz"); got != baseScore+domainBonus {
		t.Errorf("Score = %d, want %d", got, baseScore+domainBonus)
	}
}

func TestScoreClamped(t *testing.T) {
	terms := "docker networking bridge overlay container"
	r := types.SearchResult{
		Title:   terms + " error tutorial",
		Snippet: terms,
		URL:     "https://github.com/docker/networking-bridge-overlay-container",
	}
	if got := Score(r, terms); got != maxScore {
		t.Errorf("Score = %d, want clamped %d", got, maxScore)
	}
}

func TestScoreBounds(t *testing.T) {
	queries := []string{"", "a", strings.Repeat("term ", 50)}
	results := []types.SearchResult{
		{},
		{Title: "t", Snippet: "s", URL: "://bad"},
		{Title: strings.Repeat("term ", 50), Snippet: strings.Repeat("term ", 50), URL: "https://stackoverflow.com/term"},
	}
	for _, q := range queries {
		for _, r := range results {
			got := Score(r, q)
			if got < 0 || got > 100 {
				t.Errorf("Score(%q) = %d, outside [0,100]", q, got)
			}
		}
	}
}

func TestIsAuthoritative(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://stackoverflow.com/questions/1", true},
		{"https://es.wikipedia.org/wiki/Ada_Lovelace", true},
		{"https://github.com/golang/go", true},
		{"https://evilstackoverflow.com/x", false},
		{"https://example.com", false},
		{"not a url", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsAuthoritative(tt.url); got != tt.want {
			t.Errorf("IsAuthoritative(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestFillOnlyUnscored(t *testing.T) {
	results := []types.SearchResult{
		{Title: "docker", URL: "https://example.com", RelevanceScore: 77},
		{Title: "docker", URL: "https://example.com"},
	}
	Fill(results, "docker")
	if results[0].RelevanceScore != 77 {
		t.Errorf("backend-scored result overwritten: %d", results[0].RelevanceScore)
	}
	if results[1].RelevanceScore == 0 {
		t.Error("unscored result not filled")
	}
}
