// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the web research engine.
package types

import "time"

// SessionStatus names a phase of the research session state machine.
// Transitions are monotonic: a session moves forward through the phases and
// never re-enters an earlier one.
type SessionStatus string

const (
	StatusInitializing SessionStatus = "initializing"
	StatusCleaning     SessionStatus = "cleaning"
	StatusSearching    SessionStatus = "searching"
	StatusExtracting   SessionStatus = "extracting"
	StatusAnalyzing    SessionStatus = "analyzing"
	StatusCompleted    SessionStatus = "completed"
	StatusInsufficient SessionStatus = "insufficient_results"
	StatusFailed       SessionStatus = "failed"
)

// Terminal reports whether the status is a final state.
func (s SessionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusInsufficient || s == StatusFailed
}

// QueryCategory classifies an executed search query.
type QueryCategory string

const (
	CategoryGeneral       QueryCategory = "general"
	CategoryTechnical     QueryCategory = "technical"
	CategoryDocumentation QueryCategory = "documentation"
	CategoryForum         QueryCategory = "forum"
	CategoryPlatform      QueryCategory = "platform-specific"
	CategoryPersonProfile QueryCategory = "person-profile"
)

// SearchResult is one candidate hit returned by a search backend.
type SearchResult struct {
	// Title is the result title as returned by the backend.
	Title string `json:"title" yaml:"title"`

	// Snippet is the short description or excerpt shown with the result.
	Snippet string `json:"snippet" yaml:"snippet"`

	// URL is the result link.
	URL string `json:"url" yaml:"url"`

	// Source identifies which backend found this result (e.g. "duckduckgo", "brave").
	Source string `json:"source" yaml:"source"`

	// RelevanceScore is a value between 0 and 100. Zero means the backend did
	// not score the result; the engine fills it in from its own heuristic.
	RelevanceScore int `json:"relevance_score" yaml:"relevance_score"`
}

// SearchQuery records one executed search. Immutable after creation.
type SearchQuery struct {
	ID          string         `json:"id" yaml:"id"`
	Text        string         `json:"text" yaml:"text"`
	Category    QueryCategory  `json:"category" yaml:"category"`
	Timestamp   time.Time      `json:"timestamp" yaml:"timestamp"`
	Results     []SearchResult `json:"results" yaml:"results"`
	ResultCount int            `json:"result_count" yaml:"result_count"`

	// Strategy names the SearchStrategy that produced this query.
	Strategy string `json:"strategy" yaml:"strategy"`

	// ExtractContent carries the producing strategy's extraction flag;
	// only results of flagged queries are extraction candidates.
	ExtractContent bool `json:"extract_content" yaml:"extract_content"`
}

// SearchStrategy is a named plan: a group of related query templates pursuing
// one angle on the topic. Strategies are generated fresh per session and are
// never shared or mutated.
type SearchStrategy struct {
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	Category    QueryCategory `json:"category" yaml:"category"`

	// Queries holds the primary query texts, in execution order.
	Queries []string `json:"queries" yaml:"queries"`

	// FollowUps holds optional follow-up query texts, executed after the
	// primaries when follow-up searches are enabled.
	FollowUps []string `json:"follow_ups,omitempty" yaml:"follow_ups,omitempty"`

	// MaxResults caps the number of results requested per query.
	MaxResults int `json:"max_results" yaml:"max_results"`

	// ExtractContent marks results of this strategy as extraction candidates.
	ExtractContent bool `json:"extract_content" yaml:"extract_content"`
}

// ExtractedContent is one fetched page. Immutable once produced.
type ExtractedContent struct {
	URL       string `json:"url" yaml:"url"`
	Title     string `json:"title" yaml:"title"`
	Content   string `json:"content" yaml:"content"`
	WordCount int    `json:"word_count" yaml:"word_count"`
	Success   bool   `json:"success" yaml:"success"`
}

// ResearchSession is the unit of work: one research request's full lifecycle
// and accumulated state. Sessions live in memory only and are mutated only by
// the engine goroutine that owns them; callers see snapshots.
type ResearchSession struct {
	ID            string    `json:"id" yaml:"id"`
	OriginalQuery string    `json:"original_query" yaml:"original_query"`
	CurrentQuery  string    `json:"current_query" yaml:"current_query"`
	StartTime     time.Time `json:"start_time" yaml:"start_time"`

	// EndTime is zero until the session reaches a terminal status.
	EndTime time.Time `json:"end_time,omitzero" yaml:"end_time,omitempty"`

	Status SessionStatus `json:"status" yaml:"status"`

	Searches         []SearchQuery      `json:"searches" yaml:"searches"`
	ExtractedContent []ExtractedContent `json:"extracted_content" yaml:"extracted_content"`

	// TotalResults is the sum of ResultCount over Searches.
	TotalResults int `json:"total_results" yaml:"total_results"`

	// RelevantResults counts results at or above the relevance threshold.
	// Recomputed from Searches, never incremented ad hoc.
	RelevantResults int `json:"relevant_results" yaml:"relevant_results"`

	// Summary is the human-readable session summary built during analysis.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// ResearchContext is the synthesized output of a session: a single merged
// text blob with sources and a confidence score. Derived on demand from the
// session's current state and never mutated, so it is safe to request from a
// still-running session.
type ResearchContext struct {
	SessionID string `json:"session_id" yaml:"session_id"`
	Query     string `json:"query" yaml:"query"`

	// Content combines prioritized extracted page text and top result snippets.
	Content string `json:"content" yaml:"content"`

	// Sources lists the deduplicated source URLs in priority order.
	Sources []string `json:"sources" yaml:"sources"`

	// Confidence is a 0-100 heuristic summarizing how well-supported the
	// context is.
	Confidence int `json:"confidence" yaml:"confidence"`

	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}
