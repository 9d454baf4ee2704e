package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network
// requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "webresearch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// BackendConfig holds settings for the search backends.
type BackendConfig struct {
	HTTPConfig `yaml:",inline"`

	// EnableDuckDuckGo controls whether the DuckDuckGo backend is used.
	EnableDuckDuckGo bool `json:"enable_duckduckgo" yaml:"enable_duckduckgo"`

	// EnableBrave controls whether the Brave Search backend is used.
	EnableBrave bool `json:"enable_brave" yaml:"enable_brave"`

	// BraveAPIKey authenticates against the Brave Search API.
	BraveAPIKey string `json:"brave_api_key,omitempty" yaml:"brave_api_key,omitempty"`

	// EnableTavily controls whether the Tavily backend is used.
	EnableTavily bool `json:"enable_tavily" yaml:"enable_tavily"`

	// TavilyAPIKey authenticates against the Tavily API.
	TavilyAPIKey string `json:"tavily_api_key,omitempty" yaml:"tavily_api_key,omitempty"`

	// EnableWikipedia controls whether the Wikipedia backend is used.
	EnableWikipedia bool `json:"enable_wikipedia" yaml:"enable_wikipedia"`
}

// DefaultResearchConfig returns the engine defaults for a research session.
// Callers override individual fields before passing the config to
// StartResearch; an explicit zero (e.g. MaxExtractions = 0) is respected.
func DefaultResearchConfig() ResearchConfig {
	return ResearchConfig{
		MaxSearches:         6,
		MaxResultsPerSearch: 10,
		MaxExtractions:      3,
		Timeout:             2 * time.Minute,
		ExtractContent:      true,
		FollowUpSearches:    true,
		RelevanceThreshold:  50,
		MinSearches:         2,
	}
}

// ResearchConfig holds caller-supplied tunables for one research session.
type ResearchConfig struct {
	// MaxSearches caps the number of queries a session may execute (default 6).
	MaxSearches int `json:"max_searches" yaml:"max_searches"`

	// MaxResultsPerSearch caps the results requested per query (default 10).
	MaxResultsPerSearch int `json:"max_results_per_search" yaml:"max_results_per_search"`

	// MaxExtractions caps the number of pages fetched for content (default 3).
	MaxExtractions int `json:"max_extractions" yaml:"max_extractions"`

	// Timeout is the overall wall-clock budget for the session. The engine
	// does not enforce it; polling callers use it as their deadline.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// ExtractContent enables the content extraction phase.
	ExtractContent bool `json:"extract_content" yaml:"extract_content"`

	// FollowUpSearches enables strategy follow-up queries.
	FollowUpSearches bool `json:"follow_up_searches" yaml:"follow_up_searches"`

	// RelevanceThreshold is the minimum score for a result to count as
	// relevant and to be eligible for extraction (default 50).
	RelevanceThreshold int `json:"relevance_threshold" yaml:"relevance_threshold"`

	// MinSearches is the number of queries executed before the early-exit
	// condition is evaluated (default 2).
	MinSearches int `json:"min_searches" yaml:"min_searches"`

	// PreferredBackend names a backend to try first for this session,
	// overriding the configured order.
	PreferredBackend string `json:"preferred_backend,omitempty" yaml:"preferred_backend,omitempty"`
}

// ArchiveConfig holds settings for the research context archive.
type ArchiveConfig struct {
	// Dir is the directory holding the archive database (default "archive").
	Dir string `json:"dir" yaml:"dir"`
}

// EngineConfig groups all component configurations.
type EngineConfig struct {
	Research ResearchConfig `json:"research" yaml:"research"`
	Backends BackendConfig  `json:"backends" yaml:"backends"`
	Extract  HTTPConfig     `json:"extract" yaml:"extract"`
	Archive  ArchiveConfig  `json:"archive" yaml:"archive"`
}
