// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research orchestrates autonomous research sessions: query
// enhancement, strategy planning, multi-backend searching with early exit,
// content extraction, and context synthesis. Each session runs on its own
// goroutine; callers poll progress or subscribe to the session's event
// stream.
package research

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/pdiddy/webresearch/internal/backend"
	"github.com/pdiddy/webresearch/internal/enhance"
	"github.com/pdiddy/webresearch/internal/score"
	"github.com/pdiddy/webresearch/internal/strategy"
	"github.com/pdiddy/webresearch/pkg/types"
)

// Early-exit thresholds for the searching phase. The session stops issuing
// queries once any clause is satisfied (after MinSearches queries).
const (
	earlyExitRelevant       = 3
	earlyExitTotal          = 10
	earlyExitExtractions    = 3
	earlyExitStrongRelevant = 6
)

// Session table bounds. Terminated sessions stay queryable until evicted.
const (
	defaultMaxSessions = 256
	defaultSessionTTL  = time.Hour
)

// Extractor fetches one page as plain text and prioritizes candidate URLs.
type Extractor interface {
	Extract(ctx context.Context, url string) types.ExtractedContent
	PrioritizeURLs(urls []string) []string
}

// session pairs the shared snapshot with the synchronization the engine
// needs. The running goroutine is the only writer of data; everything else
// takes read locks for snapshots.
type session struct {
	mu         sync.RWMutex
	data       types.ResearchSession
	cfg        types.ResearchConfig
	cancel     context.CancelFunc
	subs       []chan Event
	subsClosed bool
}

// Engine owns the session table and drives research sessions.
type Engine struct {
	multi     *backend.Multi
	extractor Extractor
	logger    *zap.Logger
	sessions  *expirable.LRU[string, *session]
}

// Options configures an Engine.
type Options struct {
	// Backends are consulted in order with fallback.
	Backends []backend.Backend

	// Extractor handles the content extraction phase. When nil, extraction
	// is skipped regardless of session config.
	Extractor Extractor

	// Logger defaults to a no-op logger.
	Logger *zap.Logger

	// MaxSessions bounds the in-memory session table (default 256).
	MaxSessions int

	// SessionTTL evicts idle sessions after this age (default 1h).
	SessionTTL time.Duration
}

// New builds an Engine.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxSessions := opts.MaxSessions
	if maxSessions <= 0 {
		maxSessions = defaultMaxSessions
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}

	return &Engine{
		multi:     backend.NewMulti(opts.Backends, logger),
		extractor: opts.Extractor,
		logger:    logger,
		sessions:  expirable.NewLRU[string, *session](maxSessions, nil, ttl),
	}
}

// StartResearch begins a session and returns its initial snapshot
// immediately; the pipeline continues on its own goroutine. The config is
// fixed for the session's lifetime; zero values fall back to defaults,
// except MaxExtractions where an explicit zero disables extraction.
func (e *Engine) StartResearch(query string, cfg types.ResearchConfig) *types.ResearchSession {
	cfg = normalizeConfig(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		data: types.ResearchSession{
			ID:            uuid.NewString(),
			OriginalQuery: query,
			CurrentQuery:  query,
			StartTime:     time.Now(),
			Status:        types.StatusInitializing,
		},
		cfg:    cfg,
		cancel: cancel,
	}
	e.sessions.Add(s.data.ID, s)

	e.logger.Info("research session started",
		zap.String("session_id", s.data.ID),
		zap.String("query", query))

	snapshot := s.snapshot()
	go e.run(ctx, s)
	return &snapshot
}

// StopResearch cancels a session. Safe to call at any time; it has no
// effect on sessions that already reached a terminal state.
func (e *Engine) StopResearch(sessionID string) {
	s, ok := e.sessions.Get(sessionID)
	if !ok {
		return
	}
	s.cancel()
	e.fail(s, "stopped by caller")
}

// GetSession returns a snapshot of the session, or nil if unknown.
func (e *Engine) GetSession(sessionID string) *types.ResearchSession {
	s, ok := e.sessions.Get(sessionID)
	if !ok {
		return nil
	}
	snap := s.snapshot()
	return &snap
}

// GetAllSessions returns snapshots of every session still in the table.
func (e *Engine) GetAllSessions() []types.ResearchSession {
	var out []types.ResearchSession
	for _, s := range e.sessions.Values() {
		out = append(out, s.snapshot())
	}
	return out
}

// run drives the session pipeline. Any panic in the pipeline resolves the
// session to failed; nothing is re-thrown since StartResearch has returned.
func (e *Engine) run(ctx context.Context, s *session) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("research pipeline panicked",
				zap.String("session_id", s.data.ID),
				zap.Any("panic", r))
			e.fail(s, fmt.Sprintf("internal error: %v", r))
		}
	}()

	// Cleaning: enhancement failure can only yield the original query, so
	// this phase cannot fail the session.
	if !e.transition(s, types.StatusCleaning) {
		return
	}
	cleaned := enhance.Enhance(s.originalQuery())
	s.setCurrentQuery(cleaned)

	strategies := strategy.Generate(cleaned)
	e.logger.Debug("strategies planned",
		zap.String("session_id", s.data.ID),
		zap.Int("count", len(strategies)))

	if !e.transition(s, types.StatusSearching) {
		return
	}
	e.searchPhase(ctx, s, strategies)
	if ctx.Err() != nil {
		e.fail(s, "cancelled")
		return
	}

	if s.cfg.ExtractContent && s.totalResults() > 0 && e.extractor != nil {
		if !e.transition(s, types.StatusExtracting) {
			return
		}
		e.extractPhase(ctx, s)
		if ctx.Err() != nil {
			e.fail(s, "cancelled")
			return
		}
	}

	if !e.transition(s, types.StatusAnalyzing) {
		return
	}
	e.analyzePhase(s)

	e.finish(s)
}

// searchPhase executes strategy templates in priority order, up to the
// MaxSearches budget, re-evaluating the early-exit condition after each
// query once MinSearches queries have run.
func (e *Engine) searchPhase(ctx context.Context, s *session, strategies []types.SearchStrategy) {
	executed := 0
	for _, strat := range strategies {
		templates := append([]string{}, strat.Queries...)
		if s.cfg.FollowUpSearches {
			templates = append(templates, strat.FollowUps...)
		}

		for _, text := range templates {
			if executed >= s.cfg.MaxSearches || ctx.Err() != nil {
				return
			}

			maxResults := strat.MaxResults
			if maxResults <= 0 || maxResults > s.cfg.MaxResultsPerSearch {
				maxResults = s.cfg.MaxResultsPerSearch
			}

			results, err := e.multi.Search(ctx, text, maxResults, s.cfg.PreferredBackend)
			if err != nil {
				// All backends down for this query: contributes zero results.
				e.logger.Warn("query yielded no results",
					zap.String("session_id", s.data.ID),
					zap.String("query", text),
					zap.Error(err))
				results = nil
			}
			score.Fill(results, s.currentQuery())

			s.appendSearch(types.SearchQuery{
				ID:             uuid.NewString(),
				Text:           text,
				Category:       strat.Category,
				Timestamp:      time.Now(),
				Results:        results,
				ResultCount:    len(results),
				Strategy:       strat.Name,
				ExtractContent: strat.ExtractContent,
			})
			executed++
			s.publish(Event{Type: EventProgress, SessionID: s.data.ID, Progress: e.GetProgress(s.data.ID)})

			if executed >= s.cfg.MinSearches && s.shouldStopSearching() {
				e.logger.Debug("early exit from searching",
					zap.String("session_id", s.data.ID),
					zap.Int("searches", executed))
				return
			}
		}
	}
}

// extractPhase fetches the highest-value relevant URLs with bounded
// concurrency. Individual failures are dropped silently.
func (e *Engine) extractPhase(ctx context.Context, s *session) {
	urls := e.extractor.PrioritizeURLs(s.relevantURLs())
	if len(urls) > s.cfg.MaxExtractions {
		urls = urls[:s.cfg.MaxExtractions]
	}
	if len(urls) == 0 {
		return
	}

	sem := semaphore.NewWeighted(int64(s.cfg.MaxExtractions))
	var wg sync.WaitGroup
	for _, u := range urls {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(pageURL string) {
			defer wg.Done()
			defer sem.Release(1)
			content := e.extractor.Extract(ctx, pageURL)
			if !content.Success {
				e.logger.Debug("extraction failed",
					zap.String("session_id", s.data.ID),
					zap.String("url", pageURL))
				return
			}
			s.appendContent(content)
		}(u)
	}
	wg.Wait()
}

// analyzePhase recomputes the relevant-result count and writes the session
// summary.
func (e *Engine) analyzePhase(s *session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.RelevantResults = relevantCount(s.data.Searches, s.cfg.RelevanceThreshold)

	extracted := 0
	for _, c := range s.data.ExtractedContent {
		if c.Success {
			extracted++
		}
	}
	s.data.Summary = fmt.Sprintf(
		"Research for %q: %d searches, %d results (%d relevant), %d pages extracted.",
		s.data.CurrentQuery, len(s.data.Searches), s.data.TotalResults,
		s.data.RelevantResults, extracted)
}

// finish resolves the terminal state and emits the done event.
func (e *Engine) finish(s *session) {
	s.mu.Lock()
	if s.data.Status.Terminal() {
		s.mu.Unlock()
		return
	}
	if s.data.RelevantResults > 0 {
		s.data.Status = types.StatusCompleted
	} else {
		s.data.Status = types.StatusInsufficient
	}
	s.data.EndTime = time.Now()
	status := s.data.Status
	s.mu.Unlock()

	e.logger.Info("research session finished",
		zap.String("session_id", s.data.ID),
		zap.String("status", string(status)))

	s.publish(Event{
		Type:      EventDone,
		SessionID: s.data.ID,
		Context:   e.GenerateResearchContext(s.data.ID),
		Success:   status == types.StatusCompleted,
	})
	s.closeSubs()
}

// fail resolves the session to failed. No-op on terminal sessions.
func (e *Engine) fail(s *session, msg string) {
	s.mu.Lock()
	if s.data.Status.Terminal() {
		s.mu.Unlock()
		return
	}
	s.data.Status = types.StatusFailed
	s.data.EndTime = time.Now()
	s.mu.Unlock()

	e.logger.Warn("research session failed",
		zap.String("session_id", s.data.ID),
		zap.String("reason", msg))

	s.publish(Event{Type: EventError, SessionID: s.data.ID, Message: msg})
	s.closeSubs()
}

// transition advances the state machine. Returns false when the session has
// already reached a terminal state (e.g. stopped by the caller), in which
// case the pipeline must abandon its work.
func (e *Engine) transition(s *session, next types.SessionStatus) bool {
	s.mu.Lock()
	if s.data.Status.Terminal() {
		s.mu.Unlock()
		return false
	}
	s.data.Status = next
	s.mu.Unlock()

	s.publish(Event{Type: EventProgress, SessionID: s.data.ID, Progress: e.GetProgress(s.data.ID)})
	return true
}

// --- session accessors ---

// snapshot copies the session data, including slice headers' contents, so
// callers can hold it without racing the pipeline goroutine.
func (s *session) snapshot() types.ResearchSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.data
	snap.Searches = append([]types.SearchQuery(nil), s.data.Searches...)
	snap.ExtractedContent = append([]types.ExtractedContent(nil), s.data.ExtractedContent...)
	return snap
}

func (s *session) originalQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.OriginalQuery
}

func (s *session) currentQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.CurrentQuery
}

func (s *session) setCurrentQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.CurrentQuery = q
}

func (s *session) totalResults() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.TotalResults
}

// appendSearch records one executed query and maintains the running totals.
// RelevantResults is recomputed from scratch, never incremented.
func (s *session) appendSearch(q types.SearchQuery) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.Status.Terminal() {
		return
	}
	s.data.Searches = append(s.data.Searches, q)
	s.data.TotalResults += q.ResultCount
	s.data.RelevantResults = relevantCount(s.data.Searches, s.cfg.RelevanceThreshold)
}

func (s *session) appendContent(c types.ExtractedContent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.Status.Terminal() {
		return
	}
	s.data.ExtractedContent = append(s.data.ExtractedContent, c)
}

// relevantURLs lists the URLs of results at or above the threshold, from
// queries whose strategy flagged its results for extraction.
func (s *session) relevantURLs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var urls []string
	for _, q := range s.data.Searches {
		if !q.ExtractContent {
			continue
		}
		for _, r := range q.Results {
			if r.RelevanceScore >= s.cfg.RelevanceThreshold {
				urls = append(urls, r.URL)
			}
		}
	}
	return urls
}

// shouldStopSearching evaluates the three-clause early-exit disjunction.
func (s *session) shouldStopSearching() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	extracted := 0
	for _, c := range s.data.ExtractedContent {
		if c.Success {
			extracted++
		}
	}
	relevant := s.data.RelevantResults
	total := s.data.TotalResults

	return (relevant >= earlyExitRelevant && total >= earlyExitTotal) ||
		extracted >= earlyExitExtractions ||
		relevant >= earlyExitStrongRelevant
}

// relevantCount scans every recorded search. Callers hold the lock.
func relevantCount(searches []types.SearchQuery, threshold int) int {
	n := 0
	for _, q := range searches {
		for _, r := range q.Results {
			if r.RelevanceScore >= threshold {
				n++
			}
		}
	}
	return n
}

// normalizeConfig fills defaulted fields. An explicit MaxExtractions of
// zero is preserved; negative values are treated as zero.
func normalizeConfig(cfg types.ResearchConfig) types.ResearchConfig {
	def := types.DefaultResearchConfig()
	if cfg.MaxSearches <= 0 {
		cfg.MaxSearches = def.MaxSearches
	}
	if cfg.MaxResultsPerSearch <= 0 {
		cfg.MaxResultsPerSearch = def.MaxResultsPerSearch
	}
	if cfg.MaxExtractions < 0 {
		cfg.MaxExtractions = 0
	}
	if cfg.RelevanceThreshold <= 0 {
		cfg.RelevanceThreshold = def.RelevanceThreshold
	}
	if cfg.RelevanceThreshold > 100 {
		cfg.RelevanceThreshold = 100
	}
	if cfg.MinSearches <= 0 {
		cfg.MinSearches = def.MinSearches
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	return cfg
}
