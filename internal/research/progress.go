// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"

	"github.com/pdiddy/webresearch/pkg/types"
)

// ProgressSnapshot is a point-in-time view of how far a session has come.
type ProgressSnapshot struct {
	SessionID   string              `json:"session_id"`
	Status      types.SessionStatus `json:"status"`
	Percent     int                 `json:"percent"`
	Step        string              `json:"step"`
	SearchesRun int                 `json:"searches_run"`
}

// Phase weights for the progress percentage. Searching interpolates between
// searchingStart and searchingEnd by executed searches over the budget.
const (
	pctInitializing   = 5
	pctCleaning       = 10
	pctSearchingStart = 20
	pctSearchingEnd   = 60
	pctExtracting     = 70
	pctAnalyzing      = 85
	pctTerminal       = 100
)

// GetProgress maps the session's current status to a percentage and a
// human-readable step label. Returns nil for unknown sessions.
func (e *Engine) GetProgress(sessionID string) *ProgressSnapshot {
	s, ok := e.sessions.Get(sessionID)
	if !ok {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progressLocked()
}

// progressLocked builds the snapshot; the caller holds at least a read lock.
func (s *session) progressLocked() *ProgressSnapshot {
	snap := &ProgressSnapshot{
		SessionID:   s.data.ID,
		Status:      s.data.Status,
		SearchesRun: len(s.data.Searches),
	}

	switch s.data.Status {
	case types.StatusInitializing:
		snap.Percent = pctInitializing
		snap.Step = "Preparing research session"
	case types.StatusCleaning:
		snap.Percent = pctCleaning
		snap.Step = "Cleaning query"
	case types.StatusSearching:
		span := pctSearchingEnd - pctSearchingStart
		done := len(s.data.Searches) * span / s.cfg.MaxSearches
		if done > span {
			done = span
		}
		snap.Percent = pctSearchingStart + done
		snap.Step = fmt.Sprintf("Searching (%d of %d)", len(s.data.Searches), s.cfg.MaxSearches)
	case types.StatusExtracting:
		snap.Percent = pctExtracting
		snap.Step = "Extracting page content"
	case types.StatusAnalyzing:
		snap.Percent = pctAnalyzing
		snap.Step = "Analyzing results"
	case types.StatusCompleted:
		snap.Percent = pctTerminal
		snap.Step = "Research complete"
	case types.StatusInsufficient:
		snap.Percent = pctTerminal
		snap.Step = "Research complete (limited results)"
	case types.StatusFailed:
		snap.Percent = pctTerminal
		snap.Step = "Research failed"
	}
	return snap
}
