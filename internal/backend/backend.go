// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package backend queries web search providers behind a common adapter
// interface and composes them with ordered fallback. A provider returns an
// empty slice for "no results"; errors are reserved for transport and auth
// failures, which the fallback layer absorbs by moving to the next provider.
package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/webresearch/pkg/types"
)

// Backend searches a single web search provider.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]types.SearchResult, error)
}

// Multi composes an ordered set of backends with fallback. When Fallback is
// false only the first backend (or the preferred one) is consulted.
type Multi struct {
	Backends []Backend
	Fallback bool
	Logger   *zap.Logger
}

// NewMulti builds a fallback-enabled composition over the given backends.
// A nil logger is replaced with a no-op logger.
func NewMulti(backends []Backend, logger *zap.Logger) *Multi {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Multi{Backends: backends, Fallback: true, Logger: logger}
}

// Search tries the backends in order, preferred first when it names a
// configured backend, and returns the first successful non-empty result set.
// A backend error or an empty success falls through to the next backend.
// An error is returned only when every consulted backend failed; callers
// treat that as zero results for the query, not as a fatal condition.
func (m *Multi) Search(ctx context.Context, query string, maxResults int, preferred string) ([]types.SearchResult, error) {
	if len(m.Backends) == 0 {
		return nil, fmt.Errorf("no search backends configured")
	}

	order := m.order(preferred)
	if !m.Fallback {
		order = order[:1]
	}

	var (
		failures   []string
		sawSuccess bool
	)
	for _, b := range order {
		results, err := b.Search(ctx, query, maxResults)
		if err != nil {
			m.Logger.Warn("search backend failed",
				zap.String("backend", b.Name()),
				zap.Error(err))
			failures = append(failures, fmt.Sprintf("%s: %v", b.Name(), err))
			continue
		}
		sawSuccess = true
		if len(results) > 0 {
			return results, nil
		}
	}

	if sawSuccess {
		return nil, nil
	}
	return nil, fmt.Errorf("all search backends failed: %s", strings.Join(failures, "; "))
}

// order returns the backend list with the preferred backend, if configured,
// moved to the front. The Backends slice itself is never reordered.
func (m *Multi) order(preferred string) []Backend {
	if preferred == "" {
		return m.Backends
	}
	for i, b := range m.Backends {
		if b.Name() != preferred {
			continue
		}
		order := make([]Backend, 0, len(m.Backends))
		order = append(order, b)
		order = append(order, m.Backends[:i]...)
		order = append(order, m.Backends[i+1:]...)
		return order
	}
	return m.Backends
}

// FromConfig builds the enabled backends in their fallback order.
func FromConfig(cfg types.BackendConfig) []Backend {
	client := newClient(cfg.HTTPConfig)
	ua := cfg.UserAgent

	var backends []Backend
	if cfg.EnableDuckDuckGo {
		backends = append(backends, &DuckDuckGo{Client: client, UserAgent: ua})
	}
	if cfg.EnableBrave {
		backends = append(backends, &Brave{Client: client, APIKey: cfg.BraveAPIKey, UserAgent: ua})
	}
	if cfg.EnableTavily {
		backends = append(backends, &Tavily{Client: client, APIKey: cfg.TavilyAPIKey})
	}
	if cfg.EnableWikipedia {
		backends = append(backends, &Wikipedia{Client: client, UserAgent: ua})
	}
	return backends
}

func newClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
