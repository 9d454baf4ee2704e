// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/webresearch/internal/archive"
	"github.com/pdiddy/webresearch/internal/backend"
	"github.com/pdiddy/webresearch/internal/extract"
	"github.com/pdiddy/webresearch/internal/research"
	"github.com/pdiddy/webresearch/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run [query]",
	Short: "Run a research session for a query",
	Long: `Run executes a full research session: query cleanup, strategy planning,
multi-backend searching with early exit, content extraction, and context
synthesis. Progress is streamed to stderr; the synthesized research context
is printed to stdout when the session resolves.

The session is stopped if it exceeds the --timeout budget.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

func init() {
	runCmd.Flags().Int("max-searches", 0, "maximum queries per session (default 6)")
	runCmd.Flags().Int("max-results", 0, "maximum results requested per query (default 10)")
	runCmd.Flags().Int("max-extractions", -1, "maximum pages fetched for content, 0 disables (default 3)")
	runCmd.Flags().Duration("timeout", 0, "overall session budget (default 2m)")
	runCmd.Flags().Bool("no-extract", false, "skip the content extraction phase")
	runCmd.Flags().Bool("no-follow-up", false, "skip strategy follow-up queries")
	runCmd.Flags().String("backend", "", "backend to try first: duckduckgo, brave, tavily, wikipedia")
	runCmd.Flags().Bool("json", false, "output the research context as JSON")
	runCmd.Flags().Bool("save", false, "save the research context to the archive")
	runCmd.Flags().Bool("verbose", false, "enable debug logging")

	rootCmd.AddCommand(runCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	cfg := engineConfig()
	applyRunFlags(cmd, &cfg.Research)

	logger := zap.NewNop()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		logger = l
		defer logger.Sync()
	}

	backends := backend.FromConfig(cfg.Backends)
	if len(backends) == 0 {
		return fmt.Errorf("no search backends enabled: check config and .secrets/")
	}

	eng := research.New(research.Options{
		Backends:  backends,
		Extractor: extract.New(cfg.Extract),
		Logger:    logger,
	})

	sess := eng.StartResearch(query, cfg.Research)
	events, unsubscribe, err := eng.Subscribe(sess.ID)
	if err != nil {
		return err
	}
	defer unsubscribe()

	jsonOutput, _ := cmd.Flags().GetBool("json")

	rc, err := awaitResult(eng, sess.ID, events, cfg.Research.Timeout, jsonOutput)
	if err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		if err := saveContext(cfg.Archive, rc); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved context for session %s\n", rc.SessionID)
	}

	return formatContextOutput(rc, jsonOutput)
}

// applyRunFlags overlays explicit flag values on the session config. Unset
// flags leave the config untouched so defaults still apply.
func applyRunFlags(cmd *cobra.Command, cfg *types.ResearchConfig) {
	if v, _ := cmd.Flags().GetInt("max-searches"); v > 0 {
		cfg.MaxSearches = v
	}
	if v, _ := cmd.Flags().GetInt("max-results"); v > 0 {
		cfg.MaxResultsPerSearch = v
	}
	if v, _ := cmd.Flags().GetInt("max-extractions"); v >= 0 {
		cfg.MaxExtractions = v
	}
	if v, _ := cmd.Flags().GetDuration("timeout"); v > 0 {
		cfg.Timeout = v
	}
	if v, _ := cmd.Flags().GetBool("no-extract"); v {
		cfg.ExtractContent = false
	}
	if v, _ := cmd.Flags().GetBool("no-follow-up"); v {
		cfg.FollowUpSearches = false
	}
	if v, _ := cmd.Flags().GetString("backend"); v != "" {
		cfg.PreferredBackend = v
	}
}

// awaitResult consumes the session's event stream until it resolves, stopping
// the session when the wall-clock budget runs out.
func awaitResult(eng *research.Engine, sessionID string, events <-chan research.Event, budget time.Duration, jsonOutput bool) (*types.ResearchContext, error) {
	timer := time.NewTimer(budget)
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil, fmt.Errorf("session %s ended without a result", sessionID)
			}
			switch ev.Type {
			case research.EventProgress:
				if !jsonOutput {
					fmt.Fprintf(os.Stderr, "[%3d%%] %s\n", ev.Progress.Percent, ev.Progress.Step)
				}
			case research.EventDone:
				if !ev.Success {
					fmt.Fprintln(os.Stderr, "Research resolved with limited results.")
				}
				return ev.Context, nil
			case research.EventError:
				return nil, fmt.Errorf("research failed: %s", ev.Message)
			}
		case <-timer.C:
			eng.StopResearch(sessionID)
			return nil, fmt.Errorf("research timed out after %s", budget)
		}
	}
}

func saveContext(cfg types.ArchiveConfig, rc *types.ResearchContext) error {
	store, err := archive.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Save(context.Background(), *rc)
}

func formatContextOutput(rc *types.ResearchContext, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rc)
	}

	fmt.Fprintf(os.Stdout, "Query:      %s\n", rc.Query)
	fmt.Fprintf(os.Stdout, "Session:    %s\n", rc.SessionID)
	fmt.Fprintf(os.Stdout, "Confidence: %d/100\n", rc.Confidence)
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 72))
	fmt.Fprintln(os.Stdout, rc.Content)
	if len(rc.Sources) > 0 {
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 72))
		fmt.Fprintln(os.Stdout, "Sources:")
		for i, src := range rc.Sources {
			fmt.Fprintf(os.Stdout, "  %d. %s\n", i+1, src)
		}
	}
	return nil
}
