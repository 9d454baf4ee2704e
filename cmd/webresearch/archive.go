// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/webresearch/internal/archive"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Browse and export saved research contexts",
	Long: `Archive manages the local SQLite store of saved research contexts.
Contexts are saved with "run --save"; use subcommands to list, show, or
export them.`,
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved research contexts, newest first",
	RunE:  runArchiveList,
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	store, err := archive.Open(engineConfig().Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	contexts, err := store.List(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(contexts)
	}

	if len(contexts) == 0 {
		fmt.Println("No saved contexts.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-40s  %-10s  %s\n", "Session", "Query", "Confidence", "Updated")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, rc := range contexts {
		query := rc.Query
		if len(query) > 40 {
			query = query[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-40s  %-10d  %s\n",
			rc.SessionID, query, rc.Confidence, rc.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

var archiveShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Print one saved research context",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveShow,
}

func runArchiveShow(cmd *cobra.Command, args []string) error {
	store, err := archive.Open(engineConfig().Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	rc, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}
	if rc == nil {
		return fmt.Errorf("no saved context for session %s", args[0])
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatContextOutput(rc, jsonOutput)
}

var archiveExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all saved contexts as YAML to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := archive.Open(engineConfig().Archive)
		if err != nil {
			return err
		}
		defer store.Close()

		return store.ExportYAML(context.Background(), os.Stdout)
	},
}

func init() {
	archiveListCmd.Flags().Bool("json", false, "output as JSON")
	archiveShowCmd.Flags().Bool("json", false, "output as JSON")

	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveShowCmd)
	archiveCmd.AddCommand(archiveExportCmd)
	rootCmd.AddCommand(archiveCmd)
}
