// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the webresearch CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/webresearch/internal/secrets"
	"github.com/pdiddy/webresearch/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the webresearch CLI.
var rootCmd = &cobra.Command{
	Use:   "webresearch",
	Short: "Autonomous web research sessions from the command line",
	Long: `webresearch runs autonomous research sessions: it cleans the query,
plans search strategies, fans out across web search backends with fallback,
extracts content from the most promising pages, and synthesizes the findings
into a research context with source attribution.

Use "run" to execute a session and "archive" to browse saved contexts.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./webresearch.yaml or ~/.config/webresearch/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("webresearch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "webresearch"))
		}
	}

	viper.SetEnvPrefix("WEBRESEARCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// engineConfig assembles the full engine configuration from the config file,
// environment, and the secrets directory. Backends with missing keys stay
// disabled rather than failing at request time.
func engineConfig() types.EngineConfig {
	viper.SetDefault("backends.enable_duckduckgo", true)
	viper.SetDefault("backends.enable_wikipedia", true)
	viper.SetDefault("backends.timeout", 15*time.Second)
	viper.SetDefault("backends.user_agent", "webresearch/"+version)
	viper.SetDefault("extract.timeout", 20*time.Second)
	viper.SetDefault("extract.user_agent", "webresearch/"+version)
	viper.SetDefault("archive.dir", "archive")

	cfg := types.EngineConfig{
		Research: types.DefaultResearchConfig(),
		Backends: types.BackendConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("backends.timeout"),
				UserAgent: viper.GetString("backends.user_agent"),
			},
			EnableDuckDuckGo: viper.GetBool("backends.enable_duckduckgo"),
			EnableWikipedia:  viper.GetBool("backends.enable_wikipedia"),
			BraveAPIKey:      secretDefault("brave-api-key", viper.GetString("backends.brave_api_key")),
			TavilyAPIKey:     secretDefault("tavily-api-key", viper.GetString("backends.tavily_api_key")),
		},
		Extract: types.HTTPConfig{
			Timeout:   viper.GetDuration("extract.timeout"),
			UserAgent: viper.GetString("extract.user_agent"),
		},
		Archive: types.ArchiveConfig{
			Dir: viper.GetString("archive.dir"),
		},
	}
	cfg.Backends.EnableBrave = cfg.Backends.BraveAPIKey != ""
	cfg.Backends.EnableTavily = cfg.Backends.TavilyAPIKey != ""
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
