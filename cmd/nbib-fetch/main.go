// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the nbib-fetch CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/nbib-fetch/internal/logging"
	"github.com/pdiddy/nbib-fetch/internal/secrets"
	"github.com/pdiddy/nbib-fetch/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// defaultQuery is the saved anticoagulation / atrial fibrillation search
// that nbib-fetch runs when no --query is given.
const defaultQuery = `“ACF02Query”[ti] OR "atrial fibrillation" AND ((Acenocoumarol OR apixaban OR argatroban OR betrixaban OR bivalirudin OR Dabigatran OR Dalteparin OR danaparoid OR desirudin OR edoxaban OR Enoxaparin OR Fondaparinux OR Heparin* OR Hirudins OR lepirudin OR Rivaroxaban OR Warfarin OR "oral anticoagulation" OR "direct oral anticoagulants" OR DOACs OR Anticoagula*) OR (Abciximab OR "acetylsalicylic acid" OR Aspirin OR cangrelor OR Cilostazol OR Clopidogrel OR Dipyridamole OR eptifibitide OR Pentoxifylline OR "Prasugrel Hydrochloride" OR Ticagrelor OR Ticlopidine OR Tirofiban OR antiplatelet OR Antithrombotic)) AND "last 14 days"=[dp] AND english[LA] NOT (mouse OR mice OR dog OR dogs OR chicken OR chickens OR cat OR cats OR canine* OR monkey* OR rat OR rats OR porcine*)`

// secretsDir holds NCBI credentials, one file per key.
const secretsDir = ".secrets/"

// app carries the resolved configuration and logger into subcommands.
var app struct {
	cfg    types.Config
	logger zerolog.Logger
}

// rootCmd is the base command for the nbib-fetch CLI.
var rootCmd = &cobra.Command{
	Use:   "nbib-fetch",
	Short: "Download PubMed citations as NBIB files",
	Long: `nbib-fetch runs a PubMed search through NCBI E-utilities and downloads
one MEDLINE-format citation file (.nbib) per matching record into an output
directory. Downloads run one at a time, paced to stay under the NCBI rate
limit.

Relative output directories are resolved against the directory containing
the nbib-fetch binary unless --base-dir is given.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}

		cfg, err := buildConfig(viper.GetViper())
		if err != nil {
			return err
		}

		logger, err := logging.New(cfg.Log, os.Stderr)
		if err != nil {
			return err
		}

		s, err := secrets.Load(secretsDir, logger)
		if err != nil {
			return err
		}
		if len(s) > 0 {
			logger.Debug().Strs("keys", s.Keys()).Msg("loaded secrets")
		}
		s.Apply(&cfg.Search.NCBIConfig)

		if err := cfg.Validate(); err != nil {
			return err
		}

		app.cfg = cfg
		app.logger = logger
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := types.DefaultConfig()
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./nbib-fetch.yaml or ~/.config/nbib-fetch/nbib-fetch.yaml)")
	pf.String("query", defaultQuery, "PubMed query, passed through unencoded")
	pf.String("output-dir", "./"+defaults.OutputDir, "directory for .nbib files")
	pf.String("base-dir", "", "base for a relative --output-dir (default: the executable's directory)")
	pf.Int("retmax", defaults.Search.RetMax, "maximum identifiers returned by the search")
	pf.Duration("pacing", defaults.Download.PacingInterval, "minimum interval between downloads")
	pf.Duration("timeout", defaults.Search.Timeout, "HTTP request timeout (0 disables)")
	pf.String("search-url", defaults.Search.URL, "esearch endpoint")
	pf.String("download-url", defaults.Download.URL, "citation export endpoint")
	pf.String("email", "", "contact email sent to NCBI (or .secrets/ncbi-email)")
	pf.String("log-level", defaults.Log.Level, "log level: trace, debug, info, warn, error, disabled")
	pf.String("log-format", defaults.Log.Format, "log format: console or json")

	bindings := map[string]string{
		"query":                    "query",
		"output_dir":               "output-dir",
		"base_dir":                 "base-dir",
		"search.retmax":            "retmax",
		"download.pacing_interval": "pacing",
		"search.timeout":           "timeout",
		"download.timeout":         "timeout",
		"search.url":               "search-url",
		"download.url":             "download-url",
		"search.email":             "email",
		"log.level":                "log-level",
		"log.format":               "log-format",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("nbib-fetch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "nbib-fetch"))
		}
	}

	bindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
