// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nbib-fetch/internal/fetch"
	"github.com/pdiddy/nbib-fetch/internal/httputil"
	"github.com/pdiddy/nbib-fetch/internal/metrics"
	"github.com/pdiddy/nbib-fetch/internal/search"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Search PubMed and download one NBIB file per result",
	Long: `Fetch runs the configured PubMed query, then downloads the MEDLINE
citation for every returned identifier, in search order, to
<output-dir>/<id>.nbib. Failed identifiers are reported and skipped; the
command exits non-zero if any failed.`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	addRunFlags(fetchCmd)
	rootCmd.AddCommand(fetchCmd)
}

// addRunFlags registers the report flags shared by fetch and download.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("manifest", "", "write a YAML report of per-identifier outcomes to this path")
	cmd.Flags().String("metrics-file", "", "write Prometheus text-format metrics to this path")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := app.cfg
	m := metrics.New()

	resolver := &search.Resolver{
		Client:  httputil.NewClient(cfg.Search.HTTPConfig),
		Config:  cfg.Search,
		Logger:  app.logger,
		Metrics: m,
	}
	ids, err := resolver.Resolve(cmd.Context(), cfg.Query)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Resolved %d identifiers\n", len(ids))

	return downloadAll(cmd, cfg.Query, ids, m)
}

// downloadAll prepares the output directory, runs the paced download loop
// over ids and writes the optional manifest and metrics file.
func downloadAll(cmd *cobra.Command, query string, ids []string, m *metrics.Metrics) error {
	cfg := app.cfg

	dir, err := outputDir(cfg)
	if err != nil {
		return err
	}
	if err := fetch.PrepareOutputDir(dir); err != nil {
		return err
	}

	f := fetch.New(httputil.NewClient(cfg.Download.HTTPConfig), cfg.Download, dir,
		fetch.WithLogger(app.logger),
		fetch.WithMetrics(m),
		fetch.WithProgress(cmd.OutOrStdout()),
	)
	result := f.Run(cmd.Context(), ids)

	if path, _ := cmd.Flags().GetString("manifest"); path != "" {
		if err := fetch.WriteManifest(path, query, dir, result); err != nil {
			return err
		}
	}
	if path, _ := cmd.Flags().GetString("metrics-file"); path != "" {
		if err := m.WriteTextfile(path); err != nil {
			return fmt.Errorf("writing metrics file: %w", err)
		}
	}

	if result.HasFailures() {
		return fmt.Errorf("%d of %d identifier(s) failed", result.Failed, result.Total())
	}
	return nil
}
