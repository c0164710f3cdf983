// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nbib-fetch/internal/httputil"
	"github.com/pdiddy/nbib-fetch/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Resolve the query to PubMed identifiers without downloading",
	Long: `Search runs the configured query against esearch and prints the
identifiers in the order PubMed returned them. Use --save to store them in a
query file that the download command can read with --from.`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Bool("json", false, "output identifiers as JSON")
	searchCmd.Flags().String("save", "", "save query and identifiers to a YAML file")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := app.cfg

	resolver := &search.Resolver{
		Client: httputil.NewClient(cfg.Search.HTTPConfig),
		Config: cfg.Search,
		Logger: app.logger,
	}
	ids, err := resolver.Resolve(cmd.Context(), cfg.Query)
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("save"); path != "" {
		if err := search.WriteQueryFile(path, cfg.Query, cfg.Search, ids); err != nil {
			return err
		}
		app.logger.Info().Str("path", path).Int("identifiers", len(ids)).Msg("saved query file")
	}

	w := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return search.FormatJSON(ids, w)
	}
	search.FormatList(ids, w)
	if len(ids) == cfg.Search.RetMax && cfg.Search.RetMax > 0 {
		fmt.Fprintf(w, "(limited to --retmax %d)\n", cfg.Search.RetMax)
	}
	return nil
}
