// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nbib-fetch/internal/metrics"
	"github.com/pdiddy/nbib-fetch/internal/search"
)

var downloadCmd = &cobra.Command{
	Use:   "download [ids...]",
	Short: "Download NBIB files for known PubMed identifiers",
	Long: `Download skips the search and fetches citations for the identifiers
given as arguments, or listed in a query file saved by "search --save".
Identifiers from --from come first, followed by any arguments.`,
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().String("from", "", "query file written by search --save")
	addRunFlags(downloadCmd)

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	var ids []string
	query := ""

	if from, _ := cmd.Flags().GetString("from"); from != "" {
		qf, err := search.ReadQueryFile(from)
		if err != nil {
			return err
		}
		ids = append(ids, qf.IDs...)
		query = qf.Query
	}
	ids = append(ids, args...)

	if len(ids) == 0 {
		return fmt.Errorf("provide one or more PubMed identifiers or --from <query file>")
	}
	return downloadAll(cmd, query, ids, metrics.New())
}
