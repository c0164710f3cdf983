// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search resolves a PubMed query to an ordered list of identifiers
// through the NCBI E-utilities esearch endpoint.
package search

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/nbib-fetch/internal/httputil"
	"github.com/pdiddy/nbib-fetch/internal/metrics"
	"github.com/pdiddy/nbib-fetch/pkg/types"
)

// Resolver maps a free-text query to PubMed identifiers with one esearch call.
type Resolver struct {
	Client  *http.Client
	Config  types.SearchConfig
	Logger  zerolog.Logger
	Metrics *metrics.Metrics
}

// BuildSearchURL returns the esearch URL for query. The query is
// percent-encoded and otherwise passed through unchanged, including when it
// is empty.
func BuildSearchURL(cfg types.SearchConfig, query string) (string, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return "", fmt.Errorf("parsing search URL %q: %w", cfg.URL, err)
	}

	q := u.Query()
	q.Set("db", cfg.Database)
	q.Set("retmax", strconv.Itoa(cfg.RetMax))
	q.Set("term", query)
	if cfg.APIKey != "" {
		q.Set("api_key", cfg.APIKey)
	}
	if cfg.Email != "" {
		q.Set("email", cfg.Email)
	}
	if cfg.Tool != "" {
		q.Set("tool", cfg.Tool)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Resolve runs the search and returns identifiers in upstream order.
// Transport failures, non-2xx statuses and malformed XML are returned as
// errors. A response without an IdList returns an empty slice and nil.
func (r *Resolver) Resolve(ctx context.Context, query string) ([]string, error) {
	searchURL, err := BuildSearchURL(r.Config, query)
	if err != nil {
		return nil, err
	}

	r.Logger.Debug().Str("url", httputil.RedactURL(searchURL)).Msg("searching")

	start := time.Now()
	body, err := httputil.Get(ctx, r.Client, searchURL, r.Config.HTTPConfig)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	elapsed := time.Since(start)

	resp, err := ParseResponse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	r.Metrics.ObserveSearch(elapsed, len(resp.IDs))

	if !resp.HasIDList {
		r.Logger.Warn().Msg("search response has no IdList; nothing to download")
		return resp.IDs, nil
	}
	if resp.Count > len(resp.IDs) {
		r.Logger.Warn().
			Int("count", resp.Count).
			Int("retmax", r.Config.RetMax).
			Msg("search matched more records than retmax; list truncated")
	}
	r.Logger.Info().Int("identifiers", len(resp.IDs)).Dur("elapsed", elapsed).Msg("search complete")
	return resp.IDs, nil
}
