// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads one citation file per PubMed identifier, paced and
// strictly in order, and persists each file to an output directory.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/nbib-fetch/internal/httputil"
	"github.com/pdiddy/nbib-fetch/internal/metrics"
	"github.com/pdiddy/nbib-fetch/pkg/types"
)

// RunResult holds the outcome of one download run, in processing order.
type RunResult struct {
	RunID    string
	Outcomes []types.Outcome
	Written  int
	Failed   int
	Started  time.Time
	Finished time.Time
}

// Total returns the number of identifiers processed.
func (r RunResult) Total() int {
	return r.Written + r.Failed
}

// HasFailures reports whether any identifier failed.
func (r RunResult) HasFailures() bool {
	return r.Failed > 0
}

func (r *RunResult) add(o types.Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	if o.OK() {
		r.Written++
	} else {
		r.Failed++
	}
}

// Fetcher runs the paced fetch-and-persist loop.
type Fetcher struct {
	client  *http.Client
	cfg     types.DownloadConfig
	dir     string
	pacer   Pacer
	logger  zerolog.Logger
	metrics *metrics.Metrics
	out     io.Writer
}

// Option customises a Fetcher.
type Option func(*Fetcher)

// WithPacer replaces the interval pacer built from the config.
func WithPacer(p Pacer) Option {
	return func(f *Fetcher) { f.pacer = p }
}

// WithLogger sets the structured logger.
func WithLogger(l zerolog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// WithMetrics records per-identifier metrics on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Fetcher) { f.metrics = m }
}

// WithProgress prints one status line per identifier and a summary to w.
func WithProgress(w io.Writer) Option {
	return func(f *Fetcher) { f.out = w }
}

// New returns a Fetcher writing into dir. The directory must already exist;
// see PrepareOutputDir.
func New(client *http.Client, cfg types.DownloadConfig, dir string, opts ...Option) *Fetcher {
	f := &Fetcher{
		client: client,
		cfg:    cfg,
		dir:    dir,
		pacer:  NewPacer(cfg.PacingInterval),
		logger: zerolog.Nop(),
		out:    io.Discard,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// BuildDownloadURL returns the citation export URL for id.
func BuildDownloadURL(cfg types.DownloadConfig, id string) (string, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return "", fmt.Errorf("parsing download URL %q: %w", cfg.URL, err)
	}
	q := u.Query()
	q.Set("format", cfg.Format)
	q.Set("contenttype", cfg.ContentType)
	q.Set("id", id)
	q.Set("download", "y")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FilePath returns the destination path for id: <dir>/<id>.<ext>.
func FilePath(dir, id, ext string) string {
	return filepath.Join(dir, id+"."+ext)
}

// ValidateIdentifier rejects identifiers that cannot be used as a bare file
// name inside the output directory.
func ValidateIdentifier(id string) error {
	switch {
	case id == "":
		return fmt.Errorf("empty identifier")
	case id == "." || id == "..":
		return fmt.Errorf("invalid identifier %q", id)
	case strings.ContainsAny(id, `/\`) || strings.ContainsRune(id, 0):
		return fmt.Errorf("identifier %q contains a path separator", id)
	}
	return nil
}

// Run processes ids in order, one at a time. Before each download it waits on
// the pacer, so the next download starts no earlier than one pacing interval
// after the previous file was written or failed. Each file is written before
// the next identifier is taken.
// A failed identifier is recorded and the loop moves on. When ctx is
// cancelled the loop stops and every identifier not yet fetched is recorded
// as failed with the context error.
func (f *Fetcher) Run(ctx context.Context, ids []string) RunResult {
	result := RunResult{
		RunID:   uuid.NewString(),
		Started: time.Now(),
	}
	log := f.logger.With().Str("run_id", result.RunID).Logger()
	log.Info().Int("identifiers", len(ids)).Str("dir", f.dir).Msg("download run started")

	pending := append([]string(nil), ids...)
	for len(pending) > 0 {
		id := pending[0]
		pending = pending[1:]

		if err := ValidateIdentifier(id); err != nil {
			result.add(f.fail(log, types.Outcome{ID: id}, err, 0))
			continue
		}

		if err := f.pacer.Wait(ctx); err != nil {
			result.add(f.fail(log, types.Outcome{ID: id}, fmt.Errorf("waiting to fetch: %w", err), 0))
			for _, rest := range pending {
				result.add(f.fail(log, types.Outcome{ID: rest}, fmt.Errorf("run cancelled: %w", err), 0))
			}
			break
		}

		result.add(f.fetchOne(ctx, id, log))
		f.pacer.Done()
	}

	result.Finished = time.Now()
	fmt.Fprintf(f.out, "\nRun summary: %d written, %d failed (total: %d)\n",
		result.Written, result.Failed, result.Total())
	log.Info().
		Int("written", result.Written).
		Int("failed", result.Failed).
		Dur("elapsed", result.Finished.Sub(result.Started)).
		Msg("download run finished")
	return result
}

// fetchOne downloads id and writes it synchronously. It does not pace.
func (f *Fetcher) fetchOne(ctx context.Context, id string, log zerolog.Logger) types.Outcome {
	out := types.Outcome{ID: id}

	downloadURL, err := BuildDownloadURL(f.cfg, id)
	if err != nil {
		return f.fail(log, out, err, 0)
	}
	out.URL = downloadURL

	start := time.Now()
	body, err := httputil.Get(ctx, f.client, downloadURL, f.cfg.HTTPConfig)
	if err != nil {
		return f.fail(log, out, fmt.Errorf("downloading: %w", err), time.Since(start))
	}

	path := FilePath(f.dir, id, f.cfg.Extension)
	if err := writeFileAtomic(path, body); err != nil {
		return f.fail(log, out, fmt.Errorf("writing %s: %w", path, err), time.Since(start))
	}

	out.Path = path
	out.Bytes = int64(len(body))
	out.Status = types.StatusWritten
	out.Duration = time.Since(start)

	f.metrics.ObserveDownload(string(out.Status), out.Duration, out.Bytes)
	fmt.Fprintf(f.out, "written: %s (%d bytes)\n", id, out.Bytes)
	log.Debug().Str("id", id).Str("path", path).Int64("bytes", out.Bytes).Dur("elapsed", out.Duration).Msg("citation written")
	return out
}

func (f *Fetcher) fail(log zerolog.Logger, out types.Outcome, err error, d time.Duration) types.Outcome {
	out.Status = types.StatusFailed
	out.Error = err.Error()
	out.Duration = d

	f.metrics.ObserveDownload(string(out.Status), d, 0)
	fmt.Fprintf(f.out, "failed:  %s (%v)\n", out.ID, err)
	log.Warn().Err(err).Str("id", out.ID).Msg("identifier failed")
	return out
}
