// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m := New()

	m.ObserveSearch(120*time.Millisecond, 3)
	m.ObserveDownload("written", 40*time.Millisecond, 1024)
	m.ObserveDownload("written", 40*time.Millisecond, 1024)
	m.ObserveDownload("failed", 0, 0)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.IdentifiersResolved))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Downloads.WithLabelValues("written")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Downloads.WithLabelValues("failed")))
	assert.Equal(t, 2048.0, testutil.ToFloat64(m.BytesWritten))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveSearch(time.Second, 1)
	m.ObserveDownload("written", time.Second, 1)
	assert.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveDownload("written", 10*time.Millisecond, 10)

	path := filepath.Join(t.TempDir(), "nbib_fetch.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `nbib_fetch_downloads_total{status="written"} 1`)
	assert.Contains(t, string(data), "nbib_fetch_last_run_timestamp_seconds")
}
