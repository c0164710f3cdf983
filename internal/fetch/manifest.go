// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/nbib-fetch/pkg/types"
)

// Manifest is the YAML report of a single run.
type Manifest struct {
	RunID    string          `yaml:"run_id"`
	Query    string          `yaml:"query,omitempty"`
	Dir      string          `yaml:"dir"`
	Started  time.Time       `yaml:"started"`
	Finished time.Time       `yaml:"finished"`
	Written  int             `yaml:"written"`
	Failed   int             `yaml:"failed"`
	Outcomes []types.Outcome `yaml:"outcomes"`
}

// WriteManifest writes the per-identifier outcomes of result to path.
func WriteManifest(path, query, dir string, result RunResult) error {
	m := Manifest{
		RunID:    result.RunID,
		Query:    query,
		Dir:      dir,
		Started:  result.Started.UTC(),
		Finished: result.Finished.UTC(),
		Written:  result.Written,
		Failed:   result.Failed,
		Outcomes: result.Outcomes,
	}
	if m.Outcomes == nil {
		m.Outcomes = []types.Outcome{}
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
