// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/nbib-fetch/pkg/types"
)

// QueryFile is the on-disk representation of a search and the identifiers it
// resolved. A saved file can be handed to the download command later
// without querying esearch again.
type QueryFile struct {
	Query    string       `yaml:"query"`
	Database string       `yaml:"database"`
	RetMax   int          `yaml:"retmax"`
	IDs      []string     `yaml:"ids"`
	Summary  QuerySummary `yaml:"summary"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total     int       `yaml:"total"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves query and its identifiers to a YAML file.
func WriteQueryFile(path, query string, cfg types.SearchConfig, ids []string) error {
	qf := QueryFile{
		Query:    query,
		Database: cfg.Database,
		RetMax:   cfg.RetMax,
		IDs:      ids,
		Summary: QuerySummary{
			Total:     len(ids),
			Timestamp: time.Now().UTC(),
		},
	}
	if qf.IDs == nil {
		qf.IDs = []string{}
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}
