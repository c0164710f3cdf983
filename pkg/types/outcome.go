// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// OutcomeStatus indicates what happened to one identifier during a run.
type OutcomeStatus string

const (
	StatusWritten OutcomeStatus = "written"
	StatusFailed  OutcomeStatus = "failed"
)

// Outcome records the result of fetching and persisting one identifier.
type Outcome struct {
	// ID is the PubMed identifier as resolved by the search stage.
	ID string `json:"id" yaml:"id"`

	// URL is the download URL requested for ID. Empty when the identifier
	// was rejected before any request.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Path is the file written for ID.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Bytes is the size of the written file.
	Bytes int64 `json:"bytes" yaml:"bytes"`

	Status OutcomeStatus `json:"status" yaml:"status"`

	// Error describes the failure when Status is StatusFailed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// Duration covers the request and the write.
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// OK reports whether the file for the identifier was written.
func (o Outcome) OK() bool {
	return o.Status == StatusWritten
}
