// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared configuration and result structures for nbib-fetch.
package types

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Default endpoint and naming values. They reproduce the fixed literals of
// the PubMed NBIB export workflow and can be overridden from configuration.
const (
	DefaultSearchURL      = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	DefaultDownloadURL    = "https://api.ncbi.nlm.nih.gov/lit/ctxp/v1/pubmed/"
	DefaultDatabase       = "pubmed"
	DefaultRetMax         = 500
	DefaultFormat         = "medline"
	DefaultContentType    = "json"
	DefaultExtension      = "nbib"
	DefaultOutputDir      = "output"
	DefaultPacingInterval = 500 * time.Millisecond
	DefaultTimeout        = 60 * time.Second
	DefaultUserAgent      = "nbib-fetch/0.1"
	DefaultTool           = "nbib-fetch"

	// MaxRetMax is the largest retmax E-utilities accepts for esearch.
	MaxRetMax = 10000
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero means no client timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// NCBIConfig holds the optional identification parameters E-utilities
// accepts on every request. An API key raises the service cap from 3 to 10
// requests per second.
type NCBIConfig struct {
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
	Email  string `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email" validate:"omitempty,email"`
	Tool   string `json:"tool,omitempty" yaml:"tool,omitempty" mapstructure:"tool"`
}

// SearchConfig holds settings for the identifier search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`
	NCBIConfig `yaml:",inline" mapstructure:",squash"`

	// URL is the esearch endpoint.
	URL string `json:"url" yaml:"url" mapstructure:"url" validate:"required,url"`

	// Database is the Entrez database to search (default "pubmed").
	Database string `json:"database" yaml:"database" mapstructure:"database" validate:"required"`

	// RetMax bounds the number of identifiers returned (default 500).
	RetMax int `json:"retmax" yaml:"retmax" mapstructure:"retmax" validate:"gte=0,lte=10000"`
}

// DownloadConfig holds settings for the per-identifier download stage.
type DownloadConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// URL is the citation export endpoint.
	URL string `json:"url" yaml:"url" mapstructure:"url" validate:"required,url"`

	// Format and ContentType select the export representation.
	Format      string `json:"format" yaml:"format" mapstructure:"format" validate:"required"`
	ContentType string `json:"content_type" yaml:"content_type" mapstructure:"content_type" validate:"required"`

	// Extension is the file extension of written files, without the dot.
	Extension string `json:"extension" yaml:"extension" mapstructure:"extension" validate:"required,excludesall=/\\."`

	// PacingInterval is the minimum spacing between consecutive downloads (default 500ms).
	PacingInterval time.Duration `json:"pacing_interval" yaml:"pacing_interval" mapstructure:"pacing_interval" validate:"gte=0"`
}

// LogConfig selects the structured logger level and output format.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `json:"format" yaml:"format" mapstructure:"format" validate:"oneof=console json"`
}

// Config groups all settings for one run.
type Config struct {
	// Query is the unencoded PubMed query. It is passed through as-is.
	Query string `json:"query" yaml:"query" mapstructure:"query"`

	// OutputDir is where citation files are written. A relative path is
	// resolved against BaseDir.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir" validate:"required"`

	// BaseDir anchors a relative OutputDir. Empty means the directory of
	// the running executable.
	BaseDir string `json:"base_dir,omitempty" yaml:"base_dir,omitempty" mapstructure:"base_dir"`

	Search   SearchConfig   `json:"search" yaml:"search" mapstructure:"search"`
	Download DownloadConfig `json:"download" yaml:"download" mapstructure:"download"`
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultConfig returns a Config populated with the documented defaults.
func DefaultConfig() Config {
	http := HTTPConfig{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
	return Config{
		OutputDir: DefaultOutputDir,
		Search: SearchConfig{
			HTTPConfig: http,
			NCBIConfig: NCBIConfig{Tool: DefaultTool},
			URL:        DefaultSearchURL,
			Database:   DefaultDatabase,
			RetMax:     DefaultRetMax,
		},
		Download: DownloadConfig{
			HTTPConfig:     http,
			URL:            DefaultDownloadURL,
			Format:         DefaultFormat,
			ContentType:    DefaultContentType,
			Extension:      DefaultExtension,
			PacingInterval: DefaultPacingInterval,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and returns the first violations as one error.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
