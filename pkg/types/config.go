// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "nutrikit/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CorpusConfig holds settings for the remote nutrition corpus client.
type CorpusConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL overrides the default corpus API endpoint. Empty uses the
	// built-in default.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// APIKey is an optional key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries caps retries for rate-limited requests (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// CacheConfig holds settings for the local food cache.
type CacheConfig struct {
	// DBPath is the sqlite database file (default "nutrikit.db").
	// ":memory:" gives an ephemeral cache.
	DBPath string `json:"db_path" yaml:"db_path"`
}

// SearchConfig holds settings for the search orchestrator.
type SearchConfig struct {
	// PageSize is the default result page size (default 20, max 50).
	PageSize int `json:"page_size" yaml:"page_size"`

	// ExportDir is the directory catalog exports are written to
	// (default "catalog").
	ExportDir string `json:"export_dir" yaml:"export_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Corpus CorpusConfig `json:"corpus" yaml:"corpus"`
	Cache  CacheConfig  `json:"cache" yaml:"cache"`
	Search SearchConfig `json:"search" yaml:"search"`
}
