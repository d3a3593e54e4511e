// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// DefaultURL is the GitLab instance used when neither a flag, a config file,
// nor the GITLAB_URL environment variable names one.
const DefaultURL = "https://localhost"

// DefaultTitleKey is the column or key holding the issue title unless the
// configuration says otherwise.
const DefaultTitleKey = "title"

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Connection
	URL         string `json:"url,omitempty"`           // GitLab instance URL, e.g. https://gitlab.com
	Token       string `json:"token,omitempty"`         // Personal access token
	NoSSLVerify bool   `json:"no_ssl_verify,omitempty"` // Disable TLS certificate checks

	// Target project
	ProjectName string `json:"project_name,omitempty"` // Project name (mutually exclusive with project_id)
	ProjectID   int64  `json:"project_id,omitempty"`   // Project ID (mutually exclusive with project_name)
	Labels      string `json:"labels,omitempty"`       // Comma-separated label list added to every issue
	Assignee    string `json:"assignee,omitempty"`     // Username assigned to every issue

	// Input file and parsing
	File             string `json:"file,omitempty"`              // Path to the .csv or .json input file
	NoHeader         bool   `json:"no_header,omitempty"`         // Text input has no header row
	Delimiter        string `json:"delimiter,omitempty"`         // Single-character field delimiter
	TitleKey         string `json:"title_key,omitempty"`         // Column or key holding the title
	TitleIndex       *int   `json:"title_index,omitempty"`       // Zero-based title column, overrides title_key
	DescriptionKey   string `json:"description_key,omitempty"`   // Column or key holding the description
	DescriptionIndex *int   `json:"description_index,omitempty"` // Zero-based description column, overrides description_key
	Combine          bool   `json:"combine,omitempty"`           // Fold all non-title fields into the description
	TitlePrefix      string `json:"title_prefix,omitempty"`      // Static prefix prepended to every title

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	// Validate mutually exclusive fields
	if c.ProjectName != "" && c.ProjectID != 0 {
		return fmt.Errorf("config error: 'project_name' and 'project_id' are mutually exclusive")
	}

	// Validate numeric ranges
	if c.ProjectID < 0 {
		return fmt.Errorf("config error: 'project_id' must be non-negative")
	}
	if c.TitleIndex != nil && *c.TitleIndex < 0 {
		return fmt.Errorf("config error: 'title_index' must be non-negative")
	}
	if c.DescriptionIndex != nil && *c.DescriptionIndex < 0 {
		return fmt.Errorf("config error: 'description_index' must be non-negative")
	}

	if c.Delimiter != "" && utf8.RuneCountInString(c.Delimiter) != 1 {
		return fmt.Errorf("config error: 'delimiter' must be a single character, got %q", c.Delimiter)
	}

	if c.Labels != "" {
		if err := ValidateLabels(c.Labels); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}

	// Validate the input file exists (if specified)
	if c.File != "" {
		info, err := os.Stat(c.File)
		if os.IsNotExist(err) {
			return fmt.Errorf("config error: input file not found: %s", c.File)
		}
		if err == nil && info.IsDir() {
			return fmt.Errorf("config error: input path is a directory, not a file: %s", c.File)
		}
	}

	return nil
}

// ValidateLabels checks that a label list is a comma-separated sequence of
// non-empty names.
func ValidateLabels(labels string) error {
	for _, label := range strings.Split(labels, ",") {
		if label == "" {
			return fmt.Errorf("labels must be a comma separated list of non-empty strings, got %q", labels)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.URL == "" {
		result.URL = defaults.URL
	}
	if result.Token == "" {
		result.Token = defaults.Token
	}
	if result.ProjectName == "" {
		result.ProjectName = defaults.ProjectName
	}
	if result.Labels == "" {
		result.Labels = defaults.Labels
	}
	if result.Assignee == "" {
		result.Assignee = defaults.Assignee
	}
	if result.File == "" {
		result.File = defaults.File
	}
	if result.Delimiter == "" {
		result.Delimiter = defaults.Delimiter
	}
	if result.TitleKey == "" {
		result.TitleKey = defaults.TitleKey
	}
	if result.DescriptionKey == "" {
		result.DescriptionKey = defaults.DescriptionKey
	}
	if result.TitlePrefix == "" {
		result.TitlePrefix = defaults.TitlePrefix
	}

	// Numeric fields: use default if unset
	if result.ProjectID == 0 {
		result.ProjectID = defaults.ProjectID
	}
	if result.TitleIndex == nil {
		result.TitleIndex = defaults.TitleIndex
	}
	if result.DescriptionIndex == nil {
		result.DescriptionIndex = defaults.DescriptionIndex
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
