// Package extract turns delimited text and JSON documents into a normalized
// sequence of issue records. The extractor owns all file and parse I/O;
// callers receive either every record in the source or the first error,
// never a partial result.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/martin/issue-uploader/internal/types"
)

// DefaultDelimiter separates fields in delimited-text sources unless the
// configuration says otherwise.
const DefaultDelimiter = ','

// Config describes how the title and description fields are located in a
// source document. A Config is read-only once the Extractor is built and may
// back any number of Extract calls, including concurrent ones.
type Config struct {
	// HasHeader marks text sources whose first row names the columns.
	HasHeader bool

	// Delimiter is the field separator for text sources; zero means comma.
	Delimiter rune

	// Title locates the mandatory title field.
	Title FieldSelector

	// Description locates the optional description field; nil means the
	// records carry no description.
	Description *FieldSelector

	// CombineRemaining folds every field other than the title into a
	// synthesized description. It wins over Description when both are set.
	CombineRemaining bool

	// TitlePrefix, when non-empty, is prepended to every extracted title
	// with a single separating space.
	TitlePrefix string
}

// Extractor reads one source file per Extract call and emits its records.
// It holds no state between calls beyond the immutable configuration, so a
// single Extractor can validate any number of files.
type Extractor struct {
	cfg Config
	log *zap.Logger
}

// New validates cfg and returns an Extractor. Configuration mistakes, such
// as name selection without a header row or an unusable delimiter, surface
// here before any file is opened or any row is read.
func New(cfg Config, logger *zap.Logger) (*Extractor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Delimiter == 0 {
		cfg.Delimiter = DefaultDelimiter
	}
	if cfg.Delimiter == '\n' || cfg.Delimiter == '\r' || cfg.Delimiter == utf8.RuneError {
		return nil, &ConfigError{Message: fmt.Sprintf("delimiter %q cannot separate fields", cfg.Delimiter)}
	}
	if !cfg.Title.ByIndex() && cfg.Title.Name() == "" {
		return nil, &ConfigError{Message: "the title field needs a column name or index"}
	}
	if cfg.Description != nil && !cfg.Description.ByIndex() && cfg.Description.Name() == "" {
		return nil, &ConfigError{Message: "the description field needs a column name or index"}
	}
	if !cfg.HasHeader {
		if !cfg.Title.ByIndex() {
			return nil, &ConfigError{Message: "the title field must be selected by index when the source has no header row"}
		}
		if cfg.Description != nil && !cfg.Description.ByIndex() {
			return nil, &ConfigError{Message: "the description field must be selected by index when the source has no header row"}
		}
	}
	return &Extractor{cfg: cfg, log: logger}, nil
}

// Extract reads the file at path and returns every record in it, in input
// order. The input format is chosen by file extension: .csv for delimited
// text, .json for JSON documents. Extraction is all-or-nothing: the first
// source, row, or document error aborts the run and no records are returned.
func (e *Extractor) Extract(path string) ([]types.IssueRecord, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return e.extractCSV(path)
	case ".json":
		return e.extractJSON(path)
	default:
		return nil, &UnsupportedTypeError{Path: path, Ext: ext}
	}
}

// prefixTitle applies the configured title prefix to a raw title, verbatim.
func (e *Extractor) prefixTitle(raw string) string {
	if e.cfg.TitlePrefix == "" {
		return raw
	}
	return e.cfg.TitlePrefix + " " + raw
}
