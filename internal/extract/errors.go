package extract

import "fmt"

// ConfigError reports an invalid parser configuration. It is detected when
// the Extractor is constructed, before any source file is opened.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("parser config: %s", e.Message)
}

// UnsupportedTypeError reports a source file whose extension matches no
// known input format.
type UnsupportedTypeError struct {
	Path string
	Ext  string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Ext == "" {
		return fmt.Sprintf("%s has no file extension; supported types are .csv and .json", e.Path)
	}
	return fmt.Sprintf("unsupported file type %q for %s; supported types are .csv and .json", e.Ext, e.Path)
}

// HeaderRequiredError reports a name selector used against a text source
// that has no header row to look the name up in.
type HeaderRequiredError struct {
	Field string
}

func (e *HeaderRequiredError) Error() string {
	return fmt.Sprintf("the %s field is selected by name but the source has no header row", e.Field)
}

// NameNotFoundError reports a selector name missing from the header row.
type NameNotFoundError struct {
	Field string
	Name  string
}

func (e *NameNotFoundError) Error() string {
	return fmt.Sprintf("could not find a column named %q for the %s field", e.Name, e.Field)
}

// IndexOutOfBoundsError reports a resolved position outside the header
// width. It is raised before any data row is read.
type IndexOutOfBoundsError struct {
	Field string
	Index int
	Limit int
}

func (e *IndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("the %s index %d is out of bounds: the header has %d columns", e.Field, e.Index, e.Limit)
}

// KeyRequiredError reports an index selector used against a JSON source.
// JSON objects are addressed by key, not by position.
type KeyRequiredError struct {
	Field string
	Index int
}

func (e *KeyRequiredError) Error() string {
	return fmt.Sprintf("the %s field is selected by index %d but JSON sources need a key name", e.Field, e.Index)
}

// SourceError reports a failure opening, reading, or decoding the source
// file.
type SourceError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *SourceError) Unwrap() error { return e.Cause }

// RowError reports a structurally broken data row, such as one too short to
// hold the mandatory title field. Row is the 1-based ordinal among data
// rows; the header row is not counted.
type RowError struct {
	Path    string
	Row     int
	Message string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s: row %d: %s", e.Path, e.Row, e.Message)
}

// FormatError reports a JSON document whose shape cannot hold issue records:
// the root must be a single object or an array of objects.
type FormatError struct {
	Path    string
	Message string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValueError reports a JSON entry whose value has no text form. Nested
// objects and arrays are unsupported inside issue records. Object is the
// 1-based ordinal of the record being built.
type ValueError struct {
	Path   string
	Object int
	Key    string
	Kind   string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: object %d: key %q holds a nested %s; only string, number, boolean and null values are supported",
		e.Path, e.Object, e.Key, e.Kind)
}
