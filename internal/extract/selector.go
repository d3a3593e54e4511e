package extract

import (
	"fmt"
	"strings"
)

// FieldSelector locates the column or key holding a record field, either by
// case-insensitive name or by explicit zero-based position. Selectors are
// built once, by the constructors below, and never change afterwards.
type FieldSelector struct {
	name  string
	index int
}

// SelectByName selects a field by case-insensitive name. Name selection needs
// a header row (text sources) or object keys (JSON sources) to resolve.
func SelectByName(name string) FieldSelector {
	return FieldSelector{name: name, index: -1}
}

// SelectByIndex selects a field by zero-based position. Index selection never
// consults the header.
func SelectByIndex(index int) FieldSelector {
	return FieldSelector{index: index}
}

// SelectorFromOptions builds a selector from the raw name/index option pair
// the CLI exposes. An explicit index (>= 0) wins and the name is discarded
// at construction; a name selector never carries a leftover index.
func SelectorFromOptions(name string, index int) FieldSelector {
	if index >= 0 {
		return SelectByIndex(index)
	}
	return SelectByName(name)
}

// ByIndex reports whether the selector carries an explicit position.
func (s FieldSelector) ByIndex() bool { return s.index >= 0 }

// Name returns the configured name; empty for index selectors.
func (s FieldSelector) Name() string { return s.name }

// Index returns the configured position; -1 for name selectors.
func (s FieldSelector) Index() int { return s.index }

func (s FieldSelector) String() string {
	if s.ByIndex() {
		return fmt.Sprintf("index %d", s.index)
	}
	return fmt.Sprintf("name %q", s.name)
}

// resolveField turns a selector into a concrete zero-based position. Index
// selectors resolve to themselves with no lookup and no bounds check; bounds
// are validated once downstream against the actual header width. Name
// selectors scan the header in order and the first case-insensitive match
// wins; duplicate header names are common in exported data and are not an
// error.
func resolveField(field string, sel FieldSelector, header []string) (int, error) {
	if sel.ByIndex() {
		return sel.index, nil
	}
	if header == nil {
		return 0, &HeaderRequiredError{Field: field}
	}
	for i, h := range header {
		if strings.EqualFold(h, sel.name) {
			return i, nil
		}
	}
	return 0, &NameNotFoundError{Field: field, Name: sel.name}
}
