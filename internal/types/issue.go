// Package types provides type definitions for structured data shared across the issue-uploader packages.
package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// IssueRecord is one normalized record extracted from an input file: a title
// and an optional description. The extractor emits records with whatever
// title the source carried, empty included; rejecting empty titles is the
// uploader's job, not the extractor's.
type IssueRecord struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description,omitempty"`
}

// Validate checks that the record is fit for upload (non-empty title).
func (r *IssueRecord) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// String renders the record for listings and debug output.
func (r *IssueRecord) String() string {
	desc := ""
	if r.Description != nil {
		desc = *r.Description
	}
	return fmt.Sprintf("Title: %q, Description: %q", r.Title, desc)
}
