package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/martin/issue-uploader/internal/types"
)

// extractJSON walks a JSON document whose root is a single object or an
// array of objects; any other root shape cannot hold issue records. Entries
// are visited in document order so combine-mode descriptions come out
// byte-identical run after run, and duplicate keys keep last-write
// semantics the way JSON decoders usually resolve them.
func (e *Extractor) extractJSON(path string) ([]types.IssueRecord, error) {
	if err := e.jsonSelectorsByName(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceError{Path: path, Message: "could not open file", Cause: err}
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber() // numbers keep the literal text form they had in the document

	tok, err := dec.Token()
	if err != nil {
		return nil, &SourceError{Path: path, Message: "could not parse json", Cause: err}
	}

	var records []types.IssueRecord
	switch delim, ok := tok.(json.Delim); {
	case ok && delim == '{':
		rec, err := e.objectToRecord(path, dec, 1)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)

	case ok && delim == '[':
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, &SourceError{Path: path, Message: "could not parse json", Cause: err}
			}
			if delim, ok := tok.(json.Delim); !ok || delim != '{' {
				return nil, &FormatError{
					Path:    path,
					Message: fmt.Sprintf("array element %d is not an object", len(records)+1),
				}
			}
			rec, err := e.objectToRecord(path, dec, len(records)+1)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
		if _, err := dec.Token(); err != nil { // closing ']'
			return nil, &SourceError{Path: path, Message: "could not parse json", Cause: err}
		}

	default:
		return nil, &FormatError{Path: path, Message: "the document root must be an object or an array of objects"}
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &SourceError{Path: path, Message: "trailing data after the json document", Cause: err}
	}

	e.log.Debug("extracted records from json",
		zap.String("path", path), zap.Int("records", len(records)))
	return records, nil
}

// jsonSelectorsByName rejects index selectors before the document is opened;
// JSON objects are addressed by key, not by position. A description selector
// is only checked when it would actually be used.
func (e *Extractor) jsonSelectorsByName() error {
	if e.cfg.Title.ByIndex() {
		return &KeyRequiredError{Field: "title", Index: e.cfg.Title.Index()}
	}
	if !e.cfg.CombineRemaining && e.cfg.Description != nil && e.cfg.Description.ByIndex() {
		return &KeyRequiredError{Field: "description", Index: e.cfg.Description.Index()}
	}
	return nil
}

// objectToRecord builds one record from the object the decoder is positioned
// inside. The title key matches case-insensitively and the last duplicate
// wins. In combine mode every other entry becomes a "<key>: <value>"
// fragment in document order; an explicitly configured description key
// replaces the accumulated value rather than appending to it, so duplicates
// there also resolve last-write. An object with no title match yields a
// record with an empty title; rejecting those is the caller's decision.
func (e *Extractor) objectToRecord(path string, dec *json.Decoder, ordinal int) (types.IssueRecord, error) {
	var (
		title       string
		description *string
		combined    strings.Builder
		hasFragment bool
	)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return types.IssueRecord{}, &SourceError{Path: path, Message: "could not parse json", Cause: err}
		}
		key, _ := keyTok.(string)

		valTok, err := dec.Token()
		if err != nil {
			return types.IssueRecord{}, &SourceError{Path: path, Message: "could not parse json", Cause: err}
		}
		if delim, ok := valTok.(json.Delim); ok {
			kind := "object"
			if delim == '[' {
				kind = "array"
			}
			return types.IssueRecord{}, &ValueError{Path: path, Object: ordinal, Key: key, Kind: kind}
		}
		value := scalarText(valTok)

		switch {
		case strings.EqualFold(key, e.cfg.Title.Name()):
			title = value
		case e.cfg.CombineRemaining:
			fmt.Fprintf(&combined, "%s: %s\n\n", strings.TrimSpace(key), value)
			hasFragment = true
		case e.cfg.Description != nil && strings.EqualFold(key, e.cfg.Description.Name()):
			v := value
			description = &v
		}
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return types.IssueRecord{}, &SourceError{Path: path, Message: "could not parse json", Cause: err}
	}

	if e.cfg.CombineRemaining && hasFragment {
		c := combined.String()
		description = &c
	}
	return types.IssueRecord{Title: e.prefixTitle(title), Description: description}, nil
}

// scalarText renders a scalar JSON token the way it appeared in the
// document: strings as themselves, numbers as their literal text, booleans
// as true/false, null as the text "null".
func scalarText(tok json.Token) string {
	switch v := tok.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return "null"
	default:
		return fmt.Sprint(v)
	}
}
