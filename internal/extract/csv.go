package extract

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/martin/issue-uploader/internal/types"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// positions holds the per-document field layout shared by every data row.
// It is built once, before the first row is read, and discarded with the
// extraction.
type positions struct {
	title       int
	description *int
	header      []string
}

// extractCSV streams a delimited-text source in three phases: open the file,
// resolve the field positions against the header (when there is one), then
// walk the data rows. Any decode error is fatal for the whole extraction.
func (e *Extractor) extractCSV(path string) ([]types.IssueRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceError{Path: path, Message: "could not open file", Cause: err}
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if lead, _ := br.Peek(len(utf8BOM)); bytes.Equal(lead, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	r := csv.NewReader(br)
	r.Comma = e.cfg.Delimiter
	r.FieldsPerRecord = -1 // short rows are judged per field, not by the reader

	pos, err := e.resolvePositions(path, r)
	if err != nil {
		return nil, err
	}

	var records []types.IssueRecord
	row := 0
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &SourceError{Path: path, Message: "could not read record", Cause: err}
		}
		row++
		rec, err := e.rowToRecord(path, row, fields, pos)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	e.log.Debug("extracted records from delimited text",
		zap.String("path", path), zap.Int("records", len(records)))
	return records, nil
}

// resolvePositions consumes the header row when the configuration announces
// one, resolves the title and description selectors against it, and bounds-
// checks the results. All of this happens before the first data row is read,
// so a bad configuration never touches the data.
func (e *Extractor) resolvePositions(path string, r *csv.Reader) (positions, error) {
	var header []string
	if e.cfg.HasHeader {
		h, err := r.Read()
		if err != nil {
			return positions{}, &SourceError{Path: path, Message: "could not read header row", Cause: err}
		}
		header = h
		e.log.Debug("read header row", zap.Strings("columns", header))
	}

	titleIdx, err := resolveField("title", e.cfg.Title, header)
	if err != nil {
		return positions{}, err
	}
	pos := positions{title: titleIdx, header: header}

	if !e.cfg.CombineRemaining && e.cfg.Description != nil {
		descIdx, err := resolveField("description", *e.cfg.Description, header)
		if err != nil {
			return positions{}, err
		}
		pos.description = &descIdx
	}

	if header != nil {
		if pos.title >= len(header) {
			return positions{}, &IndexOutOfBoundsError{Field: "title", Index: pos.title, Limit: len(header)}
		}
		if pos.description != nil && *pos.description >= len(header) {
			return positions{}, &IndexOutOfBoundsError{Field: "description", Index: *pos.description, Limit: len(header)}
		}
	}

	e.log.Debug("resolved field positions",
		zap.Int("title_index", pos.title), zap.Any("description_index", pos.description))
	return pos, nil
}

// rowToRecord builds one record from one data row. A row too short to hold
// the title is structural corruption and aborts the extraction; a row too
// short to hold the optional description only means the description is
// absent.
func (e *Extractor) rowToRecord(path string, row int, fields []string, pos positions) (types.IssueRecord, error) {
	if pos.title >= len(fields) {
		return types.IssueRecord{}, &RowError{
			Path: path,
			Row:  row,
			Message: fmt.Sprintf("no title field at index %d: the row has only %d fields",
				pos.title, len(fields)),
		}
	}
	title := fields[pos.title]

	var description *string
	switch {
	case e.cfg.CombineRemaining:
		combined := combineFields(fields, pos)
		description = &combined
	case pos.description != nil && *pos.description < len(fields):
		d := fields[*pos.description]
		description = &d
	}

	return types.IssueRecord{Title: e.prefixTitle(title), Description: description}, nil
}

// combineFields folds every non-title field into "<label>: <value>" fragments
// separated by blank lines, keeping the original column order. Labels come
// from the header when there is one, otherwise a synthetic "Column <i>".
// The trailing blank-line separator after the last fragment is part of the
// output format.
func combineFields(fields []string, pos positions) string {
	var b strings.Builder
	for i, value := range fields {
		if i == pos.title {
			continue
		}
		label := fmt.Sprintf("Column %d", i)
		if pos.header != nil && i < len(pos.header) {
			label = strings.TrimSpace(pos.header[i])
		}
		fmt.Fprintf(&b, "%s: %s\n\n", label, value)
	}
	return b.String()
}
