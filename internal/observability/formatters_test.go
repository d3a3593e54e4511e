package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/martin/issue-uploader/internal/gitlab"
	"github.com/martin/issue-uploader/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintRecords(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	desc := "Session drops after five minutes"
	records := []types.IssueRecord{
		{Title: "Fix login crash", Description: &desc},
		{Title: "Add dark mode"},
	}

	p.PrintRecords(records)
	output := buf.String()

	assert.Contains(t, output, "EXTRACTED RECORDS")
	assert.Contains(t, output, "Extracted 2 records")
	assert.Contains(t, output, "#1  Fix login crash")
	assert.Contains(t, output, "Session drops after five minutes")
	assert.Contains(t, output, "#2  Add dark mode")
}

func TestPrintRecords_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRecords(nil)

	assert.Contains(t, buf.String(), "NO RECORDS EXTRACTED")
}

func TestPrintRecords_CollapsesMultilineDescriptions(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	desc := "id: 7\n\nowner: alice\n\n"
	p.PrintRecords([]types.IssueRecord{{Title: "Crash", Description: &desc}})

	assert.Contains(t, buf.String(), "id: 7 owner: alice")
}

func TestPrintRecords_TruncatesLongTitles(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	long := strings.Repeat("a", 80)
	p.PrintRecords([]types.IssueRecord{{Title: long}})
	output := buf.String()

	assert.Contains(t, output, strings.Repeat("a", 47)+"...")
	assert.NotContains(t, output, strings.Repeat("a", 51))
}

func TestPrintProjects(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	projects := []gitlab.Project{
		{
			ID:                42,
			Name:              "backend",
			PathWithNamespace: "acme/backend",
			Members:           []gitlab.Member{{ID: 7, Username: "alice", Name: "Alice Smith"}},
			Labels:            []gitlab.Label{{ID: 1, Name: "bug"}},
		},
		{ID: 43, Name: "frontend", PathWithNamespace: "acme/frontend"},
	}

	p.PrintProjects(projects)
	output := buf.String()

	assert.Contains(t, output, "GITLAB PROJECTS")
	assert.Contains(t, output, "Found 2 projects")
	assert.Contains(t, output, "42: backend (acme/backend)")
	assert.Contains(t, output, "Members:")
	assert.Contains(t, output, "7: alice (Alice Smith)")
	assert.Contains(t, output, "Labels:")
	assert.Contains(t, output, "1: bug")
	assert.Contains(t, output, "43: frontend (acme/frontend)")
}

func TestPrintProjects_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProjects(nil)

	assert.Contains(t, buf.String(), "NO PROJECTS FOUND")
}

func TestPrintUploadReport_AllCreated(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintUploadReport(&types.UploadReport{Created: 5})

	assert.Contains(t, buf.String(), "CREATED 5 ISSUES")
}

func TestPrintUploadReport_WithFailures(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	report := &types.UploadReport{
		Created: 2,
		Failed: []types.RecordFailure{
			{Position: 3, Title: "", Reason: "the title is empty"},
			{Position: 5, Title: "Broken", Reason: "HTTP 400"},
		},
	}

	p.PrintUploadReport(report)
	output := buf.String()

	assert.Contains(t, output, "UPLOAD REPORT")
	assert.Contains(t, output, "Created 2 of 4 issues")
	assert.Contains(t, output, `record 3: ""`)
	assert.Contains(t, output, "the title is empty")
	assert.Contains(t, output, `record 5: "Broken"`)
	assert.Contains(t, output, "HTTP 400")
}

func TestPrintUploadReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintUploadReport(nil)

	assert.Empty(t, buf.String())
}

func TestPrintBox_Borders(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRecords([]types.IssueRecord{{Title: "A"}})
	output := buf.String()

	assert.True(t, strings.Contains(output, "┌"))
	assert.True(t, strings.Contains(output, "└"))
	assert.True(t, strings.Contains(output, "│"))
}
