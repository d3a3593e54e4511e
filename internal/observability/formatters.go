// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/martin/issue-uploader/internal/gitlab"
	"github.com/martin/issue-uploader/internal/types"
)

// boxWidth is the default width for formatted output boxes
const boxWidth = 60

// Printer handles formatted output for check listings, project discovery
// and upload reports.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// printNotice prints a single-line box with no body
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printNotice(message string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, message)
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRecords outputs every extracted record with its position in the
// sequence. Check mode uses this as its primary output.
func (p *Printer) PrintRecords(records []types.IssueRecord) {
	if len(records) == 0 {
		p.printNotice("NO RECORDS EXTRACTED")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Extracted %d records:\n\n", len(records)))

	for i, record := range records {
		title := record.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, title))

		if record.Description != nil {
			// Collapse multi-line descriptions into a one-line preview
			preview := strings.Join(strings.Fields(*record.Description), " ")
			if len(preview) > 50 {
				preview = preview[:47] + "..."
			}
			if preview != "" {
				sb.WriteString(fmt.Sprintf("    %s\n", preview))
			}
		}
		if i < len(records)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("EXTRACTED RECORDS", sb.String())
}

// PrintProjects outputs each project with its members and labels.
func (p *Printer) PrintProjects(projects []gitlab.Project) {
	if len(projects) == 0 {
		p.printNotice("NO PROJECTS FOUND")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d projects:\n\n", len(projects)))

	for i, project := range projects {
		sb.WriteString(project.String())
		sb.WriteString("\n")

		if len(project.Members) > 0 {
			sb.WriteString("  Members:\n")
			for _, member := range project.Members {
				sb.WriteString(fmt.Sprintf("    %s\n", member.String()))
			}
		}
		if len(project.Labels) > 0 {
			sb.WriteString("  Labels:\n")
			for _, label := range project.Labels {
				sb.WriteString(fmt.Sprintf("    %s\n", label.String()))
			}
		}
		if i < len(projects)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("GITLAB PROJECTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintUploadReport outputs the outcome of an upload run. Runs without
// failures collapse to a single confirmation line; otherwise every rejected
// record is listed with its position and the reason it was rejected.
func (p *Printer) PrintUploadReport(report *types.UploadReport) {
	if report == nil {
		return
	}
	if len(report.Failed) == 0 {
		p.printNotice(fmt.Sprintf("✅ CREATED %d ISSUES", report.Created))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Created %d of %d issues\n\n", report.Created, report.Attempted()))

	for i, failure := range report.Failed {
		title := failure.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		reason := failure.Reason
		if len(reason) > 45 {
			reason = reason[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("⚠ record %d: %q\n", failure.Position, title))
		sb.WriteString(fmt.Sprintf("  %s\n", reason))
		if i < len(report.Failed)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("UPLOAD REPORT", sb.String())
}
