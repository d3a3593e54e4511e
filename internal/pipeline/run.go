// Package pipeline provides the high-level orchestration for one upload run:
// extract records from the input file, resolve the target project, assignee
// and labels, then create one issue per record.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/martin/issue-uploader/internal/extract"
	"github.com/martin/issue-uploader/internal/gitlab"
	"github.com/martin/issue-uploader/internal/observability"
	"github.com/martin/issue-uploader/internal/types"
)

// Options holds configuration for one pipeline run.
type Options struct {
	File   string
	Parser extract.Config

	// Client may be nil when CheckOnly is set; every other run needs one.
	Client *gitlab.Client

	// Exactly one of ProjectName and ProjectID identifies the target project.
	ProjectName string
	ProjectID   int64

	// Labels is the comma-separated label list applied to every issue.
	Labels string

	// Assignee is the username every issue is assigned to; empty means none.
	Assignee string

	CheckOnly bool
	Verbose   bool

	// Out receives the formatted listings and the final report.
	// Defaults to os.Stdout.
	Out    io.Writer
	Logger *zap.Logger
}

// Run executes the pipeline. Run-level problems (unreadable input, unknown
// project or assignee, listing calls failing) abort with an error; records
// the server rejects are collected in the report instead and never stop the
// remaining uploads.
func Run(ctx context.Context, opts Options) (*types.UploadReport, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	printer := observability.NewPrinter(out)

	extractor, err := extract.New(opts.Parser, log)
	if err != nil {
		return nil, err
	}
	records, err := extractor.Extract(opts.File)
	if err != nil {
		return nil, err
	}
	log.Info("extracted records", zap.String("file", opts.File), zap.Int("count", len(records)))

	report := &types.UploadReport{Records: records}

	if opts.CheckOnly {
		printer.PrintRecords(records)
		return report, nil
	}

	if opts.Client == nil {
		return nil, fmt.Errorf("a gitlab client is required unless running in check mode")
	}
	if len(records) == 0 {
		printer.PrintRecords(records)
		return report, nil
	}
	if opts.Verbose {
		printer.PrintRecords(records)
	}

	projectID, err := resolveProject(ctx, opts, log)
	if err != nil {
		return nil, err
	}

	assigneeID, err := resolveAssignee(ctx, opts, projectID, log)
	if err != nil {
		return nil, err
	}

	warnMissingLabels(ctx, opts, projectID, log)

	for i, record := range records {
		if err := record.Validate(); err != nil {
			report.Failed = append(report.Failed, types.RecordFailure{
				Position: i + 1,
				Title:    record.Title,
				Reason:   "the title is empty",
			})
			log.Warn("skipping invalid record", zap.Int("position", i+1), zap.Error(err))
			continue
		}

		issue := gitlab.NewIssue(projectID, record, opts.Labels, assigneeID)
		if err := opts.Client.CreateIssue(ctx, issue); err != nil {
			report.Failed = append(report.Failed, types.RecordFailure{
				Position: i + 1,
				Title:    record.Title,
				Reason:   err.Error(),
			})
			log.Warn("issue creation failed",
				zap.Int("position", i+1), zap.String("title", record.Title), zap.Error(err))
			continue
		}

		report.Created++
		log.Debug("created issue", zap.Int("position", i+1), zap.String("title", record.Title))
	}

	printer.PrintUploadReport(report)
	return report, nil
}

// resolveProject turns the project selection into a numeric ID. Names are
// matched case-insensitively against the listing; zero or several matches
// are both errors.
func resolveProject(ctx context.Context, opts Options, log *zap.Logger) (int64, error) {
	if opts.ProjectID != 0 {
		return opts.ProjectID, nil
	}

	projects, err := opts.Client.Projects(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing projects failed: %w", err)
	}

	var matches []gitlab.Project
	for _, project := range projects {
		if strings.EqualFold(project.Name, opts.ProjectName) {
			matches = append(matches, project)
		}
	}

	switch len(matches) {
	case 0:
		return 0, fmt.Errorf("no project named %q was found", opts.ProjectName)
	case 1:
		log.Debug("resolved project",
			zap.String("name", opts.ProjectName), zap.Int64("id", matches[0].ID))
		return matches[0].ID, nil
	default:
		return 0, fmt.Errorf("the project name %q is ambiguous: %d projects match",
			opts.ProjectName, len(matches))
	}
}

// resolveAssignee maps the assignee username to a member ID, or nil when no
// assignee was requested.
func resolveAssignee(ctx context.Context, opts Options, projectID int64, log *zap.Logger) (*int64, error) {
	if opts.Assignee == "" {
		return nil, nil
	}

	members, err := opts.Client.ProjectMembers(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing project members failed: %w", err)
	}

	for _, member := range members {
		if strings.EqualFold(member.Username, opts.Assignee) {
			id := member.ID
			log.Debug("resolved assignee",
				zap.String("username", opts.Assignee), zap.Int64("id", id))
			return &id, nil
		}
	}

	return nil, fmt.Errorf("no member with username %q was found in the project", opts.Assignee)
}

// warnMissingLabels reports requested labels the project does not have yet.
// GitLab creates unknown labels on the fly, so the check is advisory and a
// failed listing only logs a warning.
func warnMissingLabels(ctx context.Context, opts Options, projectID int64, log *zap.Logger) {
	if opts.Labels == "" {
		return
	}

	existing, err := opts.Client.ProjectLabels(ctx, projectID)
	if err != nil {
		log.Warn("could not list project labels", zap.Error(err))
		return
	}

	known := make(map[string]bool, len(existing))
	for _, label := range existing {
		known[strings.ToLower(label.Name)] = true
	}
	for _, name := range strings.Split(opts.Labels, ",") {
		if !known[strings.ToLower(strings.TrimSpace(name))] {
			log.Warn("label does not exist in the project and will be created",
				zap.String("label", name))
		}
	}
}
