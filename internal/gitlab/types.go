package gitlab

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/martin/issue-uploader/internal/types"
)

// Project is one project visible to the token, as returned by /projects.
type Project struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	PathWithNamespace string `json:"path_with_namespace"`

	// Members and Labels are filled in by ProjectsWithDetails only.
	Members []Member `json:"-"`
	Labels  []Label  `json:"-"`
}

func (p Project) String() string {
	return fmt.Sprintf("%d: %s (%s)", p.ID, p.Name, p.PathWithNamespace)
}

// Member is a user with access to a project.
type Member struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

func (m Member) String() string {
	return fmt.Sprintf("%d: %s (%s)", m.ID, m.Username, m.Name)
}

// Label is an issue label defined on a project.
type Label struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (l Label) String() string {
	return fmt.Sprintf("%d: %s", l.ID, l.Name)
}

// Issue is one issue ready to be created. The ID tags the create request so
// server logs can be correlated back to a specific extracted record.
type Issue struct {
	ID          uuid.UUID
	ProjectID   int64
	Title       string
	Description *string

	// Labels is the comma-separated label list; empty means none.
	Labels     string
	AssigneeID *int64
}

// NewIssue binds one extracted record to a project, attaching the shared
// label list and assignee. Each call mints a fresh ID.
func NewIssue(projectID int64, rec types.IssueRecord, labels string, assigneeID *int64) Issue {
	return Issue{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Title:       rec.Title,
		Description: rec.Description,
		Labels:      labels,
		AssigneeID:  assigneeID,
	}
}
