package gitlab

import (
	"context"
	"fmt"
	"net/http"
)

// createIssueBody is the POST payload for issue creation. Optional fields
// are omitted rather than sent as null.
type createIssueBody struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Labels      string  `json:"labels,omitempty"`
	AssigneeID  *int64  `json:"assignee_id,omitempty"`
}

// CreateIssue creates one issue in its project. The response body is
// discarded; only the status matters.
func (c *Client) CreateIssue(ctx context.Context, issue Issue) error {
	body := createIssueBody{
		ID:          issue.ID.String(),
		Title:       issue.Title,
		Description: issue.Description,
		Labels:      issue.Labels,
		AssigneeID:  issue.AssigneeID,
	}
	path := fmt.Sprintf("projects/%d/issues", issue.ProjectID)
	return c.do(ctx, http.MethodPost, path, body, nil)
}
