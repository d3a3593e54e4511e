package gitlab

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"
)

// Projects lists the projects visible to the token.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.do(ctx, http.MethodGet, "projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ProjectMembers lists the members of one project.
func (c *Client) ProjectMembers(ctx context.Context, projectID int64) ([]Member, error) {
	var members []Member
	path := fmt.Sprintf("projects/%d/members", projectID)
	if err := c.do(ctx, http.MethodGet, path, nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// ProjectLabels lists the labels defined on one project.
func (c *Client) ProjectLabels(ctx context.Context, projectID int64) ([]Label, error) {
	var labels []Label
	path := fmt.Sprintf("projects/%d/labels", projectID)
	if err := c.do(ctx, http.MethodGet, path, nil, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// ProjectsWithDetails lists projects and fills in the members and labels of
// each. The per-project lookups run concurrently; the first failure cancels
// the rest.
func (c *Client) ProjectsWithDetails(ctx context.Context) ([]Project, error) {
	projects, err := c.Projects(ctx)
	if err != nil {
		return nil, err
	}

	g, gCtx := errgroup.WithContext(ctx)
	for i := range projects {
		i := i
		g.Go(func() error {
			members, err := c.ProjectMembers(gCtx, projects[i].ID)
			if err != nil {
				return err
			}
			labels, err := c.ProjectLabels(gCtx, projects[i].ID)
			if err != nil {
				return err
			}
			projects[i].Members = members
			projects[i].Labels = labels
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return projects, nil
}
