package gcp

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/resourcemanager/apiv3/resourcemanagerpb"
	"google.golang.org/api/iterator"

	"github.com/addhe/infrabot-nlp/pkg/types"
)

// ========== Project Lifecycle Operations ==========

var projectIDPattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// ListProjects lists projects visible to the active credentials. The
// filter, when non-empty, is matched as a substring against project ID and
// display name (used for dev/stg/prod environment filtering). Lifecycle
// states are surfaced verbatim (ACTIVE, DELETE_REQUESTED, ...).
func (c *Client) ListProjects(ctx context.Context, filter string) *types.Result {
	op := Operation{Name: "gcp.project.list", Resource: "projects"}

	apiCall := func(ctx context.Context) (map[string]interface{}, error) {
		it := c.projects.SearchProjects(ctx, &resourcemanagerpb.SearchProjectsRequest{})

		var resources []*types.GCPResource
		for {
			project, err := it.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return nil, err
			}
			resource := convertProject(project)
			if filter != "" && !strings.EqualFold(filter, "all") && !matchesEnvironment(resource, filter) {
				continue
			}
			resources = append(resources, resource)
		}

		return map[string]interface{}{"projects": resources, "count": len(resources)}, nil
	}

	res := c.executor.Execute(ctx, op, apiCall, nil)
	if res.Success {
		count, _ := res.Data["count"].(int)
		res.Message = fmt.Sprintf("Found %d projects", count)
	}
	return res
}

// CreateProject creates a new project. The display name defaults to a
// title-cased form of the project ID when not supplied.
func (c *Client) CreateProject(ctx context.Context, params types.CreateProjectParams) *types.Result {
	if params.ProjectID == "" {
		return types.Fail(types.ErrInvalidArgument, "project ID is required", "")
	}
	if !projectIDPattern.MatchString(params.ProjectID) {
		return types.Fail(types.ErrInvalidArgument,
			fmt.Sprintf("invalid project ID %q: must start with a letter and contain only lowercase letters, numbers, and hyphens", params.ProjectID),
			params.ProjectID)
	}

	displayName := params.DisplayName
	if displayName == "" {
		displayName = displayNameFromID(params.ProjectID)
	}

	op := Operation{Name: "gcp.project.create", Resource: params.ProjectID}

	apiCall := func(ctx context.Context) (map[string]interface{}, error) {
		lro, err := c.projects.CreateProject(ctx, &resourcemanagerpb.CreateProjectRequest{
			Project: &resourcemanagerpb.Project{
				ProjectId:   params.ProjectID,
				DisplayName: displayName,
			},
		})
		if err != nil {
			return nil, err
		}
		project, err := lro.Wait(ctx)
		if err != nil {
			return nil, err
		}

		c.logger.WithField("projectId", params.ProjectID).Info("Project created")
		return map[string]interface{}{"resource": convertProject(project)}, nil
	}

	cliArgs := []string{
		"projects", "create", params.ProjectID,
		"--name=" + displayName,
	}

	res := c.executor.Execute(ctx, op, apiCall, &CLICall{Args: cliArgs})
	return successMessage(res, fmt.Sprintf("Project %s (%s) created", displayName, params.ProjectID))
}

// DeleteProject requests deletion of a project. A project that is not
// ACTIVE short-circuits without the delete ever being issued; repeated
// delete calls on a DELETE_REQUESTED project keep failing the same way.
func (c *Client) DeleteProject(ctx context.Context, projectID string) *types.Result {
	if projectID == "" {
		return types.Fail(types.ErrInvalidArgument, "project ID is required", "")
	}

	op := Operation{Name: "gcp.project.delete", Resource: projectID}

	apiCall := func(ctx context.Context) (map[string]interface{}, error) {
		lro, err := c.projects.DeleteProject(ctx, &resourcemanagerpb.DeleteProjectRequest{
			Name: "projects/" + projectID,
		})
		if err != nil {
			return nil, err
		}
		project, err := lro.Wait(ctx)
		if err != nil {
			return nil, err
		}

		c.logger.WithField("projectId", projectID).Info("Project deletion requested")
		return map[string]interface{}{"resource": convertProject(project)}, nil
	}

	cliArgs := []string{"projects", "delete", projectID, "--quiet"}

	lookup := func(ctx context.Context) (string, error) {
		return c.lookupProjectState(ctx, projectID)
	}
	res := c.executor.deleteWithGate(ctx, op, "project", lookup, apiCall, &CLICall{Args: cliArgs})
	return successMessage(res, fmt.Sprintf("Project %q scheduled for deletion (recoverable for 30 days)", projectID))
}

// UndeleteProject recovers a project that is pending deletion. Only
// DELETE_REQUESTED projects can be recovered.
func (c *Client) UndeleteProject(ctx context.Context, projectID string) *types.Result {
	if projectID == "" {
		return types.Fail(types.ErrInvalidArgument, "project ID is required", "")
	}

	state, err := c.lookupProjectState(ctx, projectID)
	if err != nil {
		return failure(Operation{Name: "gcp.project.undelete", Resource: projectID}, ClassifyError(err), err.Error())
	}
	if state != resourcemanagerpb.Project_DELETE_REQUESTED.String() {
		return types.Fail(types.ErrInvalidArgument,
			fmt.Sprintf("project %q is not pending deletion (current state: %s)", projectID, state), projectID)
	}

	op := Operation{Name: "gcp.project.undelete", Resource: projectID}

	apiCall := func(ctx context.Context) (map[string]interface{}, error) {
		lro, err := c.projects.UndeleteProject(ctx, &resourcemanagerpb.UndeleteProjectRequest{
			Name: "projects/" + projectID,
		})
		if err != nil {
			return nil, err
		}
		project, err := lro.Wait(ctx)
		if err != nil {
			return nil, err
		}

		c.logger.WithField("projectId", projectID).Info("Project recovered")
		return map[string]interface{}{"resource": convertProject(project)}, nil
	}

	cliArgs := []string{"projects", "undelete", projectID, "--quiet"}

	res := c.executor.Execute(ctx, op, apiCall, &CLICall{Args: cliArgs})
	return successMessage(res, fmt.Sprintf("Project %q recovered", projectID))
}

// lookupProjectState fetches the current lifecycle state of a project.
func (c *Client) lookupProjectState(ctx context.Context, projectID string) (string, error) {
	project, err := c.projects.GetProject(ctx, &resourcemanagerpb.GetProjectRequest{
		Name: "projects/" + projectID,
	})
	if err != nil {
		return "", err
	}
	return project.GetState().String(), nil
}

func convertProject(project *resourcemanagerpb.Project) *types.GCPResource {
	return &types.GCPResource{
		Type:   types.ResourceTypeProject,
		ID:     project.GetProjectId(),
		Name:   project.GetDisplayName(),
		Status: project.GetState().String(),
		Metadata: map[string]interface{}{
			"name":       project.GetName(),
			"parent":     project.GetParent(),
			"createTime": project.GetCreateTime().AsTime().Format(time.RFC3339),
		},
		LastSeen: time.Now(),
	}
}

func matchesEnvironment(resource *types.GCPResource, env string) bool {
	env = strings.ToLower(env)
	return strings.Contains(strings.ToLower(resource.ID), env) ||
		strings.Contains(strings.ToLower(resource.Name), env)
}

func displayNameFromID(projectID string) string {
	parts := strings.Split(projectID, "-")
	for i, part := range parts {
		if part != "" {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}
