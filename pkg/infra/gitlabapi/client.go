// Package gitlabapi wraps the GitLab REST client behind the
// interfaces.GitLabClient boundary. Transient failures (5xx, connection
// resets) are retried with bounded backoff inside the client transport;
// 4xx responses are mapped to tagged errors and never retried.
package gitlabapi

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"time"

	"github.com/classtools/classlab/pkg/domain/interfaces"
	"github.com/classtools/classlab/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// Config is the immutable client configuration, resolved from one
// instance section of the configuration file.
type Config struct {
	URL       string
	Token     types.Secret
	SSLVerify bool
	Timeout   time.Duration
	RetryMax  int
}

type client struct {
	gl *gitlab.Client
}

// New creates a GitLab API client for one instance.
func New(cfg Config) (interfaces.GitLabClient, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	if !cfg.SSLVerify {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	gl, err := gitlab.NewClient(cfg.Token.Unwrap(),
		gitlab.WithBaseURL(cfg.URL),
		gitlab.WithHTTPClient(httpClient),
		gitlab.WithCustomRetryMax(cfg.RetryMax),
		gitlab.WithCustomRetryWaitMinMax(1*time.Second, 30*time.Second),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitLab client",
			goerr.T(types.ErrTagConfig), goerr.V("url", cfg.URL))
	}

	return &client{gl: gl}, nil
}

func statusCode(resp *gitlab.Response, err error) int {
	if resp != nil {
		return resp.StatusCode
	}
	var errResp *gitlab.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode
	}
	return 0
}

// wrapErr attaches request context and the status-derived tag to an API
// error.
func wrapErr(err error, resp *gitlab.Response, msg string, options ...goerr.Option) error {
	switch statusCode(resp, err) {
	case http.StatusNotFound:
		options = append(options, goerr.T(types.ErrTagNotFound))
	case http.StatusForbidden, http.StatusUnauthorized:
		options = append(options, goerr.T(types.ErrTagForbidden))
	case http.StatusConflict, http.StatusNotModified:
		options = append(options, goerr.T(types.ErrTagConflict))
	}
	return goerr.Wrap(err, msg, options...)
}

func (c *client) GetProject(ctx context.Context, path string) (*gitlab.Project, error) {
	project, resp, err := c.gl.Projects.GetProject(path, nil, gitlab.WithContext(ctx))
	if err != nil {
		return nil, wrapErr(err, resp, "failed to get project", goerr.V("project", path))
	}
	return project, nil
}

func (c *client) ForkProject(ctx context.Context, sourceID int, namespace, path, name string) (*gitlab.Project, error) {
	fork, resp, err := c.gl.Projects.ForkProject(sourceID, &gitlab.ForkProjectOptions{
		NamespacePath: gitlab.Ptr(namespace),
		Path:          gitlab.Ptr(path),
		Name:          gitlab.Ptr(name),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, wrapErr(err, resp, "failed to fork project",
			goerr.V("source_id", sourceID),
			goerr.V("namespace", namespace),
			goerr.V("path", path))
	}
	return fork, nil
}

func (c *client) DeleteForkRelation(ctx context.Context, projectID int) error {
	resp, err := c.gl.Projects.DeleteProjectForkRelation(projectID, gitlab.WithContext(ctx))
	if err != nil {
		return wrapErr(err, resp, "failed to delete fork relation",
			goerr.V("project_id", projectID))
	}
	return nil
}

func (c *client) ProtectBranch(ctx context.Context, projectID int, branch string, push, merge gitlab.AccessLevelValue) error {
	_, resp, err := c.gl.ProtectedBranches.ProtectRepositoryBranches(projectID,
		&gitlab.ProtectRepositoryBranchesOptions{
			Name:             gitlab.Ptr(branch),
			PushAccessLevel:  gitlab.Ptr(push),
			MergeAccessLevel: gitlab.Ptr(merge),
		}, gitlab.WithContext(ctx))
	if err != nil {
		return wrapErr(err, resp, "failed to protect branch",
			goerr.V("project_id", projectID), goerr.V("branch", branch))
	}
	return nil
}

func (c *client) UnprotectBranch(ctx context.Context, projectID int, branch string) error {
	resp, err := c.gl.ProtectedBranches.UnprotectRepositoryBranches(projectID, branch,
		gitlab.WithContext(ctx))
	if err != nil {
		return wrapErr(err, resp, "failed to unprotect branch",
			goerr.V("project_id", projectID), goerr.V("branch", branch))
	}
	return nil
}

func (c *client) ProtectTag(ctx context.Context, projectID int, tag string, create gitlab.AccessLevelValue) error {
	_, resp, err := c.gl.ProtectedTags.ProtectRepositoryTags(projectID,
		&gitlab.ProtectRepositoryTagsOptions{
			Name:              gitlab.Ptr(tag),
			CreateAccessLevel: gitlab.Ptr(create),
		}, gitlab.WithContext(ctx))
	if err != nil {
		return wrapErr(err, resp, "failed to protect tag",
			goerr.V("project_id", projectID), goerr.V("tag", tag))
	}
	return nil
}

func (c *client) UnprotectTag(ctx context.Context, projectID int, tag string) error {
	resp, err := c.gl.ProtectedTags.UnprotectRepositoryTags(projectID, tag,
		gitlab.WithContext(ctx))
	if err != nil {
		return wrapErr(err, resp, "failed to unprotect tag",
			goerr.V("project_id", projectID), goerr.V("tag", tag))
	}
	return nil
}

func (c *client) FindUser(ctx context.Context, username string) (*gitlab.User, error) {
	users, resp, err := c.gl.Users.ListUsers(&gitlab.ListUsersOptions{
		Username: gitlab.Ptr(username),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, wrapErr(err, resp, "failed to look up user",
			goerr.V("username", username))
	}
	if len(users) == 0 {
		return nil, goerr.New("user not found",
			goerr.T(types.ErrTagNotFound), goerr.V("username", username))
	}
	return users[0], nil
}

func (c *client) AddMember(ctx context.Context, projectID, userID int, level gitlab.AccessLevelValue) error {
	_, resp, err := c.gl.ProjectMembers.AddProjectMember(projectID,
		&gitlab.AddProjectMemberOptions{
			UserID:      userID,
			AccessLevel: gitlab.Ptr(level),
		}, gitlab.WithContext(ctx))
	if err != nil {
		return wrapErr(err, resp, "failed to add member",
			goerr.V("project_id", projectID), goerr.V("user_id", userID))
	}
	return nil
}

func (c *client) EditMember(ctx context.Context, projectID, userID int, level gitlab.AccessLevelValue) error {
	_, resp, err := c.gl.ProjectMembers.EditProjectMember(projectID, userID,
		&gitlab.EditProjectMemberOptions{
			AccessLevel: gitlab.Ptr(level),
		}, gitlab.WithContext(ctx))
	if err != nil {
		return wrapErr(err, resp, "failed to edit member",
			goerr.V("project_id", projectID), goerr.V("user_id", userID))
	}
	return nil
}

func (c *client) RemoveMember(ctx context.Context, projectID, userID int) error {
	resp, err := c.gl.ProjectMembers.DeleteProjectMember(projectID, userID,
		gitlab.WithContext(ctx))
	if err != nil {
		return wrapErr(err, resp, "failed to remove member",
			goerr.V("project_id", projectID), goerr.V("user_id", userID))
	}
	return nil
}

func (c *client) ListCommits(ctx context.Context, projectID int, ref string, until time.Time) ([]*gitlab.Commit, error) {
	opt := &gitlab.ListCommitsOptions{
		RefName:     gitlab.Ptr(ref),
		ListOptions: gitlab.ListOptions{PerPage: 100},
	}
	if !until.IsZero() {
		opt.Until = gitlab.Ptr(until)
	}

	var all []*gitlab.Commit
	for {
		commits, resp, err := c.gl.Commits.ListCommits(projectID, opt, gitlab.WithContext(ctx))
		if err != nil {
			return nil, wrapErr(err, resp, "failed to list commits",
				goerr.V("project_id", projectID), goerr.V("ref", ref))
		}
		all = append(all, commits...)
		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}
	return all, nil
}

func (c *client) GetCommit(ctx context.Context, projectID int, sha string) (*gitlab.Commit, error) {
	commit, resp, err := c.gl.Commits.GetCommit(projectID, sha,
		&gitlab.GetCommitOptions{Stats: gitlab.Ptr(true)}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, wrapErr(err, resp, "failed to get commit",
			goerr.V("project_id", projectID), goerr.V("sha", sha))
	}
	return commit, nil
}

func (c *client) GetFileRaw(ctx context.Context, projectID int, filePath, ref string) ([]byte, error) {
	content, resp, err := c.gl.RepositoryFiles.GetRawFile(projectID, filePath,
		&gitlab.GetRawFileOptions{Ref: gitlab.Ptr(ref)}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, wrapErr(err, resp, "failed to get file",
			goerr.V("project_id", projectID),
			goerr.V("file", filePath), goerr.V("ref", ref))
	}
	return content, nil
}

func (c *client) PutFile(ctx context.Context, projectID int, filePath, branch, message string, content []byte, overwrite bool) error {
	_, resp, err := c.gl.RepositoryFiles.CreateFile(projectID, filePath,
		&gitlab.CreateFileOptions{
			Branch:        gitlab.Ptr(branch),
			Content:       gitlab.Ptr(string(content)),
			CommitMessage: gitlab.Ptr(message),
		}, gitlab.WithContext(ctx))
	if err == nil {
		return nil
	}

	// GitLab answers 400 when the file already exists on the branch.
	if statusCode(resp, err) != http.StatusBadRequest {
		return wrapErr(err, resp, "failed to create file",
			goerr.V("project_id", projectID), goerr.V("file", filePath))
	}
	if !overwrite {
		return goerr.Wrap(err, "file already exists",
			goerr.T(types.ErrTagConflict),
			goerr.V("project_id", projectID), goerr.V("file", filePath))
	}

	_, resp, err = c.gl.RepositoryFiles.UpdateFile(projectID, filePath,
		&gitlab.UpdateFileOptions{
			Branch:        gitlab.Ptr(branch),
			Content:       gitlab.Ptr(string(content)),
			CommitMessage: gitlab.Ptr(message),
		}, gitlab.WithContext(ctx))
	if err != nil {
		return wrapErr(err, resp, "failed to update file",
			goerr.V("project_id", projectID), goerr.V("file", filePath))
	}
	return nil
}

func (c *client) ListTags(ctx context.Context, projectID int) ([]*gitlab.Tag, error) {
	opt := &gitlab.ListTagsOptions{
		ListOptions: gitlab.ListOptions{PerPage: 100},
	}
	var all []*gitlab.Tag
	for {
		tags, resp, err := c.gl.Tags.ListTags(projectID, opt, gitlab.WithContext(ctx))
		if err != nil {
			return nil, wrapErr(err, resp, "failed to list tags",
				goerr.V("project_id", projectID))
		}
		all = append(all, tags...)
		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}
	return all, nil
}

func (c *client) LatestPipeline(ctx context.Context, projectID int) (*gitlab.PipelineInfo, error) {
	pipelines, resp, err := c.gl.Pipelines.ListProjectPipelines(projectID,
		&gitlab.ListProjectPipelinesOptions{
			OrderBy:     gitlab.Ptr("id"),
			Sort:        gitlab.Ptr("desc"),
			ListOptions: gitlab.ListOptions{PerPage: 1},
		}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, wrapErr(err, resp, "failed to list pipelines",
			goerr.V("project_id", projectID))
	}
	if len(pipelines) == 0 {
		return nil, nil
	}
	return pipelines[0], nil
}

func (c *client) PipelinesForCommit(ctx context.Context, projectID int, sha string) ([]*gitlab.PipelineInfo, error) {
	pipelines, resp, err := c.gl.Pipelines.ListProjectPipelines(projectID,
		&gitlab.ListProjectPipelinesOptions{
			SHA:     gitlab.Ptr(sha),
			OrderBy: gitlab.Ptr("id"),
			Sort:    gitlab.Ptr("desc"),
		}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, wrapErr(err, resp, "failed to list pipelines for commit",
			goerr.V("project_id", projectID), goerr.V("sha", sha))
	}
	return pipelines, nil
}

func (c *client) ListPipelineJobs(ctx context.Context, projectID, pipelineID int) ([]*gitlab.Job, error) {
	opt := &gitlab.ListJobsOptions{
		ListOptions: gitlab.ListOptions{PerPage: 100},
	}
	var all []*gitlab.Job
	for {
		jobs, resp, err := c.gl.Jobs.ListPipelineJobs(projectID, pipelineID, opt,
			gitlab.WithContext(ctx))
		if err != nil {
			return nil, wrapErr(err, resp, "failed to list pipeline jobs",
				goerr.V("project_id", projectID), goerr.V("pipeline_id", pipelineID))
		}
		all = append(all, jobs...)
		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}
	return all, nil
}
