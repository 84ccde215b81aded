package interfaces

import (
	"context"
	"time"

	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// GitLabClient defines the administrative operations classlab needs from
// a GitLab instance. Implementations map transport failures to retries
// and HTTP status codes to tagged errors; callers only see the tags.
type GitLabClient interface {
	// GetProject resolves a project by full path or numeric id.
	GetProject(ctx context.Context, path string) (*gitlab.Project, error)

	// ForkProject forks a project into the given namespace under the
	// given path/name. A conflict error means the target already exists.
	ForkProject(ctx context.Context, sourceID int, namespace, path, name string) (*gitlab.Project, error)

	// DeleteForkRelation removes the "forked from" link of a project.
	DeleteForkRelation(ctx context.Context, projectID int) error

	// ProtectBranch sets branch protection with the given access levels.
	// A conflict error means the branch is already protected.
	ProtectBranch(ctx context.Context, projectID int, branch string, push, merge gitlab.AccessLevelValue) error

	// UnprotectBranch removes branch protection.
	UnprotectBranch(ctx context.Context, projectID int, branch string) error

	// ProtectTag sets tag protection with the given create access level.
	ProtectTag(ctx context.Context, projectID int, tag string, create gitlab.AccessLevelValue) error

	// UnprotectTag removes tag protection.
	UnprotectTag(ctx context.Context, projectID int, tag string) error

	// FindUser resolves a username to a user, or a not-found error.
	FindUser(ctx context.Context, username string) (*gitlab.User, error)

	// AddMember adds a user to a project at the given access level.
	// A conflict error means the user is already a member.
	AddMember(ctx context.Context, projectID, userID int, level gitlab.AccessLevelValue) error

	// EditMember updates the access level of an existing member.
	EditMember(ctx context.Context, projectID, userID int, level gitlab.AccessLevelValue) error

	// RemoveMember removes a user from a project.
	RemoveMember(ctx context.Context, projectID, userID int) error

	// ListCommits returns the commits of a ref, newest first, limited to
	// those at or before until when until is non-zero. All pages are
	// fetched.
	ListCommits(ctx context.Context, projectID int, ref string, until time.Time) ([]*gitlab.Commit, error)

	// GetCommit fetches one commit including line statistics.
	GetCommit(ctx context.Context, projectID int, sha string) (*gitlab.Commit, error)

	// GetFileRaw fetches the raw content of a file at the given ref.
	GetFileRaw(ctx context.Context, projectID int, filePath, ref string) ([]byte, error)

	// PutFile creates the file on the branch, or updates it when it
	// already exists and overwrite is set. Returns a conflict error when
	// the file exists and overwrite is false.
	PutFile(ctx context.Context, projectID int, filePath, branch, message string, content []byte, overwrite bool) error

	// ListTags returns all tags of a project.
	ListTags(ctx context.Context, projectID int) ([]*gitlab.Tag, error)

	// LatestPipeline returns the most recent pipeline, or nil when the
	// project has none.
	LatestPipeline(ctx context.Context, projectID int) (*gitlab.PipelineInfo, error)

	// PipelinesForCommit returns the pipelines run for a commit, newest
	// first.
	PipelinesForCommit(ctx context.Context, projectID int, sha string) ([]*gitlab.PipelineInfo, error)

	// ListPipelineJobs returns the jobs of one pipeline.
	ListPipelineJobs(ctx context.Context, projectID, pipelineID int) ([]*gitlab.Job, error)
}
