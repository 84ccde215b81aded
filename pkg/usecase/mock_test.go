package usecase_test

import (
	"context"
	"time"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	"github.com/classtools/classlab/pkg/domain/interfaces"
)

// fakeClient implements interfaces.GitLabClient with overridable
// function fields. Unset operations succeed with zero values.
type fakeClient struct {
	getProject         func(ctx context.Context, path string) (*gitlab.Project, error)
	forkProject        func(ctx context.Context, sourceID int, namespace, path, name string) (*gitlab.Project, error)
	deleteForkRelation func(ctx context.Context, projectID int) error
	protectBranch      func(ctx context.Context, projectID int, branch string, push, merge gitlab.AccessLevelValue) error
	unprotectBranch    func(ctx context.Context, projectID int, branch string) error
	protectTag         func(ctx context.Context, projectID int, tag string, create gitlab.AccessLevelValue) error
	unprotectTag       func(ctx context.Context, projectID int, tag string) error
	findUser           func(ctx context.Context, username string) (*gitlab.User, error)
	addMember          func(ctx context.Context, projectID, userID int, level gitlab.AccessLevelValue) error
	editMember         func(ctx context.Context, projectID, userID int, level gitlab.AccessLevelValue) error
	removeMember       func(ctx context.Context, projectID, userID int) error
	listCommits        func(ctx context.Context, projectID int, ref string, until time.Time) ([]*gitlab.Commit, error)
	getCommit          func(ctx context.Context, projectID int, sha string) (*gitlab.Commit, error)
	getFileRaw         func(ctx context.Context, projectID int, filePath, ref string) ([]byte, error)
	putFile            func(ctx context.Context, projectID int, filePath, branch, message string, content []byte, overwrite bool) error
	listTags           func(ctx context.Context, projectID int) ([]*gitlab.Tag, error)
	latestPipeline     func(ctx context.Context, projectID int) (*gitlab.PipelineInfo, error)
	pipelinesForCommit func(ctx context.Context, projectID int, sha string) ([]*gitlab.PipelineInfo, error)
	listPipelineJobs   func(ctx context.Context, projectID, pipelineID int) ([]*gitlab.Job, error)
}

var _ interfaces.GitLabClient = (*fakeClient)(nil)

func (f *fakeClient) GetProject(ctx context.Context, path string) (*gitlab.Project, error) {
	if f.getProject != nil {
		return f.getProject(ctx, path)
	}
	return &gitlab.Project{ID: 1, PathWithNamespace: path, DefaultBranch: "main"}, nil
}

func (f *fakeClient) ForkProject(ctx context.Context, sourceID int, namespace, path, name string) (*gitlab.Project, error) {
	if f.forkProject != nil {
		return f.forkProject(ctx, sourceID, namespace, path, name)
	}
	return &gitlab.Project{ID: 100, PathWithNamespace: namespace + "/" + path}, nil
}

func (f *fakeClient) DeleteForkRelation(ctx context.Context, projectID int) error {
	if f.deleteForkRelation != nil {
		return f.deleteForkRelation(ctx, projectID)
	}
	return nil
}

func (f *fakeClient) ProtectBranch(ctx context.Context, projectID int, branch string, push, merge gitlab.AccessLevelValue) error {
	if f.protectBranch != nil {
		return f.protectBranch(ctx, projectID, branch, push, merge)
	}
	return nil
}

func (f *fakeClient) UnprotectBranch(ctx context.Context, projectID int, branch string) error {
	if f.unprotectBranch != nil {
		return f.unprotectBranch(ctx, projectID, branch)
	}
	return nil
}

func (f *fakeClient) ProtectTag(ctx context.Context, projectID int, tag string, create gitlab.AccessLevelValue) error {
	if f.protectTag != nil {
		return f.protectTag(ctx, projectID, tag, create)
	}
	return nil
}

func (f *fakeClient) UnprotectTag(ctx context.Context, projectID int, tag string) error {
	if f.unprotectTag != nil {
		return f.unprotectTag(ctx, projectID, tag)
	}
	return nil
}

func (f *fakeClient) FindUser(ctx context.Context, username string) (*gitlab.User, error) {
	if f.findUser != nil {
		return f.findUser(ctx, username)
	}
	return &gitlab.User{ID: 7, Username: username}, nil
}

func (f *fakeClient) AddMember(ctx context.Context, projectID, userID int, level gitlab.AccessLevelValue) error {
	if f.addMember != nil {
		return f.addMember(ctx, projectID, userID, level)
	}
	return nil
}

func (f *fakeClient) EditMember(ctx context.Context, projectID, userID int, level gitlab.AccessLevelValue) error {
	if f.editMember != nil {
		return f.editMember(ctx, projectID, userID, level)
	}
	return nil
}

func (f *fakeClient) RemoveMember(ctx context.Context, projectID, userID int) error {
	if f.removeMember != nil {
		return f.removeMember(ctx, projectID, userID)
	}
	return nil
}

func (f *fakeClient) ListCommits(ctx context.Context, projectID int, ref string, until time.Time) ([]*gitlab.Commit, error) {
	if f.listCommits != nil {
		return f.listCommits(ctx, projectID, ref, until)
	}
	return nil, nil
}

func (f *fakeClient) GetCommit(ctx context.Context, projectID int, sha string) (*gitlab.Commit, error) {
	if f.getCommit != nil {
		return f.getCommit(ctx, projectID, sha)
	}
	return &gitlab.Commit{ID: sha}, nil
}

func (f *fakeClient) GetFileRaw(ctx context.Context, projectID int, filePath, ref string) ([]byte, error) {
	if f.getFileRaw != nil {
		return f.getFileRaw(ctx, projectID, filePath, ref)
	}
	return nil, nil
}

func (f *fakeClient) PutFile(ctx context.Context, projectID int, filePath, branch, message string, content []byte, overwrite bool) error {
	if f.putFile != nil {
		return f.putFile(ctx, projectID, filePath, branch, message, content, overwrite)
	}
	return nil
}

func (f *fakeClient) ListTags(ctx context.Context, projectID int) ([]*gitlab.Tag, error) {
	if f.listTags != nil {
		return f.listTags(ctx, projectID)
	}
	return nil, nil
}

func (f *fakeClient) LatestPipeline(ctx context.Context, projectID int) (*gitlab.PipelineInfo, error) {
	if f.latestPipeline != nil {
		return f.latestPipeline(ctx, projectID)
	}
	return nil, nil
}

func (f *fakeClient) PipelinesForCommit(ctx context.Context, projectID int, sha string) ([]*gitlab.PipelineInfo, error) {
	if f.pipelinesForCommit != nil {
		return f.pipelinesForCommit(ctx, projectID, sha)
	}
	return nil, nil
}

func (f *fakeClient) ListPipelineJobs(ctx context.Context, projectID, pipelineID int) ([]*gitlab.Job, error) {
	if f.listPipelineJobs != nil {
		return f.listPipelineJobs(ctx, projectID, pipelineID)
	}
	return nil, nil
}
