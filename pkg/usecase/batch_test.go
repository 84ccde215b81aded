package usecase_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	"github.com/classtools/classlab/pkg/domain/model"
	"github.com/classtools/classlab/pkg/domain/types"
	"github.com/classtools/classlab/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
)

func testRoster(logins ...string) *model.Roster {
	r := &model.Roster{Columns: []string{"login"}}
	for _, login := range logins {
		r.Rows = append(r.Rows, model.Row{"login": login})
	}
	return r
}

func TestBatchContinuesPastRowFailure(t *testing.T) {
	gl := &fakeClient{
		getProject: func(ctx context.Context, path string) (*gitlab.Project, error) {
			if path == "course/bob" {
				return nil, goerr.New("project not found", goerr.T(types.ErrTagNotFound))
			}
			return &gitlab.Project{ID: 1, PathWithNamespace: path}, nil
		},
	}

	b := usecase.New(gl, testRoster("alice", "bob", "carol"), "login")
	result := b.UnprotectBranch(context.Background(), usecase.UnprotectBranchInput{
		ProjectTemplate: "course/{login}",
		Branch:          "main",
	})

	if got := len(result.Outcomes); got != 3 {
		t.Fatalf("len(Outcomes) = %d, want 3", got)
	}
	if result.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", result.Failed())
	}
	if !result.Outcomes[0].OK() || result.Outcomes[0].Label != "alice" {
		t.Errorf("row 1 (%s) should have succeeded", result.Outcomes[0].Label)
	}
	if result.Outcomes[1].OK() {
		t.Error("row 2 should have failed")
	}
	if !result.Outcomes[2].OK() || result.Outcomes[2].Label != "carol" {
		t.Errorf("row 3 (%s) should have succeeded", result.Outcomes[2].Label)
	}

	if err := usecase.Err(result); err == nil {
		t.Error("Err() = nil for a batch with failures, want error")
	}
}

func TestBatchErrNilWhenAllSucceed(t *testing.T) {
	b := usecase.New(&fakeClient{}, testRoster("alice"), "login")
	result := b.UnprotectBranch(context.Background(), usecase.UnprotectBranchInput{
		ProjectTemplate: "course/{login}",
		Branch:          "main",
	})
	if err := usecase.Err(result); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
}

func TestBatchTemplateErrorIsRowLevel(t *testing.T) {
	b := usecase.New(&fakeClient{}, testRoster("alice", "bob"), "login")
	result := b.UnprotectBranch(context.Background(), usecase.UnprotectBranchInput{
		ProjectTemplate: "course/{login}-{missing}",
		Branch:          "main",
	})

	if got := len(result.Outcomes); got != 2 {
		t.Fatalf("len(Outcomes) = %d, want 2", got)
	}
	for i, o := range result.Outcomes {
		if o.OK() {
			t.Errorf("row %d should have failed on template expansion", i+1)
		}
		if !goerr.HasTag(o.Err, types.ErrTagTemplate) {
			t.Errorf("row %d error %v is missing the template tag", i+1, o.Err)
		}
	}
}

func TestBatchDeduplicatesProjects(t *testing.T) {
	var resolved []string
	gl := &fakeClient{
		getProject: func(ctx context.Context, path string) (*gitlab.Project, error) {
			resolved = append(resolved, path)
			return &gitlab.Project{ID: 1, PathWithNamespace: path}, nil
		},
	}

	// Both rows map to the shared team project.
	roster := &model.Roster{
		Columns: []string{"login", "team"},
		Rows: []model.Row{
			{"login": "alice", "team": "red"},
			{"login": "bob", "team": "red"},
		},
	}

	b := usecase.New(gl, roster, "login")
	b.ProtectBranch(context.Background(), usecase.ProtectBranchInput{
		ProjectTemplate: "course/team-{team}",
		Branch:          "main",
		PushLevel:       gitlab.MaintainerPermissions,
		MergeLevel:      gitlab.DeveloperPermissions,
	})

	if len(resolved) != 1 {
		t.Errorf("project resolved %d times, want 1 (deduplicated)", len(resolved))
	}
}

func TestAddMemberUpdatesExistingMember(t *testing.T) {
	var edits int
	gl := &fakeClient{
		addMember: func(ctx context.Context, projectID, userID int, level gitlab.AccessLevelValue) error {
			return goerr.New("member exists", goerr.T(types.ErrTagConflict))
		},
		editMember: func(ctx context.Context, projectID, userID int, level gitlab.AccessLevelValue) error {
			edits++
			if level != gitlab.DeveloperPermissions {
				t.Errorf("EditMember level = %d, want developer", level)
			}
			return nil
		},
	}

	b := usecase.New(gl, testRoster("alice"), "login")
	result := b.AddMember(context.Background(), usecase.AddMemberInput{
		ProjectTemplate: "course/{login}",
		Level:           gitlab.DeveloperPermissions,
	})

	if result.Failed() != 0 {
		t.Errorf("Failed() = %d, want 0 (conflict must be absorbed)", result.Failed())
	}
	if edits != 1 {
		t.Errorf("EditMember called %d times, want 1", edits)
	}
}

func TestAddMemberSkipsUnknownLogin(t *testing.T) {
	gl := &fakeClient{
		findUser: func(ctx context.Context, username string) (*gitlab.User, error) {
			return nil, goerr.New("user not found", goerr.T(types.ErrTagNotFound))
		},
		addMember: func(ctx context.Context, projectID, userID int, level gitlab.AccessLevelValue) error {
			t.Error("AddMember must not be called for an unknown login")
			return nil
		},
	}

	b := usecase.New(gl, testRoster("ghost"), "login")
	result := b.AddMember(context.Background(), usecase.AddMemberInput{
		ProjectTemplate: "course/{login}",
		Level:           gitlab.DeveloperPermissions,
	})

	if result.Failed() != 0 {
		t.Errorf("Failed() = %d, want 0 (missing account is a skip, not a failure)", result.Failed())
	}
}

func TestRemoveMemberNonMemberIsNoOp(t *testing.T) {
	gl := &fakeClient{
		removeMember: func(ctx context.Context, projectID, userID int) error {
			return goerr.New("not a member", goerr.T(types.ErrTagNotFound))
		},
	}

	b := usecase.New(gl, testRoster("alice"), "login")
	result := b.RemoveMember(context.Background(), usecase.RemoveMemberInput{
		ProjectTemplate: "course/{login}",
	})

	if result.Failed() != 0 {
		t.Errorf("Failed() = %d, want 0", result.Failed())
	}
}

func TestUnprotectBranchNotProtectedIsNoOp(t *testing.T) {
	gl := &fakeClient{
		unprotectBranch: func(ctx context.Context, projectID int, branch string) error {
			return goerr.New("no protected branch", goerr.T(types.ErrTagNotFound))
		},
	}

	b := usecase.New(gl, testRoster("alice"), "login")
	result := b.UnprotectBranch(context.Background(), usecase.UnprotectBranchInput{
		ProjectTemplate: "course/{login}",
		Branch:          "main",
	})

	if result.Failed() != 0 {
		t.Errorf("Failed() = %d, want 0", result.Failed())
	}
}

func TestProtectBranchReappliesOnConflict(t *testing.T) {
	var protects, unprotects int
	gl := &fakeClient{
		protectBranch: func(ctx context.Context, projectID int, branch string, push, merge gitlab.AccessLevelValue) error {
			protects++
			if protects == 1 {
				return goerr.New("already protected", goerr.T(types.ErrTagConflict))
			}
			return nil
		},
		unprotectBranch: func(ctx context.Context, projectID int, branch string) error {
			unprotects++
			return nil
		},
	}

	b := usecase.New(gl, testRoster("alice"), "login")
	result := b.ProtectBranch(context.Background(), usecase.ProtectBranchInput{
		ProjectTemplate: "course/{login}",
		Branch:          "main",
		PushLevel:       gitlab.MaintainerPermissions,
		MergeLevel:      gitlab.DeveloperPermissions,
	})

	if result.Failed() != 0 {
		t.Errorf("Failed() = %d, want 0", result.Failed())
	}
	if protects != 2 || unprotects != 1 {
		t.Errorf("protect/unprotect calls = %d/%d, want 2/1", protects, unprotects)
	}
}

func TestForkExistingDestinationIsSkip(t *testing.T) {
	gl := &fakeClient{
		forkProject: func(ctx context.Context, sourceID int, namespace, path, name string) (*gitlab.Project, error) {
			return nil, goerr.New("path already taken", goerr.T(types.ErrTagConflict))
		},
		getProject: func(ctx context.Context, path string) (*gitlab.Project, error) {
			return &gitlab.Project{ID: 5, PathWithNamespace: path, EmptyRepo: false}, nil
		},
	}

	b := usecase.New(gl, testRoster("alice"), "login")
	result, err := b.Fork(context.Background(), usecase.ForkInput{
		From:       "course/upstream",
		ToTemplate: "course/student-{login}",
	})
	if err != nil {
		t.Fatalf("Fork() unexpected error: %v", err)
	}
	if result.Failed() != 0 {
		t.Errorf("Failed() = %d, want 0 (existing fork is a skip)", result.Failed())
	}
}

func TestForkTargetWithoutNamespace(t *testing.T) {
	var gotNamespace, gotPath string
	gl := &fakeClient{
		forkProject: func(ctx context.Context, sourceID int, namespace, path, name string) (*gitlab.Project, error) {
			gotNamespace = namespace
			gotPath = path
			return &gitlab.Project{ID: 5, PathWithNamespace: path, EmptyRepo: false}, nil
		},
	}

	b := usecase.New(gl, testRoster("alice"), "login")
	result, err := b.Fork(context.Background(), usecase.ForkInput{
		From:       "course/upstream",
		ToTemplate: "student-{login}",
	})
	if err != nil {
		t.Fatalf("Fork() unexpected error: %v", err)
	}
	if result.Failed() != 0 {
		t.Fatalf("Failed() = %d, want 0", result.Failed())
	}
	if gotNamespace != "" {
		t.Errorf("namespace = %q, want empty for a slash-less target", gotNamespace)
	}
	if gotPath != "student-alice" {
		t.Errorf("path = %q, want student-alice", gotPath)
	}
}

func TestDeadlineReportWritesHeaderAndRows(t *testing.T) {
	deadline := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	gl := &fakeClient{
		listCommits: func(ctx context.Context, projectID int, ref string, until time.Time) ([]*gitlab.Commit, error) {
			return []*gitlab.Commit{commitAt("sha-1234", "alice@s.edu", deadline.Add(-time.Hour))}, nil
		},
	}

	var out bytes.Buffer
	b := usecase.New(gl, testRoster("alice", "bob"), "login")
	result, err := b.DeadlineReport(context.Background(), usecase.DeadlineReportInput{
		ProjectTemplate: "course/{login}",
		Branch:          "main",
		Deadline:        deadline,
		Header:          "login,commit",
		RowFormat:       "{login},{commit.sha}",
		Output:          &out,
	})
	if err != nil {
		t.Fatalf("DeadlineReport() unexpected error: %v", err)
	}
	if result.Failed() != 0 {
		t.Fatalf("Failed() = %d, want 0", result.Failed())
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	want := []string{"login,commit", "alice,sha-1234", "bob,sha-1234"}
	if len(lines) != len(want) {
		t.Fatalf("output has %d lines, want %d: %q", len(lines), len(want), out.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestDryRunDoesNotMutate(t *testing.T) {
	gl := &fakeClient{
		addMember: func(ctx context.Context, projectID, userID int, level gitlab.AccessLevelValue) error {
			t.Error("AddMember must not be called in dry-run mode")
			return nil
		},
	}

	b := usecase.New(gl, testRoster("alice"), "login", usecase.WithDryRun(true))
	result := b.AddMember(context.Background(), usecase.AddMemberInput{
		ProjectTemplate: "course/{login}",
		Level:           gitlab.DeveloperPermissions,
	})

	if result.Failed() != 0 {
		t.Errorf("Failed() = %d, want 0", result.Failed())
	}
}
