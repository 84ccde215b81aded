package usecase_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	"github.com/classtools/classlab/pkg/domain/types"
	"github.com/classtools/classlab/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
)

func TestPutFile(t *testing.T) {
	localContent := []byte("# Assignment 1\n")

	tests := []struct {
		name          string
		remoteContent []byte // nil means the file does not exist yet
		forceCommit   bool
		onlyOnce      bool
		wantUpload    bool
		wantOverwrite bool
		wantRawCalls  int
	}{
		{
			name:          "identical content skips the upload",
			remoteContent: localContent,
			wantUpload:    false,
			wantRawCalls:  1,
		},
		{
			name:          "changed content is uploaded",
			remoteContent: []byte("old text\n"),
			wantUpload:    true,
			wantOverwrite: true,
			wantRawCalls:  1,
		},
		{
			name:          "existing file with once is not overwritten",
			remoteContent: []byte("old text\n"),
			onlyOnce:      true,
			wantUpload:    false,
			wantRawCalls:  1,
		},
		{
			name:          "missing file with once is uploaded",
			remoteContent: nil,
			onlyOnce:      true,
			wantUpload:    true,
			wantOverwrite: false,
			wantRawCalls:  1,
		},
		{
			name:          "force-commit uploads without a content check",
			remoteContent: localContent,
			forceCommit:   true,
			wantUpload:    true,
			wantOverwrite: true,
			wantRawCalls:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fromFile := filepath.Join(t.TempDir(), "assignment.md")
			if err := os.WriteFile(fromFile, localContent, 0644); err != nil {
				t.Fatal(err)
			}

			rawCalls := 0
			uploads := 0
			gotOverwrite := false
			gl := &fakeClient{
				getFileRaw: func(ctx context.Context, projectID int, filePath, ref string) ([]byte, error) {
					rawCalls++
					if tt.remoteContent == nil {
						return nil, goerr.New("file not found", goerr.T(types.ErrTagNotFound))
					}
					return tt.remoteContent, nil
				},
				putFile: func(ctx context.Context, projectID int, filePath, branch, message string, content []byte, overwrite bool) error {
					uploads++
					gotOverwrite = overwrite
					if filePath != "assignment.md" {
						t.Errorf("PutFile path = %q, want assignment.md", filePath)
					}
					if message != "Updating assignment.md" {
						t.Errorf("PutFile message = %q, want Updating assignment.md", message)
					}
					if string(content) != string(localContent) {
						t.Errorf("PutFile content = %q", content)
					}
					return nil
				},
			}

			b := usecase.New(gl, testRoster("alice"), "login")
			result := b.PutFile(context.Background(), usecase.PutFileInput{
				ProjectTemplate: "course/{login}",
				FromTemplate:    fromFile,
				ToTemplate:      "assignment.md",
				Branch:          "main",
				MessageTemplate: "Updating {target_filename}",
				ForceCommit:     tt.forceCommit,
				OnlyOnce:        tt.onlyOnce,
			})

			if result.Failed() != 0 {
				t.Fatalf("Failed() = %d, want 0", result.Failed())
			}
			if rawCalls != tt.wantRawCalls {
				t.Errorf("GetFileRaw calls = %d, want %d", rawCalls, tt.wantRawCalls)
			}
			wantUploads := 0
			if tt.wantUpload {
				wantUploads = 1
			}
			if uploads != wantUploads {
				t.Errorf("PutFile calls = %d, want %d", uploads, wantUploads)
			}
			if tt.wantUpload && gotOverwrite != tt.wantOverwrite {
				t.Errorf("overwrite = %v, want %v", gotOverwrite, tt.wantOverwrite)
			}
		})
	}
}

func TestPutFileDryRunDoesNotUpload(t *testing.T) {
	fromFile := filepath.Join(t.TempDir(), "assignment.md")
	if err := os.WriteFile(fromFile, []byte("text\n"), 0644); err != nil {
		t.Fatal(err)
	}

	gl := &fakeClient{
		getFileRaw: func(ctx context.Context, projectID int, filePath, ref string) ([]byte, error) {
			return nil, goerr.New("file not found", goerr.T(types.ErrTagNotFound))
		},
		putFile: func(ctx context.Context, projectID int, filePath, branch, message string, content []byte, overwrite bool) error {
			t.Error("PutFile must not be called in dry-run mode")
			return nil
		},
	}

	b := usecase.New(gl, testRoster("alice"), "login", usecase.WithDryRun(true))
	result := b.PutFile(context.Background(), usecase.PutFileInput{
		ProjectTemplate: "course/{login}",
		FromTemplate:    fromFile,
		ToTemplate:      "assignment.md",
		Branch:          "main",
		MessageTemplate: "Updating {target_filename}",
	})
	if result.Failed() != 0 {
		t.Fatalf("Failed() = %d, want 0", result.Failed())
	}
}

func TestGetFileDryRunWritesNothing(t *testing.T) {
	deadline := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	gl := &fakeClient{
		listCommits: func(ctx context.Context, projectID int, ref string, until time.Time) ([]*gitlab.Commit, error) {
			return []*gitlab.Commit{commitAt("sha-1", "alice@s.edu", deadline.Add(-time.Hour))}, nil
		},
		getFileRaw: func(ctx context.Context, projectID int, filePath, ref string) ([]byte, error) {
			return []byte("report text\n"), nil
		},
	}

	localFile := filepath.Join(t.TempDir(), "downloads", "alice.md")
	b := usecase.New(gl, testRoster("alice"), "login", usecase.WithDryRun(true))
	result := b.GetFile(context.Background(), usecase.GetFileInput{
		ProjectTemplate:    "course/{login}",
		RemoteFileTemplate: "report.md",
		LocalFileTemplate:  localFile,
		Branch:             "main",
		Deadline:           deadline,
	})

	if result.Failed() != 0 {
		t.Fatalf("Failed() = %d, want 0", result.Failed())
	}
	if _, err := os.Stat(localFile); !os.IsNotExist(err) {
		t.Errorf("local file must not be written in dry-run mode, stat err = %v", err)
	}
}
