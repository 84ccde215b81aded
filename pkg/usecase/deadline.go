package usecase

import (
	"context"
	"regexp"
	"time"

	"github.com/classtools/classlab/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// CommitFilter reports whether a commit may be selected by the deadline
// scan.
type CommitFilter func(*gitlab.Commit) bool

// AcceptAll is the filter used when no author exclusion is configured.
func AcceptAll(*gitlab.Commit) bool { return true }

// ExcludeAuthors builds a filter that rejects commits whose author
// e-mail fully matches the given pattern. Used to skip commits pushed by
// course automation when picking a student's submission.
func ExcludeAuthors(pattern string) (CommitFilter, error) {
	if pattern == "" {
		return AcceptAll, nil
	}
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, goerr.Wrap(err, "invalid author exclusion pattern",
			goerr.T(types.ErrTagConfig), goerr.V("pattern", pattern))
	}
	return func(c *gitlab.Commit) bool {
		return !re.MatchString(c.AuthorEmail)
	}, nil
}

// ParseDeadline interprets the --deadline flag. The literal "now" (and
// an empty string) resolve to the given reference time, so that one
// batch run uses a single cutoff for every row.
func ParseDeadline(value string, now time.Time) (time.Time, error) {
	if value == "" || value == "now" {
		return now, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, goerr.New("invalid deadline timestamp",
		goerr.T(types.ErrTagConfig), goerr.V("deadline", value))
}

func commitTime(c *gitlab.Commit) time.Time {
	switch {
	case c.CommittedDate != nil:
		return *c.CommittedDate
	case c.CreatedAt != nil:
		return *c.CreatedAt
	case c.AuthoredDate != nil:
		return *c.AuthoredDate
	default:
		return time.Time{}
	}
}

// PickCommit selects the submission commit: the first commit in API
// order (newest first) whose timestamp is at or before the deadline and
// that passes the filter. Commits sharing a timestamp keep API order, so
// the selection is deterministic for a fixed history.
func PickCommit(commits []*gitlab.Commit, deadline time.Time, filter CommitFilter) (*gitlab.Commit, error) {
	if filter == nil {
		filter = AcceptAll
	}
	for _, c := range commits {
		if commitTime(c).After(deadline) {
			continue
		}
		if !filter(c) {
			continue
		}
		return c, nil
	}
	return nil, goerr.New("no eligible commit before deadline",
		goerr.T(types.ErrTagNoCommit), goerr.V("deadline", deadline))
}

// ResolveDeadlineCommit finds the commit a deadline-based action should
// operate on. When preferTag names an existing tag whose commit is at or
// before the deadline, the tagged commit wins over the branch scan.
func (b *Batch) ResolveDeadlineCommit(ctx context.Context, projectID int, branch string, deadline time.Time, filter CommitFilter, preferTag string) (*gitlab.Commit, error) {
	if preferTag != "" {
		tags, err := b.gl.ListTags(ctx, projectID)
		if err != nil {
			return nil, err
		}
		for _, tag := range tags {
			if tag.Name != preferTag || tag.Commit == nil {
				continue
			}
			commit, err := b.gl.GetCommit(ctx, projectID, tag.Commit.ID)
			if err != nil {
				return nil, err
			}
			if !commitTime(commit).After(deadline) {
				return commit, nil
			}
			// Tag is after the deadline, fall back to the branch scan.
			break
		}
	}

	commits, err := b.gl.ListCommits(ctx, projectID, branch, deadline)
	if err != nil {
		return nil, err
	}
	return PickCommit(commits, deadline, filter)
}
