package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures so that the batch runner can tell fatal
// configuration problems apart from per-row failures.
var (
	// ErrTagConfig marks invalid or missing instance configuration.
	// Always fatal, raised before any roster row is touched.
	ErrTagConfig = goerr.NewTag("config")

	// ErrTagRoster marks a malformed roster file. Fatal.
	ErrTagRoster = goerr.NewTag("roster")

	// ErrTagTemplate marks a template that references an unknown column
	// or is syntactically broken. Row-level.
	ErrTagTemplate = goerr.NewTag("template")

	// ErrTagNotFound maps HTTP 404 from the GitLab API.
	ErrTagNotFound = goerr.NewTag("not_found")

	// ErrTagForbidden maps HTTP 403 from the GitLab API.
	ErrTagForbidden = goerr.NewTag("forbidden")

	// ErrTagConflict maps HTTP 409 (and 304) from the GitLab API.
	// Idempotent actions absorb it; everything else reports it per row.
	ErrTagConflict = goerr.NewTag("conflict")

	// ErrTagNoCommit marks a deadline scan that found no eligible commit.
	ErrTagNoCommit = goerr.NewTag("no_commit")
)

// ErrPartialFailure is returned by commands when at least one roster row
// failed. main turns it into a nonzero exit code.
var ErrPartialFailure = goerr.New("some roster rows failed")
