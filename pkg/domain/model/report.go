package model

import "time"

// PipelineJob is the per-job slice of a pipeline status report.
type PipelineJob struct {
	Status string `json:"status"`
	ID     int    `json:"id"`
	Name   string `json:"name"`
}

// PipelineStatus describes the most recent pipeline of one project.
// Status is "none" when the project has no pipelines at all.
type PipelineStatus struct {
	Status string        `json:"status"`
	ID     int           `json:"id,omitempty"`
	Commit string        `json:"commit,omitempty"`
	Jobs   []PipelineJob `json:"jobs,omitempty"`
}

// PipelineReport maps project path to its latest pipeline status.
type PipelineReport map[string]PipelineStatus

// Summary counts projects per overall pipeline status.
func (r PipelineReport) Summary() map[string]int {
	counts := map[string]int{}
	for _, status := range r {
		counts[status.Status]++
	}
	return counts
}

// CommitStat holds line statistics and authorship of one commit.
type CommitStat struct {
	Parents     []string  `json:"parents"`
	Subject     string    `json:"subject"`
	Additions   int       `json:"additions"`
	Deletions   int       `json:"deletions"`
	AuthorEmail string    `json:"author_email"`
	AuthorDate  time.Time `json:"author_date"`
}

// ProjectStats is the full commit history of one project with line stats.
type ProjectStats struct {
	Project string                `json:"project"`
	Commits map[string]CommitStat `json:"commits"`
}

// AccountsSummary counts roster logins with and without a GitLab account.
type AccountsSummary struct {
	Total    int
	NotFound int
}
