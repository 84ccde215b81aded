package usecase

import (
	"context"
	"log/slog"

	"github.com/classtools/classlab/pkg/domain/model"
	"github.com/classtools/classlab/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Accounts checks which roster logins exist on the GitLab instance.
// Missing accounts are warnings, not failures: the command is a health
// check run before the semester starts.
func (b *Batch) Accounts(ctx context.Context) (model.AccountsSummary, *model.BatchResult) {
	logger := ctxlog.From(ctx)
	summary := model.AccountsSummary{}
	result := &model.BatchResult{}

	for _, row := range b.roster.Rows {
		label := row.Get(b.loginColumn)
		summary.Total++

		_, err := b.resolveUser(ctx, row)
		if err != nil {
			if goerr.HasTag(err, types.ErrTagNotFound) {
				logger.Warn("User not found", slog.String("login", label))
				summary.NotFound++
				result.Outcomes = append(result.Outcomes, model.RowOutcome{Label: label, Row: row})
				continue
			}
			logger.Error("Failed to look up user",
				slog.String("login", label), slog.Any("error", err))
			result.Outcomes = append(result.Outcomes, model.RowOutcome{Label: label, Row: row, Err: err})
			continue
		}

		result.Outcomes = append(result.Outcomes, model.RowOutcome{Label: label, Row: row})
	}

	return summary, result
}
