package app

import (
	"context"
	"time"

	"github.com/keywordforge/core/internal/models"
	pkgcron "github.com/keywordforge/core/internal/pkg/cron"
	"github.com/keywordforge/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	finishedTaskRetention = 24 * time.Hour

	// A keyword stuck in processing longer than this is assumed to have
	// lost its worker (crash, deploy) and is failed so it can be retried.
	staleProcessingAfter = 30 * time.Minute
)

func registerCronJobs(sched *pkgcron.Scheduler, db *gorm.DB, tasks *taskqueue.Service, logger *zap.Logger) {
	sched.Register(pkgcron.Job{
		Name:        "cleanup_finished_tasks",
		Description: "Remove completed and failed queue tasks older than the retention window",
		Interval:    time.Hour,
		Fn: func(ctx context.Context) error {
			cutoff := time.Now().Add(-finishedTaskRetention).UnixMilli()
			return tasks.DeleteFinished(ctx, cutoff)
		},
	})

	sched.Register(pkgcron.Job{
		Name:        "fail_stale_processing_keywords",
		Description: "Fail keywords stuck in processing so they become retryable",
		Interval:    10 * time.Minute,
		Fn: func(ctx context.Context) error {
			cutoff := time.Now().Add(-staleProcessingAfter)
			res := db.WithContext(ctx).
				Model(&models.KeywordModel{}).
				Where("status = ? AND updated_at < ?", models.KeywordProcessing, cutoff).
				Update("status", models.KeywordFailed)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				logger.Warn("failed stale processing keywords",
					zap.Int64("count", res.RowsAffected))
			}
			return nil
		},
	})
}
