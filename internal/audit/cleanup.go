package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/boardman/internal/repository"
)

// DefaultRetentionDays は監査ログの既定保持日数。
const DefaultRetentionDays = 90

// CleanupMetrics はクリーンアップジョブのメトリクス記録インターフェース。nil許容。
type CleanupMetrics interface {
	RecordAuditCleanupDeleted(count int64)
}

// CleanupJob は保持期間を超過した監査ログの自動削除ジョブ。
// 日次実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type CleanupJob struct {
	auditRepo     repository.AuditLogRepository
	logger        *slog.Logger
	metrics       CleanupMetrics
	RetentionDays int
}

// NewCleanupJob は新しいCleanupJobを生成する。metricsはnilでもよい。
func NewCleanupJob(auditRepo repository.AuditLogRepository, logger *slog.Logger, metrics CleanupMetrics) *CleanupJob {
	return &CleanupJob{
		auditRepo:     auditRepo,
		logger:        logger,
		metrics:       metrics,
		RetentionDays: DefaultRetentionDays,
	}
}

// Run は保持期間を超過した監査ログを削除する。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	deleted, err := j.auditRepo.DeleteOlderThan(ctx, j.RetentionDays)
	if err != nil {
		j.logger.Error("監査ログクリーンアップジョブの実行に失敗しました",
			slog.String("error", err.Error()),
			slog.Int("retention_days", j.RetentionDays),
		)
		return fmt.Errorf("監査ログクリーンアップの実行に失敗: %w", err)
	}

	if j.metrics != nil {
		j.metrics.RecordAuditCleanupDeleted(deleted)
	}

	j.logger.Info("監査ログクリーンアップジョブが完了しました",
		slog.Int64("deleted_count", deleted),
		slog.Int("retention_days", j.RetentionDays),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return nil
}
