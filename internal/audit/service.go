// Package audit は変更操作の監査ログ書き込みと参照を提供する。
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/boardman/internal/model"
	"github.com/hitoshi/boardman/internal/repository"
)

// defaultPageSize は監査ログ一覧の既定ページサイズ。
const defaultPageSize = 20

// Service は監査ログのサービス層。
// 全変更ハンドラーが成功時にWriteを呼び、エントリは不変として扱われる。
type Service struct {
	auditRepo repository.AuditLogRepository
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(auditRepo repository.AuditLogRepository) *Service {
	return &Service{
		auditRepo: auditRepo,
		now:       time.Now,
	}
}

// Write は操作主体と対象エンティティから監査ログエントリを追記する。
// EntityTitleは操作時点のタイトルのスナップショットとして保存される。
func (s *Service) Write(ctx context.Context, actor model.Actor, entityType model.EntityType, entityID, entityTitle string, auditAction model.AuditAction) error {
	entry := &model.AuditLog{
		ID:          uuid.NewString(),
		OrgID:       actor.OrgID,
		UserID:      actor.UserID,
		EntityID:    entityID,
		EntityType:  entityType,
		EntityTitle: entityTitle,
		Action:      auditAction,
		CreatedAt:   s.now(),
	}

	if err := s.auditRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("監査ログの書き込みに失敗しました: %w", err)
	}
	return nil
}

// ListByOrg は組織の監査ログをページング付き・作成日時降順で返す。
// pageは1始まり。limitが0以下の場合は既定ページサイズを使用する。
func (s *Service) ListByOrg(ctx context.Context, actor model.Actor, page, limit int) ([]*model.AuditLog, error) {
	if actor.OrgID == "" {
		return nil, model.NewOrgNotSelectedError()
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	entries, err := s.auditRepo.ListByOrg(ctx, actor.OrgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("監査ログ一覧の取得に失敗しました: %w", err)
	}
	return entries, nil
}

// ListByEntity は組織スコープで特定エンティティの監査ログを返す。
// カードのアクティビティ表示用。
func (s *Service) ListByEntity(ctx context.Context, actor model.Actor, entityID string) ([]*model.AuditLog, error) {
	if actor.OrgID == "" {
		return nil, model.NewOrgNotSelectedError()
	}

	entries, err := s.auditRepo.ListByEntity(ctx, actor.OrgID, entityID)
	if err != nil {
		return nil, fmt.Errorf("エンティティ監査ログの取得に失敗しました: %w", err)
	}
	return entries, nil
}
