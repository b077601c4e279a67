// Package card はリスト内カードのドメインロジックを提供する。
package card

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/boardman/internal/model"
	"github.com/hitoshi/boardman/internal/repository"
)

// AuditWriter は監査ログ書き込みのインターフェース。
type AuditWriter interface {
	Write(ctx context.Context, actor model.Actor, entityType model.EntityType, entityID, entityTitle string, auditAction model.AuditAction) error
}

// MetricsRecorder はカード操作のメトリクス記録インターフェース。nil許容。
type MetricsRecorder interface {
	RecordReorder(entity, outcome string)
}

// Service はカード管理のサービス層。
// 全操作はlists→boards経由の組織スコープで実行される。
type Service struct {
	cardRepo  repository.CardRepository
	listRepo  repository.ListRepository
	sanitizer DescriptionSanitizer
	audit     AuditWriter
	metrics   MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(cardRepo repository.CardRepository, listRepo repository.ListRepository, sanitizer DescriptionSanitizer, audit AuditWriter, metrics MetricsRecorder) *Service {
	return &Service{
		cardRepo:  cardRepo,
		listRepo:  listRepo,
		sanitizer: sanitizer,
		audit:     audit,
		metrics:   metrics,
	}
}

// Create はリストの末尾（max position + 1）にカードを作成する。
func (s *Service) Create(ctx context.Context, actor model.Actor, listID, title string) (*model.Card, error) {
	if actor.UserID == "" || actor.OrgID == "" {
		return nil, model.NewUnauthorizedError()
	}

	list, err := s.listRepo.FindByIDAndOrg(ctx, listID, actor.OrgID)
	if err != nil {
		return nil, fmt.Errorf("リストの取得に失敗しました: %w", err)
	}
	if list == nil {
		return nil, model.NewListNotFoundError(listID)
	}

	pos, err := s.cardRepo.NextPosition(ctx, listID)
	if err != nil {
		slog.Error("カード位置の採番に失敗しました",
			slog.String("list_id", listID),
			slog.String("error", err.Error()),
		)
		return nil, model.NewCreateFailedError()
	}

	now := time.Now()
	card := &model.Card{
		ID:        uuid.NewString(),
		ListID:    listID,
		Title:     title,
		Position:  pos,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.cardRepo.Create(ctx, card); err != nil {
		slog.Error("カードの作成に失敗しました",
			slog.String("list_id", listID),
			slog.String("error", err.Error()),
		)
		return nil, model.NewCreateFailedError()
	}

	if err := s.audit.Write(ctx, actor, model.EntityTypeCard, card.ID, card.Title, model.AuditActionCreate); err != nil {
		return nil, model.NewCreateFailedError()
	}

	return card, nil
}

// UpdateInput はカード部分更新の入力。nilのフィールドは変更しない。
type UpdateInput struct {
	Title       *string
	Description *string
}

// Update はカードを部分更新する。
// 説明文は保存前にサニタイズされる。
func (s *Service) Update(ctx context.Context, actor model.Actor, cardID string, in UpdateInput) (*model.Card, error) {
	if actor.UserID == "" || actor.OrgID == "" {
		return nil, model.NewUnauthorizedError()
	}

	if in.Description != nil {
		cleaned := s.sanitizer.Sanitize(*in.Description)
		in.Description = &cleaned
	}

	card, err := s.cardRepo.Update(ctx, cardID, actor.OrgID, in.Title, in.Description)
	if err != nil {
		slog.Error("カードの更新に失敗しました",
			slog.String("card_id", cardID),
			slog.String("error", err.Error()),
		)
		return nil, model.NewUpdateFailedError()
	}
	if card == nil {
		return nil, model.NewCardNotFoundError(cardID)
	}

	if err := s.audit.Write(ctx, actor, model.EntityTypeCard, card.ID, card.Title, model.AuditActionUpdate); err != nil {
		return nil, model.NewUpdateFailedError()
	}

	return card, nil
}

// Delete はカードを削除する。
func (s *Service) Delete(ctx context.Context, actor model.Actor, cardID string) (*model.Card, error) {
	if actor.UserID == "" || actor.OrgID == "" {
		return nil, model.NewUnauthorizedError()
	}

	card, err := s.cardRepo.DeleteByIDAndOrg(ctx, cardID, actor.OrgID)
	if err != nil {
		slog.Error("カードの削除に失敗しました",
			slog.String("card_id", cardID),
			slog.String("error", err.Error()),
		)
		return nil, model.NewDeleteFailedError()
	}
	if card == nil {
		return nil, model.NewCardNotFoundError(cardID)
	}

	if err := s.audit.Write(ctx, actor, model.EntityTypeCard, card.ID, card.Title, model.AuditActionDelete); err != nil {
		return nil, model.NewDeleteFailedError()
	}

	return card, nil
}

// Get は組織スコープでカードを取得する。
func (s *Service) Get(ctx context.Context, actor model.Actor, cardID string) (*model.Card, error) {
	if actor.UserID == "" || actor.OrgID == "" {
		return nil, model.NewUnauthorizedError()
	}

	card, err := s.cardRepo.FindByIDAndOrg(ctx, cardID, actor.OrgID)
	if err != nil {
		return nil, fmt.Errorf("カードの取得に失敗しました: %w", err)
	}
	if card == nil {
		return nil, model.NewCardNotFoundError(cardID)
	}
	return card, nil
}

// ListByList はリスト内のカード一覧をposition昇順で返す。
func (s *Service) ListByList(ctx context.Context, actor model.Actor, listID string) ([]*model.Card, error) {
	if actor.UserID == "" || actor.OrgID == "" {
		return nil, model.NewUnauthorizedError()
	}

	list, err := s.listRepo.FindByIDAndOrg(ctx, listID, actor.OrgID)
	if err != nil {
		return nil, fmt.Errorf("リストの取得に失敗しました: %w", err)
	}
	if list == nil {
		return nil, model.NewListNotFoundError(listID)
	}

	cards, err := s.cardRepo.ListByList(ctx, listID, actor.OrgID)
	if err != nil {
		return nil, fmt.Errorf("カード一覧の取得に失敗しました: %w", err)
	}
	return cards, nil
}

// Reorder はドラッグ&ドロップ後のカード並び順バッチを適用する。
// リストをまたぐ移動を含み、バッチ内の1件でも対象が存在しない場合は
// 全件ロールバックされる。
func (s *Service) Reorder(ctx context.Context, actor model.Actor, boardID string, items []repository.CardReorderItem) error {
	if actor.UserID == "" || actor.OrgID == "" {
		return model.NewUnauthorizedError()
	}

	if err := s.cardRepo.Reorder(ctx, boardID, actor.OrgID, items); err != nil {
		slog.Error("カードの並べ替えに失敗しました",
			slog.String("board_id", boardID),
			slog.Int("item_count", len(items)),
			slog.String("error", err.Error()),
		)
		if s.metrics != nil {
			s.metrics.RecordReorder("card", "failure")
		}
		return model.NewReorderFailedError()
	}

	if s.metrics != nil {
		s.metrics.RecordReorder("card", "success")
	}
	return nil
}
