// Package list はボード内リストのドメインロジックを提供する。
package list

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/boardman/internal/model"
	"github.com/hitoshi/boardman/internal/repository"
)

// copySuffix は複製リストのタイトルに付与する接尾辞。
const copySuffix = " - コピー"

// AuditWriter は監査ログ書き込みのインターフェース。
type AuditWriter interface {
	Write(ctx context.Context, actor model.Actor, entityType model.EntityType, entityID, entityTitle string, auditAction model.AuditAction) error
}

// MetricsRecorder はリスト操作のメトリクス記録インターフェース。nil許容。
type MetricsRecorder interface {
	RecordReorder(entity, outcome string)
}

// Service はリスト管理のサービス層。
// 全操作はboards経由の組織スコープで実行され、boardIDの帰属確認を兼ねる。
type Service struct {
	listRepo  repository.ListRepository
	cardRepo  repository.CardRepository
	boardRepo repository.BoardRepository
	audit     AuditWriter
	metrics   MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(listRepo repository.ListRepository, cardRepo repository.CardRepository, boardRepo repository.BoardRepository, audit AuditWriter, metrics MetricsRecorder) *Service {
	return &Service{
		listRepo:  listRepo,
		cardRepo:  cardRepo,
		boardRepo: boardRepo,
		audit:     audit,
		metrics:   metrics,
	}
}

// Create はボードの末尾（max position + 1）にリストを作成する。
func (s *Service) Create(ctx context.Context, actor model.Actor, boardID, title string) (*model.List, error) {
	if actor.UserID == "" || actor.OrgID == "" {
		return nil, model.NewUnauthorizedError()
	}

	board, err := s.boardRepo.FindByIDAndOrg(ctx, boardID, actor.OrgID)
	if err != nil {
		return nil, fmt.Errorf("ボードの取得に失敗しました: %w", err)
	}
	if board == nil {
		return nil, model.NewBoardNotFoundError(boardID)
	}

	pos, err := s.listRepo.NextPosition(ctx, boardID)
	if err != nil {
		slog.Error("リスト位置の採番に失敗しました",
			slog.String("board_id", boardID),
			slog.String("error", err.Error()),
		)
		return nil, model.NewCreateFailedError()
	}

	now := time.Now()
	list := &model.List{
		ID:        uuid.NewString(),
		BoardID:   boardID,
		Title:     title,
		Position:  pos,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.listRepo.Create(ctx, list); err != nil {
		slog.Error("リストの作成に失敗しました",
			slog.String("board_id", boardID),
			slog.String("error", err.Error()),
		)
		return nil, model.NewCreateFailedError()
	}

	if err := s.audit.Write(ctx, actor, model.EntityTypeList, list.ID, list.Title, model.AuditActionCreate); err != nil {
		return nil, model.NewCreateFailedError()
	}

	return list, nil
}

// UpdateTitle はリストのタイトルを変更する。
func (s *Service) UpdateTitle(ctx context.Context, actor model.Actor, listID, title string) (*model.List, error) {
	if actor.UserID == "" || actor.OrgID == "" {
		return nil, model.NewUnauthorizedError()
	}

	list, err := s.listRepo.UpdateTitle(ctx, listID, actor.OrgID, title)
	if err != nil {
		slog.Error("リストタイトルの更新に失敗しました",
			slog.String("list_id", listID),
			slog.String("error", err.Error()),
		)
		return nil, model.NewUpdateFailedError()
	}
	if list == nil {
		return nil, model.NewListNotFoundError(listID)
	}

	if err := s.audit.Write(ctx, actor, model.EntityTypeList, list.ID, list.Title, model.AuditActionUpdate); err != nil {
		return nil, model.NewUpdateFailedError()
	}

	return list, nil
}

// Delete はリストを削除する。配下のカードも連動して削除される。
func (s *Service) Delete(ctx context.Context, actor model.Actor, listID string) (*model.List, error) {
	if actor.UserID == "" || actor.OrgID == "" {
		return nil, model.NewUnauthorizedError()
	}

	list, err := s.listRepo.DeleteByIDAndOrg(ctx, listID, actor.OrgID)
	if err != nil {
		slog.Error("リストの削除に失敗しました",
			slog.String("list_id", listID),
			slog.String("error", err.Error()),
		)
		return nil, model.NewDeleteFailedError()
	}
	if list == nil {
		return nil, model.NewListNotFoundError(listID)
	}

	if err := s.audit.Write(ctx, actor, model.EntityTypeList, list.ID, list.Title, model.AuditActionDelete); err != nil {
		return nil, model.NewDeleteFailedError()
	}

	return list, nil
}

// Copy はリストとその配下のカード群を複製する。
// 複製のタイトルは元タイトルに「 - コピー」を付与し、ボードの末尾に配置する。
// リストとカードは同一トランザクションで作成され、部分複製は発生しない。
func (s *Service) Copy(ctx context.Context, actor model.Actor, listID string) (*model.List, error) {
	if actor.UserID == "" || actor.OrgID == "" {
		return nil, model.NewUnauthorizedError()
	}

	src, err := s.listRepo.FindByIDAndOrg(ctx, listID, actor.OrgID)
	if err != nil {
		return nil, fmt.Errorf("リストの取得に失敗しました: %w", err)
	}
	if src == nil {
		return nil, model.NewListNotFoundError(listID)
	}

	srcCards, err := s.cardRepo.ListByList(ctx, listID, actor.OrgID)
	if err != nil {
		return nil, fmt.Errorf("カード一覧の取得に失敗しました: %w", err)
	}

	pos, err := s.listRepo.NextPosition(ctx, src.BoardID)
	if err != nil {
		slog.Error("リスト位置の採番に失敗しました",
			slog.String("board_id", src.BoardID),
			slog.String("error", err.Error()),
		)
		return nil, model.NewCopyFailedError()
	}

	now := time.Now()
	dst := &model.List{
		ID:        uuid.NewString(),
		BoardID:   src.BoardID,
		Title:     src.Title + copySuffix,
		Position:  pos,
		CreatedAt: now,
		UpdatedAt: now,
	}

	dstCards := make([]*model.Card, 0, len(srcCards))
	for _, c := range srcCards {
		dstCards = append(dstCards, &model.Card{
			ID:          uuid.NewString(),
			ListID:      dst.ID,
			Title:       c.Title,
			Description: c.Description,
			Position:    c.Position,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if err := s.listRepo.CreateWithCards(ctx, dst, dstCards); err != nil {
		slog.Error("リストの複製に失敗しました",
			slog.String("list_id", listID),
			slog.String("error", err.Error()),
		)
		return nil, model.NewCopyFailedError()
	}

	if err := s.audit.Write(ctx, actor, model.EntityTypeList, dst.ID, dst.Title, model.AuditActionCreate); err != nil {
		return nil, model.NewCopyFailedError()
	}

	return dst, nil
}

// Reorder はドラッグ&ドロップ後のリスト並び順バッチを適用する。
// バッチ内の1件でも対象が存在しない場合は全件ロールバックされる。
func (s *Service) Reorder(ctx context.Context, actor model.Actor, boardID string, items []repository.ReorderItem) error {
	if actor.UserID == "" || actor.OrgID == "" {
		return model.NewUnauthorizedError()
	}

	if err := s.listRepo.Reorder(ctx, boardID, actor.OrgID, items); err != nil {
		slog.Error("リストの並べ替えに失敗しました",
			slog.String("board_id", boardID),
			slog.Int("item_count", len(items)),
			slog.String("error", err.Error()),
		)
		if s.metrics != nil {
			s.metrics.RecordReorder("list", "failure")
		}
		return model.NewReorderFailedError()
	}

	if s.metrics != nil {
		s.metrics.RecordReorder("list", "success")
	}
	return nil
}

// ListByBoard はボード内のリスト一覧をposition昇順で返す。
func (s *Service) ListByBoard(ctx context.Context, actor model.Actor, boardID string) ([]*model.List, error) {
	if actor.UserID == "" || actor.OrgID == "" {
		return nil, model.NewUnauthorizedError()
	}

	board, err := s.boardRepo.FindByIDAndOrg(ctx, boardID, actor.OrgID)
	if err != nil {
		return nil, fmt.Errorf("ボードの取得に失敗しました: %w", err)
	}
	if board == nil {
		return nil, model.NewBoardNotFoundError(boardID)
	}

	lists, err := s.listRepo.ListByBoard(ctx, boardID, actor.OrgID)
	if err != nil {
		return nil, fmt.Errorf("リスト一覧の取得に失敗しました: %w", err)
	}
	return lists, nil
}
