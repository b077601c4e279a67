// Package board はボード管理のドメインロジックを提供する。
// 作成・削除はquota（フリープラン上限）とサブスクリプション状態を合成する、
// このシステムで最も判定の多いユースケース。
package board

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/boardman/internal/model"
	"github.com/hitoshi/boardman/internal/repository"
)

// QuotaKeeper はフリープラン利用カウンターのインターフェース。
// quota.Serviceの部分集合として定義する。
type QuotaKeeper interface {
	MaxFree() int
	HasAvailableCount(ctx context.Context, orgID string) (bool, error)
	IncrementAvailableCount(ctx context.Context, orgID string) error
	DecreaseAvailableCount(ctx context.Context, orgID string) error
}

// SubscriptionChecker はサブスクリプション有効性判定のインターフェース。
type SubscriptionChecker interface {
	Check(ctx context.Context, orgID string) (bool, error)
}

// AuditWriter は監査ログ書き込みのインターフェース。
type AuditWriter interface {
	Write(ctx context.Context, actor model.Actor, entityType model.EntityType, entityID, entityTitle string, auditAction model.AuditAction) error
}

// MetricsRecorder はボード操作のメトリクス記録インターフェース。nil許容。
type MetricsRecorder interface {
	RecordBoardCreated()
	RecordBoardDeleted()
	RecordQuotaDenied()
}

// Service はボード管理のサービス層。
type Service struct {
	boardRepo repository.BoardRepository
	quota     QuotaKeeper
	sub       SubscriptionChecker
	audit     AuditWriter
	metrics   MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilでもよい。
func NewService(boardRepo repository.BoardRepository, quota QuotaKeeper, sub SubscriptionChecker, audit AuditWriter, metrics MetricsRecorder) *Service {
	return &Service{
		boardRepo: boardRepo,
		quota:     quota,
		sub:       sub,
		audit:     audit,
		metrics:   metrics,
	}
}

// CreateInput はボード作成の入力。
// Imageは画像ピッカーが生成するパイプ区切り記述子。
type CreateInput struct {
	Title string
	Image string
}

// Create はボードを作成する。
//
// 判定順序: 認可 → quota/サブスクリプションゲート → 画像記述子パース →
// INSERT → （未購読時のみ）カウンター加算 → 監査ログ。
// INSERTが失敗した場合、カウンター加算と監査ログは一切実行されない。
// quotaの読み取りとカウンター加算は直列化されないため、同一組織への
// 同時作成で上限を僅かに超え得る（quotaパッケージのコメントを参照）。
func (s *Service) Create(ctx context.Context, actor model.Actor, in CreateInput) (*model.Board, error) {
	if actor.UserID == "" || actor.OrgID == "" {
		return nil, model.NewUnauthorizedError()
	}

	canCreate, err := s.quota.HasAvailableCount(ctx, actor.OrgID)
	if err != nil {
		return nil, fmt.Errorf("quotaの確認に失敗しました: %w", err)
	}
	isPro, err := s.sub.Check(ctx, actor.OrgID)
	if err != nil {
		return nil, fmt.Errorf("サブスクリプションの確認に失敗しました: %w", err)
	}

	if !canCreate && !isPro {
		if s.metrics != nil {
			s.metrics.RecordQuotaDenied()
		}
		return nil, model.NewQuotaExceededError(s.quota.MaxFree())
	}

	img, ok := model.ParseBoardImage(in.Image)
	if !ok {
		return nil, model.NewInvalidImageError()
	}

	now := time.Now()
	board := &model.Board{
		ID:        uuid.NewString(),
		OrgID:     actor.OrgID,
		Title:     in.Title,
		Image:     img,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.boardRepo.Create(ctx, board); err != nil {
		slog.Error("ボードの作成に失敗しました",
			slog.String("org_id", actor.OrgID),
			slog.String("error", err.Error()),
		)
		return nil, model.NewCreateFailedError()
	}

	// 購読中はカウンターに触れない。購読解除後に値が壊れるため。
	if !isPro {
		if err := s.quota.IncrementAvailableCount(ctx, actor.OrgID); err != nil {
			slog.Error("利用カウンターの加算に失敗しました",
				slog.String("org_id", actor.OrgID),
				slog.String("error", err.Error()),
			)
			return nil, model.NewCreateFailedError()
		}
	}

	if err := s.audit.Write(ctx, actor, model.EntityTypeBoard, board.ID, board.Title, model.AuditActionCreate); err != nil {
		slog.Error("監査ログの書き込みに失敗しました",
			slog.String("board_id", board.ID),
			slog.String("error", err.Error()),
		)
		return nil, model.NewCreateFailedError()
	}

	if s.metrics != nil {
		s.metrics.RecordBoardCreated()
	}

	return board, nil
}

// Delete はボードを削除し、削除後にUIが遷移すべきパスを返す。
// 他組織のボードIDを指定した場合は何も削除せずBOARD_NOT_FOUNDを返す。
// DELETEが失敗した場合、カウンター減算と監査ログは実行されない。
func (s *Service) Delete(ctx context.Context, actor model.Actor, boardID string) (string, error) {
	if actor.UserID == "" || actor.OrgID == "" {
		return "", model.NewUnauthorizedError()
	}

	isPro, err := s.sub.Check(ctx, actor.OrgID)
	if err != nil {
		return "", fmt.Errorf("サブスクリプションの確認に失敗しました: %w", err)
	}

	board, err := s.boardRepo.DeleteByIDAndOrg(ctx, boardID, actor.OrgID)
	if err != nil {
		slog.Error("ボードの削除に失敗しました",
			slog.String("board_id", boardID),
			slog.String("error", err.Error()),
		)
		return "", model.NewDeleteFailedError()
	}
	if board == nil {
		return "", model.NewBoardNotFoundError(boardID)
	}

	if !isPro {
		if err := s.quota.DecreaseAvailableCount(ctx, actor.OrgID); err != nil {
			slog.Error("利用カウンターの減算に失敗しました",
				slog.String("org_id", actor.OrgID),
				slog.String("error", err.Error()),
			)
			return "", model.NewDeleteFailedError()
		}
	}

	if err := s.audit.Write(ctx, actor, model.EntityTypeBoard, board.ID, board.Title, model.AuditActionDelete); err != nil {
		slog.Error("監査ログの書き込みに失敗しました",
			slog.String("board_id", board.ID),
			slog.String("error", err.Error()),
		)
		return "", model.NewDeleteFailedError()
	}

	if s.metrics != nil {
		s.metrics.RecordBoardDeleted()
	}

	return "/organization/" + actor.OrgID, nil
}

// UpdateTitle はボードのタイトルを変更する。
func (s *Service) UpdateTitle(ctx context.Context, actor model.Actor, boardID, title string) (*model.Board, error) {
	if actor.UserID == "" || actor.OrgID == "" {
		return nil, model.NewUnauthorizedError()
	}

	board, err := s.boardRepo.UpdateTitle(ctx, boardID, actor.OrgID, title)
	if err != nil {
		slog.Error("ボードタイトルの更新に失敗しました",
			slog.String("board_id", boardID),
			slog.String("error", err.Error()),
		)
		return nil, model.NewUpdateFailedError()
	}
	if board == nil {
		return nil, model.NewBoardNotFoundError(boardID)
	}

	if err := s.audit.Write(ctx, actor, model.EntityTypeBoard, board.ID, board.Title, model.AuditActionUpdate); err != nil {
		return nil, model.NewUpdateFailedError()
	}

	return board, nil
}

// Get は組織スコープでボードを取得する。
func (s *Service) Get(ctx context.Context, actor model.Actor, boardID string) (*model.Board, error) {
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
	return board, nil
}

// List は組織のボード一覧を返す。
func (s *Service) List(ctx context.Context, actor model.Actor) ([]*model.Board, error) {
	if actor.UserID == "" || actor.OrgID == "" {
		return nil, model.NewUnauthorizedError()
	}

	boards, err := s.boardRepo.ListByOrg(ctx, actor.OrgID)
	if err != nil {
		return nil, fmt.Errorf("ボード一覧の取得に失敗しました: %w", err)
	}
	return boards, nil
}
