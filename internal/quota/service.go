// Package quota はフリープランのボード数上限管理を提供する。
//
// カウンターはフリープラン利用量の相対的なトラッカーであり、正本は
// count(boards)である。組織が有効なサブスクリプションを持つ間は
// ボードの作成・削除でカウンターに触れてはならない。購読中も無条件に
// 追跡すると、後で購読を解除したときにカウンターがフリー上限に対して
// 大きく負またはインフレした値になり、「残り作成可能数」の表示が壊れる。
// このためカウンターの読み書きは、呼び出し時点の購読状態で厳密に
// 条件分岐する（分岐は呼び出し側のユースケースが行う）。
package quota

import (
	"context"
	"fmt"

	"github.com/hitoshi/boardman/internal/repository"
)

// DefaultMaxFreeBoards はフリープランで作成できるボード数の既定値。
const DefaultMaxFreeBoards = 5

// Service はフリープラン利用カウンターのサービス層。
//
// HasAvailableCountの読み取りとIncrementAvailableCountの書き込みは
// 直列化されない。同一組織への同時作成では上限を僅かに超え得るが、
// これは文書化された既知の挙動であり、分散ロックによる防止は行わない。
type Service struct {
	limitRepo repository.OrgLimitRepository
	maxFree   int
}

// NewService はServiceの新しいインスタンスを生成する。
// maxFreeが0以下の場合はDefaultMaxFreeBoardsを使用する。
func NewService(limitRepo repository.OrgLimitRepository, maxFree int) *Service {
	if maxFree <= 0 {
		maxFree = DefaultMaxFreeBoards
	}
	return &Service{limitRepo: limitRepo, maxFree: maxFree}
}

// MaxFree はフリープランのボード数上限を返す。
func (s *Service) MaxFree() int {
	return s.maxFree
}

// HasAvailableCount は組織がフリープランの範囲内でボードを
// 作成できるかどうかを返す。カウンター未作成は利用量0として扱う。
func (s *Service) HasAvailableCount(ctx context.Context, orgID string) (bool, error) {
	limit, err := s.limitRepo.FindByOrgID(ctx, orgID)
	if err != nil {
		return false, fmt.Errorf("カウンターの取得に失敗しました: %w", err)
	}
	if limit == nil {
		return true, nil
	}
	return limit.Count < s.maxFree, nil
}

// IncrementAvailableCount は利用カウンターを1増やす。
// ボード作成の成功直後、かつ組織が購読していない場合にのみ呼ぶこと。
func (s *Service) IncrementAvailableCount(ctx context.Context, orgID string) error {
	if err := s.limitRepo.Increment(ctx, orgID); err != nil {
		return fmt.Errorf("利用カウンターの加算に失敗しました: %w", err)
	}
	return nil
}

// DecreaseAvailableCount は利用カウンターを1減らす（下限0）。
// ボード削除の成功直後、かつ組織が購読していない場合にのみ呼ぶこと。
func (s *Service) DecreaseAvailableCount(ctx context.Context, orgID string) error {
	if err := s.limitRepo.Decrement(ctx, orgID); err != nil {
		return fmt.Errorf("利用カウンターの減算に失敗しました: %w", err)
	}
	return nil
}

// GetAvailableCount は組織の現在の利用カウンター値を返す。
// UIの「残り作成可能数」表示用。カウンター未作成は0を返す。
func (s *Service) GetAvailableCount(ctx context.Context, orgID string) (int, error) {
	limit, err := s.limitRepo.FindByOrgID(ctx, orgID)
	if err != nil {
		return 0, fmt.Errorf("カウンターの取得に失敗しました: %w", err)
	}
	if limit == nil {
		return 0, nil
	}
	return limit.Count, nil
}
