// Package subscription はサブスクリプションの有効性判定を提供する。
package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/boardman/internal/repository"
)

// gracePeriod は期間終了後もサブスクリプションを有効とみなす猶予。
// クロックスキューとプロバイダの更新遅延を吸収し、期間がちょうど
// 切れた瞬間に購読者が締め出されないようにする。
const gracePeriod = 24 * time.Hour

// Service はサブスクリプション有効性判定のサービス層。
// 読み取り専用で状態を一切変更しないため、並行呼び出しに安全。
type Service struct {
	subRepo repository.OrgSubscriptionRepository
	now     func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(subRepo repository.OrgSubscriptionRepository) *Service {
	return &Service{
		subRepo: subRepo,
		now:     time.Now,
	}
}

// Check は組織が有効なサブスクリプションを持つかどうかを返す。
// レコードが存在しない場合はfalse。存在する場合は
// 「プライスIDが設定済み かつ 期間終了+猶予1日が現在より未来」で判定する。
func (s *Service) Check(ctx context.Context, orgID string) (bool, error) {
	if orgID == "" {
		return false, nil
	}

	sub, err := s.subRepo.FindByOrgID(ctx, orgID)
	if err != nil {
		return false, fmt.Errorf("サブスクリプションの取得に失敗しました: %w", err)
	}
	if sub == nil {
		return false, nil
	}

	isValid := sub.StripePriceID != "" &&
		sub.StripeCurrentPeriodEnd.Add(gracePeriod).After(s.now())

	return isValid, nil
}
