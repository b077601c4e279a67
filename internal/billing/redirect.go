package billing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/boardman/internal/model"
	"github.com/hitoshi/boardman/internal/repository"
)

// Redirector は契約・管理画面へのリダイレクトURLを生成するサービス。
//
// 組織に決済プロバイダの顧客が既に存在する場合は請求ポータルへ、
// 存在しない場合はProプランのチェックアウトへ誘導する。
// どちらの経路もサブスクリプション状態を一切書き込まない。
// 状態の反映はWebhook処理（Processor）だけの責務。
type Redirector struct {
	subRepo  repository.OrgSubscriptionRepository
	provider Provider
	baseURL  string
}

// NewRedirector はRedirectorの新しいインスタンスを生成する。
// baseURLはUIのオリジン（例: https://boardman.example.com）。
func NewRedirector(subRepo repository.OrgSubscriptionRepository, provider Provider, baseURL string) *Redirector {
	return &Redirector{
		subRepo:  subRepo,
		provider: provider,
		baseURL:  baseURL,
	}
}

// Redirect はリダイレクト先URLを返す。
// 成功・キャンセルいずれの戻り先も組織の設定ページになる。
func (r *Redirector) Redirect(ctx context.Context, actor model.Actor) (string, error) {
	if actor.UserID == "" || actor.OrgID == "" {
		return "", model.NewUnauthorizedError()
	}

	settingsURL := r.baseURL + "/organization/" + actor.OrgID

	sub, err := r.subRepo.FindByOrgID(ctx, actor.OrgID)
	if err != nil {
		return "", fmt.Errorf("サブスクリプションの取得に失敗しました: %w", err)
	}

	if sub != nil && sub.StripeCustomerID != "" {
		url, err := r.provider.NewPortalSession(ctx, sub.StripeCustomerID, settingsURL)
		if err != nil {
			slog.Error("請求ポータルセッションの作成に失敗しました",
				slog.String("org_id", actor.OrgID),
				slog.String("error", err.Error()),
			)
			return "", model.NewBillingFailedError()
		}
		return url, nil
	}

	url, err := r.provider.NewCheckoutSession(ctx, CheckoutParams{
		OrgID:      actor.OrgID,
		UserEmail:  actor.Email,
		SuccessURL: settingsURL,
		CancelURL:  settingsURL,
	})
	if err != nil {
		slog.Error("チェックアウトセッションの作成に失敗しました",
			slog.String("org_id", actor.OrgID),
			slog.String("error", err.Error()),
		)
		return "", model.NewBillingFailedError()
	}
	return url, nil
}
