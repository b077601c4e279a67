package billing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/boardman/internal/model"
	"github.com/hitoshi/boardman/internal/repository"
)

// WebhookMetrics はWebhook処理のメトリクス記録インターフェース。nil許容。
type WebhookMetrics interface {
	RecordWebhookEvent(eventType, outcome string)
}

// Processor は決済プロバイダのWebhookイベントを処理する。
//
// プロバイダは同一イベントを複数回配送し得るため、処理は冪等でなければ
// ならない。チェックアウト完了の重複はorg_idの一意制約違反として検出し、
// 成功（no-op）として扱う。エラーを返すとプロバイダが再送するため、
// 再送で解決しない不備（署名不正・組織ID欠落）はハンドラー側で
// 400に変換して再送を止める。
type Processor struct {
	subRepo  repository.OrgSubscriptionRepository
	provider Provider
	metrics  WebhookMetrics
}

// NewProcessor はProcessorの新しいインスタンスを生成する。
// metricsはnilでもよい。
func NewProcessor(subRepo repository.OrgSubscriptionRepository, provider Provider, metrics WebhookMetrics) *Processor {
	return &Processor{
		subRepo:  subRepo,
		provider: provider,
		metrics:  metrics,
	}
}

func (p *Processor) record(eventType, outcome string) {
	if p.metrics != nil {
		p.metrics.RecordWebhookEvent(eventType, outcome)
	}
}

// Process は署名検証からDB反映までのWebhook処理を1回分実行する。
//
// チェックアウト完了: サブスクリプションの現在状態を取得してレコードを作成。
// 請求成功: サブスクリプションIDをキーに期間とプライスを更新。
// それ以外の種別: 何もせず成功を返す（プロバイダに再送させない）。
func (p *Processor) Process(ctx context.Context, payload []byte, sigHeader string) error {
	ev, err := p.provider.ConstructEvent(payload, sigHeader)
	if err != nil {
		p.record("unknown", "signature_error")
		return err
	}

	switch ev.Type {
	case EventCheckoutCompleted:
		return p.handleCheckoutCompleted(ctx, ev)
	case EventInvoicePaid:
		return p.handleInvoicePaid(ctx, ev)
	default:
		slog.Debug("対象外のwebhookイベントを無視します",
			slog.String("event_type", ev.Type),
		)
		p.record(ev.Type, "ignored")
		return nil
	}
}

func (p *Processor) handleCheckoutCompleted(ctx context.Context, ev Event) error {
	if ev.OrgID == "" {
		slog.Warn("チェックアウト完了イベントに組織IDがありません",
			slog.String("subscription_id", ev.SubscriptionID),
		)
		p.record(ev.Type, "missing_org_id")
		return ErrMissingOrgID
	}

	details, err := p.provider.GetSubscription(ctx, ev.SubscriptionID)
	if err != nil {
		p.record(ev.Type, "provider_error")
		return fmt.Errorf("サブスクリプション詳細の取得に失敗しました: %w", err)
	}

	now := time.Now()
	sub := &model.OrgSubscription{
		ID:                     uuid.NewString(),
		OrgID:                  ev.OrgID,
		StripeCustomerID:       details.CustomerID,
		StripeSubscriptionID:   details.SubscriptionID,
		StripePriceID:          details.PriceID,
		StripeCurrentPeriodEnd: details.CurrentPeriodEnd,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if err := p.subRepo.Create(ctx, sub); err != nil {
		// 重複配送。既存レコードを上書きせず成功として扱う。
		if repository.IsUniqueViolation(err) {
			slog.Info("重複配送されたチェックアウト完了イベントを無視します",
				slog.String("org_id", ev.OrgID),
				slog.String("subscription_id", details.SubscriptionID),
			)
			p.record(ev.Type, "duplicate")
			return nil
		}
		p.record(ev.Type, "db_error")
		return fmt.Errorf("サブスクリプションの作成に失敗しました: %w", err)
	}

	slog.Info("サブスクリプションを作成しました",
		slog.String("org_id", ev.OrgID),
		slog.String("subscription_id", details.SubscriptionID),
	)
	p.record(ev.Type, "success")
	return nil
}

func (p *Processor) handleInvoicePaid(ctx context.Context, ev Event) error {
	details, err := p.provider.GetSubscription(ctx, ev.SubscriptionID)
	if err != nil {
		p.record(ev.Type, "provider_error")
		return fmt.Errorf("サブスクリプション詳細の取得に失敗しました: %w", err)
	}

	if err := p.subRepo.UpdateBySubscriptionID(ctx, details.SubscriptionID, details.PriceID, details.CurrentPeriodEnd); err != nil {
		p.record(ev.Type, "db_error")
		return fmt.Errorf("サブスクリプションの更新に失敗しました: %w", err)
	}

	slog.Info("サブスクリプション期間を更新しました",
		slog.String("subscription_id", details.SubscriptionID),
	)
	p.record(ev.Type, "success")
	return nil
}
