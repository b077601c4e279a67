// Package billing は決済プロバイダ連携を提供する。
//
// サブスクリプションの契約・更新はチェックアウト/ポータルへのリダイレクトと
// Webhookの2経路で行われ、DBへの書き込みはWebhook処理のみが行う。
// リダイレクト経路は一切の状態を書き込まない。
package billing

import (
	"context"
	"errors"
	"time"
)

// Webhookで処理するイベント種別。これ以外は受理した上で無視する。
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventInvoicePaid       = "invoice.payment_succeeded"
)

// ErrSignature はWebhook署名の検証失敗を表す。
// ハンドラーはこのエラーを400として応答し、プロバイダに再送させない。
var ErrSignature = errors.New("webhook署名の検証に失敗しました")

// ErrMissingOrgID はチェックアウト完了イベントに組織IDメタデータが
// 含まれていないことを表す。紐付け先が特定できないため400として応答する。
var ErrMissingOrgID = errors.New("webhookイベントに組織IDが含まれていません")

// CheckoutParams はチェックアウトセッション作成の入力。
type CheckoutParams struct {
	OrgID      string
	UserEmail  string
	SuccessURL string
	CancelURL  string
}

// SubscriptionDetails はプロバイダから取得したサブスクリプションの現在状態。
type SubscriptionDetails struct {
	SubscriptionID   string
	CustomerID       string
	PriceID          string
	CurrentPeriodEnd time.Time
}

// Event は署名検証済みのWebhookイベント。
// OrgIDはチェックアウト完了イベントのメタデータからのみ設定される。
type Event struct {
	Type           string
	OrgID          string
	SubscriptionID string
}

// Provider は決済プロバイダのインターフェース。
type Provider interface {
	// NewCheckoutSession はサブスクリプション契約用の
	// チェックアウトセッションを作成し、リダイレクト先URLを返す。
	NewCheckoutSession(ctx context.Context, p CheckoutParams) (string, error)

	// NewPortalSession は既存顧客向けの請求ポータルセッションを作成し、
	// リダイレクト先URLを返す。
	NewPortalSession(ctx context.Context, customerID, returnURL string) (string, error)

	// GetSubscription はサブスクリプションの現在状態を取得する。
	GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionDetails, error)

	// ConstructEvent はWebhookペイロードの署名を検証し、イベントを返す。
	// 検証失敗時はErrSignatureを包んだエラーを返す。
	ConstructEvent(payload []byte, sigHeader string) (Event, error)
}
