// Package model はドメインモデルを定義する。
package model

import "time"

// Actor は1リクエストの操作主体を表す。
// 認証コラボレーターが解決したユーザーと選択中の組織を保持し、
// 外側の境界層で1回構築されて全ハンドラー呼び出しに明示的に渡される。
type Actor struct {
	UserID  string
	Email   string
	OrgID   string
	OrgSlug string
}

// Session はユーザーのログインセッションを表す。
// OrgIDが空の場合は「組織未選択」を意味する。
type Session struct {
	ID        string
	UserID    string
	Email     string
	OrgID     string
	OrgSlug   string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// OrgLimit は組織ごとのフリープラン利用ボード数カウンター。
// 正本は count(boards) であり、本カウンターは読み取りを安くするための
// 非正規化された投影にすぎない。組織が有効なサブスクリプションを
// 持つ間は意味を持たない（quota パッケージのコメントを参照）。
type OrgLimit struct {
	OrgID     string
	Count     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrgSubscription は組織と決済プロバイダのサブスクリプションの紐付けを表す。
// 組織と1対1で、初回のチェックアウト完了時に作成され、更新イベントで
// 期間とプライスが更新される。本システムからは削除されない。
type OrgSubscription struct {
	ID                     string
	OrgID                  string
	StripeCustomerID       string
	StripeSubscriptionID   string
	StripePriceID          string
	StripeCurrentPeriodEnd time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
