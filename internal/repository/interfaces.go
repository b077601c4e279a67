// Package repository はデータ永続化のインターフェースを定義する。
//
// ボード・リスト・カードを読み書きするクエリは、必ず所有チェーンを通じて
// 組織ID（テナントID）で絞り込む。このテナントスコープが認可境界を兼ねており、
// クライアントから渡されたIDを単独で信用するクエリを書いてはならない。
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/hitoshi/boardman/internal/model"
)

// SessionRepository はセッションデータの永続化インターフェース。
// 認証自体は外部コラボレーターの責務で、ここでは検索境界のみを定義する。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// UpdateOrg はセッションの選択中組織を更新する。
	UpdateOrg(ctx context.Context, id, orgID, orgSlug string) error
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// BoardRepository はボードデータの永続化インターフェース。
type BoardRepository interface {
	// Create はボードを作成する。
	Create(ctx context.Context, board *model.Board) error

	// FindByIDAndOrg は組織スコープでボードを取得する。
	// 見つからない・他組織の場合はnilを返す。
	FindByIDAndOrg(ctx context.Context, id, orgID string) (*model.Board, error)

	// ListByOrg は組織のボード一覧を作成日時昇順で返す。
	ListByOrg(ctx context.Context, orgID string) ([]*model.Board, error)

	// UpdateTitle は組織スコープでボードのタイトルを更新し、更新後の行を返す。
	// 見つからない場合はnilを返す。
	UpdateTitle(ctx context.Context, id, orgID, title string) (*model.Board, error)

	// DeleteByIDAndOrg は組織スコープでボードを削除し、削除した行を返す。
	// 見つからない・他組織の場合は何も削除せずnilを返す。
	// 配下のリストとカードはCASCADE削除される。
	DeleteByIDAndOrg(ctx context.Context, id, orgID string) (*model.Board, error)

	// CountByOrg は組織のボード数（正本）を返す。
	CountByOrg(ctx context.Context, orgID string) (int, error)
}

// ReorderItem はリスト並べ替えバッチの1要素。
type ReorderItem struct {
	ID       string
	Position int
}

// CardReorderItem はカード並べ替えバッチの1要素。
// カードはボード内でリストをまたいで移動できるためListIDを含む。
type CardReorderItem struct {
	ID       string
	ListID   string
	Position int
}

// ListRepository はリストデータの永続化インターフェース。
type ListRepository interface {
	// Create はリストを作成する。
	Create(ctx context.Context, list *model.List) error

	// FindByIDAndOrg は組織スコープ（boards経由）でリストを取得する。
	// 見つからない場合はnilを返す。
	FindByIDAndOrg(ctx context.Context, id, orgID string) (*model.List, error)

	// ListByBoard は組織スコープでボード内のリスト一覧をposition昇順で返す。
	ListByBoard(ctx context.Context, boardID, orgID string) ([]*model.List, error)

	// NextPosition はボード内の次のposition値（max+1）を返す。
	NextPosition(ctx context.Context, boardID string) (int, error)

	// UpdateTitle は組織スコープでリストのタイトルを更新し、更新後の行を返す。
	// 見つからない場合はnilを返す。
	UpdateTitle(ctx context.Context, id, orgID, title string) (*model.List, error)

	// DeleteByIDAndOrg は組織スコープでリストを削除し、削除した行を返す。
	// 配下のカードはCASCADE削除される。見つからない場合はnilを返す。
	DeleteByIDAndOrg(ctx context.Context, id, orgID string) (*model.List, error)

	// CreateWithCards はリストとカード群を同一トランザクションで作成する。
	// リスト複製で使用する。
	CreateWithCards(ctx context.Context, list *model.List, cards []*model.Card) error

	// Reorder はリスト並べ替えバッチを単一トランザクションで適用する。
	// 各UPDATEはboards経由で組織IDにより絞り込まれ、1件でも対象行が
	// 存在しない場合は全件ロールバックしてエラーを返す。
	Reorder(ctx context.Context, boardID, orgID string, items []ReorderItem) error
}

// CardRepository はカードデータの永続化インターフェース。
type CardRepository interface {
	// Create はカードを作成する。
	Create(ctx context.Context, card *model.Card) error

	// FindByIDAndOrg は組織スコープ（lists→boards経由）でカードを取得する。
	// 見つからない場合はnilを返す。
	FindByIDAndOrg(ctx context.Context, id, orgID string) (*model.Card, error)

	// ListByList は組織スコープでリスト内のカード一覧をposition昇順で返す。
	ListByList(ctx context.Context, listID, orgID string) ([]*model.Card, error)

	// NextPosition はリスト内の次のposition値（max+1）を返す。
	NextPosition(ctx context.Context, listID string) (int, error)

	// Update は組織スコープでカードを部分更新し、更新後の行を返す。
	// nilのフィールドは変更しない。見つからない場合はnilを返す。
	Update(ctx context.Context, id, orgID string, title, description *string) (*model.Card, error)

	// DeleteByIDAndOrg は組織スコープでカードを削除し、削除した行を返す。
	// 見つからない場合はnilを返す。
	DeleteByIDAndOrg(ctx context.Context, id, orgID string) (*model.Card, error)

	// Reorder はカード並べ替えバッチを単一トランザクションで適用する。
	// リストをまたぐ移動を含み、各UPDATEはlists→boards経由で組織IDと
	// ボードIDにより絞り込まれる。1件でも失敗すれば全件ロールバックする。
	Reorder(ctx context.Context, boardID, orgID string, items []CardReorderItem) error
}

// OrgLimitRepository はフリープラン利用カウンターの永続化インターフェース。
type OrgLimitRepository interface {
	// FindByOrgID は組織のカウンターを取得する。未作成の場合はnilを返す。
	FindByOrgID(ctx context.Context, orgID string) (*model.OrgLimit, error)

	// Increment はカウンターを1増やす。行が無ければcount=1で作成する。
	Increment(ctx context.Context, orgID string) error

	// Decrement はカウンターを1減らす（下限0）。行が無ければcount=0で作成する。
	Decrement(ctx context.Context, orgID string) error
}

// OrgSubscriptionRepository はサブスクリプションデータの永続化インターフェース。
type OrgSubscriptionRepository interface {
	// FindByOrgID は組織のサブスクリプションを取得する。見つからない場合はnilを返す。
	FindByOrgID(ctx context.Context, orgID string) (*model.OrgSubscription, error)

	// Create はサブスクリプションを作成する。
	// org_idのUNIQUE制約違反は呼び出し元がIsUniqueViolationで判定できる。
	Create(ctx context.Context, sub *model.OrgSubscription) error

	// UpdateBySubscriptionID はプロバイダのサブスクリプションIDをキーに
	// プライスIDと期間終了日時を更新する。
	UpdateBySubscriptionID(ctx context.Context, stripeSubscriptionID, priceID string, periodEnd time.Time) error
}

// AuditLogRepository は監査ログの永続化インターフェース。追記専用。
type AuditLogRepository interface {
	// Create は監査ログエントリを追記する。
	Create(ctx context.Context, entry *model.AuditLog) error

	// ListByOrg は組織の監査ログを作成日時降順で返す。
	ListByOrg(ctx context.Context, orgID string, limit, offset int) ([]*model.AuditLog, error)

	// ListByEntity は組織スコープで特定エンティティの監査ログを
	// 作成日時降順で返す。
	ListByEntity(ctx context.Context, orgID, entityID string) ([]*model.AuditLog, error)

	// DeleteOlderThan は保持日数を超過したエントリを削除し、削除件数を返す。
	DeleteOlderThan(ctx context.Context, retentionDays int) (int64, error)
}

// IsUniqueViolation はPostgreSQLの一意制約違反（23505）かどうかを判定する。
// Webhookの重複配送をno-opにするために使用する。
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
