// Package model はドメインモデルを定義する。
package model

import "time"

// EntityType は監査ログが対象とするエンティティ種別を表す。
type EntityType string

const (
	// EntityTypeBoard はボードを対象とする監査ログ。
	EntityTypeBoard EntityType = "BOARD"
	// EntityTypeList はリストを対象とする監査ログ。
	EntityTypeList EntityType = "LIST"
	// EntityTypeCard はカードを対象とする監査ログ。
	EntityTypeCard EntityType = "CARD"
)

// AuditAction は監査ログの操作種別を表す。
type AuditAction string

const (
	// AuditActionCreate は作成操作。
	AuditActionCreate AuditAction = "CREATE"
	// AuditActionUpdate は更新操作。
	AuditActionUpdate AuditAction = "UPDATE"
	// AuditActionDelete は削除操作。
	AuditActionDelete AuditAction = "DELETE"
)

// AuditLog は変更操作の監査ログエントリを表す。
// 追記専用であり、作成後に更新・削除されることはない。
// EntityTitleは操作時点のタイトルのスナップショット。
type AuditLog struct {
	ID          string
	OrgID       string
	UserID      string
	EntityID    string
	EntityType  EntityType
	EntityTitle string
	Action      AuditAction
	CreatedAt   time.Time
}
