package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/boardman/internal/model"
)

// PostgresAuditLogRepo はPostgreSQLを使用した監査ログリポジトリ。
// INSERTと読み取りのみを提供する（追記専用）。
type PostgresAuditLogRepo struct {
	db *sql.DB
}

// NewPostgresAuditLogRepo はPostgresAuditLogRepoを生成する。
func NewPostgresAuditLogRepo(db *sql.DB) *PostgresAuditLogRepo {
	return &PostgresAuditLogRepo{db: db}
}

// Create は監査ログエントリを追記する。
func (r *PostgresAuditLogRepo) Create(ctx context.Context, entry *model.AuditLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, org_id, user_id, entity_id, entity_type, entity_title, action, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, entry.OrgID, entry.UserID, entry.EntityID,
		entry.EntityType, entry.EntityTitle, entry.Action, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("監査ログの追記に失敗しました: %w", err)
	}
	return nil
}

// ListByOrg は組織の監査ログを作成日時降順で返す。
func (r *PostgresAuditLogRepo) ListByOrg(ctx context.Context, orgID string, limit, offset int) ([]*model.AuditLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, org_id, user_id, entity_id, entity_type, entity_title, action, created_at
		 FROM audit_logs WHERE org_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		orgID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("監査ログ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanAuditLogs(rows)
}

// ListByEntity は組織スコープで特定エンティティの監査ログを作成日時降順で返す。
func (r *PostgresAuditLogRepo) ListByEntity(ctx context.Context, orgID, entityID string) ([]*model.AuditLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, org_id, user_id, entity_id, entity_type, entity_title, action, created_at
		 FROM audit_logs WHERE org_id = $1 AND entity_id = $2
		 ORDER BY created_at DESC`,
		orgID, entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("エンティティ監査ログの取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanAuditLogs(rows)
}

// DeleteOlderThan は保持日数を超過したエントリを削除し、削除件数を返す。
// 冪等: 削除対象がない場合でもエラーにならない。
func (r *PostgresAuditLogRepo) DeleteOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	interval := fmt.Sprintf("%d days", retentionDays)
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM audit_logs WHERE created_at < now() - $1::interval`,
		interval,
	)
	if err != nil {
		return 0, fmt.Errorf("監査ログの削除に失敗しました: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("削除件数の取得に失敗しました: %w", err)
	}
	return deleted, nil
}

// scanAuditLogs は監査ログの行集合を読み取る。
func scanAuditLogs(rows *sql.Rows) ([]*model.AuditLog, error) {
	var entries []*model.AuditLog
	for rows.Next() {
		entry := &model.AuditLog{}
		if err := rows.Scan(
			&entry.ID, &entry.OrgID, &entry.UserID, &entry.EntityID,
			&entry.EntityType, &entry.EntityTitle, &entry.Action, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("監査ログ行の読み取りに失敗しました: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("監査ログの走査に失敗しました: %w", err)
	}
	return entries, nil
}

// compile-time interface check
var _ AuditLogRepository = (*PostgresAuditLogRepo)(nil)
