package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/boardman/internal/model"
)

// PostgresOrgLimitRepo はPostgreSQLを使用したフリープラン利用カウンターリポジトリ。
type PostgresOrgLimitRepo struct {
	db *sql.DB
}

// NewPostgresOrgLimitRepo はPostgresOrgLimitRepoを生成する。
func NewPostgresOrgLimitRepo(db *sql.DB) *PostgresOrgLimitRepo {
	return &PostgresOrgLimitRepo{db: db}
}

// FindByOrgID は組織のカウンターを取得する。未作成の場合はnilを返す。
func (r *PostgresOrgLimitRepo) FindByOrgID(ctx context.Context, orgID string) (*model.OrgLimit, error) {
	limit := &model.OrgLimit{}
	err := r.db.QueryRowContext(ctx,
		`SELECT org_id, count, created_at, updated_at FROM org_limits WHERE org_id = $1`,
		orgID,
	).Scan(&limit.OrgID, &limit.Count, &limit.CreatedAt, &limit.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("カウンターの取得に失敗しました: %w", err)
	}
	return limit, nil
}

// Increment はカウンターを1増やす。行が無ければcount=1で作成する。
// 単一のUPSERT文で行うため、同一組織への並行呼び出しでも加算は失われない。
func (r *PostgresOrgLimitRepo) Increment(ctx context.Context, orgID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO org_limits (org_id, count) VALUES ($1, 1)
		 ON CONFLICT (org_id) DO UPDATE
		 SET count = org_limits.count + 1, updated_at = NOW()`,
		orgID,
	)
	if err != nil {
		return fmt.Errorf("カウンターの加算に失敗しました: %w", err)
	}
	return nil
}

// Decrement はカウンターを1減らす（下限0）。行が無ければcount=0で作成する。
func (r *PostgresOrgLimitRepo) Decrement(ctx context.Context, orgID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO org_limits (org_id, count) VALUES ($1, 0)
		 ON CONFLICT (org_id) DO UPDATE
		 SET count = GREATEST(org_limits.count - 1, 0), updated_at = NOW()`,
		orgID,
	)
	if err != nil {
		return fmt.Errorf("カウンターの減算に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ OrgLimitRepository = (*PostgresOrgLimitRepo)(nil)
