package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/boardman/internal/model"
)

// PostgresOrgSubscriptionRepo はPostgreSQLを使用したサブスクリプションリポジトリ。
type PostgresOrgSubscriptionRepo struct {
	db *sql.DB
}

// NewPostgresOrgSubscriptionRepo はPostgresOrgSubscriptionRepoを生成する。
func NewPostgresOrgSubscriptionRepo(db *sql.DB) *PostgresOrgSubscriptionRepo {
	return &PostgresOrgSubscriptionRepo{db: db}
}

// FindByOrgID は組織のサブスクリプションを取得する。見つからない場合はnilを返す。
func (r *PostgresOrgSubscriptionRepo) FindByOrgID(ctx context.Context, orgID string) (*model.OrgSubscription, error) {
	sub := &model.OrgSubscription{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, org_id, stripe_customer_id, stripe_subscription_id, stripe_price_id, stripe_current_period_end, created_at, updated_at
		 FROM org_subscriptions WHERE org_id = $1`,
		orgID,
	).Scan(
		&sub.ID, &sub.OrgID, &sub.StripeCustomerID, &sub.StripeSubscriptionID,
		&sub.StripePriceID, &sub.StripeCurrentPeriodEnd, &sub.CreatedAt, &sub.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("サブスクリプションの取得に失敗しました: %w", err)
	}
	return sub, nil
}

// Create はサブスクリプションを作成する。
// org_idのUNIQUE制約違反はそのまま返す（呼び出し元がIsUniqueViolationで判定する）。
func (r *PostgresOrgSubscriptionRepo) Create(ctx context.Context, sub *model.OrgSubscription) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO org_subscriptions (id, org_id, stripe_customer_id, stripe_subscription_id, stripe_price_id, stripe_current_period_end, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sub.ID, sub.OrgID, sub.StripeCustomerID, sub.StripeSubscriptionID,
		sub.StripePriceID, sub.StripeCurrentPeriodEnd, sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("サブスクリプションの作成に失敗しました: %w", err)
	}
	return nil
}

// UpdateBySubscriptionID はプロバイダのサブスクリプションIDをキーに
// プライスIDと期間終了日時を更新する。
func (r *PostgresOrgSubscriptionRepo) UpdateBySubscriptionID(ctx context.Context, stripeSubscriptionID, priceID string, periodEnd time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE org_subscriptions
		 SET stripe_price_id = $2, stripe_current_period_end = $3, updated_at = NOW()
		 WHERE stripe_subscription_id = $1`,
		stripeSubscriptionID, priceID, periodEnd,
	)
	if err != nil {
		return fmt.Errorf("サブスクリプションの更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("サブスクリプションが見つかりません: %s", stripeSubscriptionID)
	}
	return nil
}

// compile-time interface check
var _ OrgSubscriptionRepository = (*PostgresOrgSubscriptionRepo)(nil)
