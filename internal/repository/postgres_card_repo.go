package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/boardman/internal/model"
)

// PostgresCardRepo はPostgreSQLを使用したカードリポジトリ。
type PostgresCardRepo struct {
	db *sql.DB
}

// NewPostgresCardRepo はPostgresCardRepoを生成する。
func NewPostgresCardRepo(db *sql.DB) *PostgresCardRepo {
	return &PostgresCardRepo{db: db}
}

// Create はカードを作成する。
func (r *PostgresCardRepo) Create(ctx context.Context, card *model.Card) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cards (id, list_id, title, description, position, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		card.ID, card.ListID, card.Title, card.Description, card.Position, card.CreatedAt, card.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("カードの作成に失敗しました: %w", err)
	}
	return nil
}

// FindByIDAndOrg は組織スコープ（lists→boards経由）でカードを取得する。
// 見つからない場合はnilを返す。
func (r *PostgresCardRepo) FindByIDAndOrg(ctx context.Context, id, orgID string) (*model.Card, error) {
	card := &model.Card{}
	err := r.db.QueryRowContext(ctx,
		`SELECT c.id, c.list_id, c.title, c.description, c.position, c.created_at, c.updated_at
		 FROM cards c
		 JOIN lists l ON c.list_id = l.id
		 JOIN boards b ON l.board_id = b.id
		 WHERE c.id = $1 AND b.org_id = $2`,
		id, orgID,
	).Scan(&card.ID, &card.ListID, &card.Title, &card.Description, &card.Position, &card.CreatedAt, &card.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("カードの取得に失敗しました: %w", err)
	}
	return card, nil
}

// ListByList は組織スコープでリスト内のカード一覧をposition昇順で返す。
func (r *PostgresCardRepo) ListByList(ctx context.Context, listID, orgID string) ([]*model.Card, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.list_id, c.title, c.description, c.position, c.created_at, c.updated_at
		 FROM cards c
		 JOIN lists l ON c.list_id = l.id
		 JOIN boards b ON l.board_id = b.id
		 WHERE c.list_id = $1 AND b.org_id = $2
		 ORDER BY c.position ASC`,
		listID, orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("カード一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var cards []*model.Card
	for rows.Next() {
		card := &model.Card{}
		if err := rows.Scan(&card.ID, &card.ListID, &card.Title, &card.Description, &card.Position, &card.CreatedAt, &card.UpdatedAt); err != nil {
			return nil, fmt.Errorf("カード行の読み取りに失敗しました: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("カード一覧の走査に失敗しました: %w", err)
	}
	return cards, nil
}

// NextPosition はリスト内の次のposition値（max+1）を返す。
func (r *PostgresCardRepo) NextPosition(ctx context.Context, listID string) (int, error) {
	var next int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), 0) + 1 FROM cards WHERE list_id = $1`,
		listID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("次のposition値の取得に失敗しました: %w", err)
	}
	return next, nil
}

// Update は組織スコープでカードを部分更新し、更新後の行を返す。
// nilのフィールドはCOALESCEで既存値を維持する。見つからない場合はnilを返す。
func (r *PostgresCardRepo) Update(ctx context.Context, id, orgID string, title, description *string) (*model.Card, error) {
	card := &model.Card{}
	err := r.db.QueryRowContext(ctx,
		`UPDATE cards c SET
		     title = COALESCE($3, c.title),
		     description = COALESCE($4, c.description),
		     updated_at = NOW()
		 FROM lists l, boards b
		 WHERE c.id = $1 AND c.list_id = l.id AND l.board_id = b.id AND b.org_id = $2
		 RETURNING c.id, c.list_id, c.title, c.description, c.position, c.created_at, c.updated_at`,
		id, orgID, title, description,
	).Scan(&card.ID, &card.ListID, &card.Title, &card.Description, &card.Position, &card.CreatedAt, &card.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("カードの更新に失敗しました: %w", err)
	}
	return card, nil
}

// DeleteByIDAndOrg は組織スコープでカードを削除し、削除した行を返す。
// 見つからない場合はnilを返す。
func (r *PostgresCardRepo) DeleteByIDAndOrg(ctx context.Context, id, orgID string) (*model.Card, error) {
	card := &model.Card{}
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM cards c
		 USING lists l, boards b
		 WHERE c.id = $1 AND c.list_id = l.id AND l.board_id = b.id AND b.org_id = $2
		 RETURNING c.id, c.list_id, c.title, c.description, c.position, c.created_at, c.updated_at`,
		id, orgID,
	).Scan(&card.ID, &card.ListID, &card.Title, &card.Description, &card.Position, &card.CreatedAt, &card.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("カードの削除に失敗しました: %w", err)
	}
	return card, nil
}

// Reorder はカード並べ替えバッチを単一トランザクションで適用する。
// 移動先リストもカード本体も同一ボード・同一組織に属することを
// UPDATE自体の絞り込みで強制する。1件でも失敗すれば全件ロールバックする。
func (r *PostgresCardRepo) Reorder(ctx context.Context, boardID, orgID string, items []CardReorderItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	for _, item := range items {
		result, err := tx.ExecContext(ctx,
			`UPDATE cards c SET list_id = $2, position = $5, updated_at = NOW()
			 FROM lists src, lists dst, boards b
			 WHERE c.id = $1
			   AND c.list_id = src.id AND src.board_id = b.id
			   AND dst.id = $2 AND dst.board_id = b.id
			   AND b.id = $3 AND b.org_id = $4`,
			item.ID, item.ListID, boardID, orgID, item.Position,
		)
		if err != nil {
			return fmt.Errorf("カードの並べ替えに失敗しました: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("更新結果の取得に失敗しました: %w", err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("並べ替え対象のカードが見つかりません: %s", item.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ CardRepository = (*PostgresCardRepo)(nil)
