package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/boardman/internal/model"
)

// PostgresListRepo はPostgreSQLを使用したリストリポジトリ。
type PostgresListRepo struct {
	db *sql.DB
}

// NewPostgresListRepo はPostgresListRepoを生成する。
func NewPostgresListRepo(db *sql.DB) *PostgresListRepo {
	return &PostgresListRepo{db: db}
}

// Create はリストを作成する。
func (r *PostgresListRepo) Create(ctx context.Context, list *model.List) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO lists (id, board_id, title, position, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		list.ID, list.BoardID, list.Title, list.Position, list.CreatedAt, list.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("リストの作成に失敗しました: %w", err)
	}
	return nil
}

// FindByIDAndOrg は組織スコープ（boards経由）でリストを取得する。
// 見つからない場合はnilを返す。
func (r *PostgresListRepo) FindByIDAndOrg(ctx context.Context, id, orgID string) (*model.List, error) {
	list := &model.List{}
	err := r.db.QueryRowContext(ctx,
		`SELECT l.id, l.board_id, l.title, l.position, l.created_at, l.updated_at
		 FROM lists l
		 JOIN boards b ON l.board_id = b.id
		 WHERE l.id = $1 AND b.org_id = $2`,
		id, orgID,
	).Scan(&list.ID, &list.BoardID, &list.Title, &list.Position, &list.CreatedAt, &list.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("リストの取得に失敗しました: %w", err)
	}
	return list, nil
}

// ListByBoard は組織スコープでボード内のリスト一覧をposition昇順で返す。
func (r *PostgresListRepo) ListByBoard(ctx context.Context, boardID, orgID string) ([]*model.List, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT l.id, l.board_id, l.title, l.position, l.created_at, l.updated_at
		 FROM lists l
		 JOIN boards b ON l.board_id = b.id
		 WHERE l.board_id = $1 AND b.org_id = $2
		 ORDER BY l.position ASC`,
		boardID, orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("リスト一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var lists []*model.List
	for rows.Next() {
		list := &model.List{}
		if err := rows.Scan(&list.ID, &list.BoardID, &list.Title, &list.Position, &list.CreatedAt, &list.UpdatedAt); err != nil {
			return nil, fmt.Errorf("リスト行の読み取りに失敗しました: %w", err)
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("リスト一覧の走査に失敗しました: %w", err)
	}
	return lists, nil
}

// NextPosition はボード内の次のposition値（max+1）を返す。
func (r *PostgresListRepo) NextPosition(ctx context.Context, boardID string) (int, error) {
	var next int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), 0) + 1 FROM lists WHERE board_id = $1`,
		boardID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("次のposition値の取得に失敗しました: %w", err)
	}
	return next, nil
}

// UpdateTitle は組織スコープでリストのタイトルを更新し、更新後の行を返す。
// 見つからない場合はnilを返す。
func (r *PostgresListRepo) UpdateTitle(ctx context.Context, id, orgID, title string) (*model.List, error) {
	list := &model.List{}
	err := r.db.QueryRowContext(ctx,
		`UPDATE lists l SET title = $3, updated_at = NOW()
		 FROM boards b
		 WHERE l.id = $1 AND l.board_id = b.id AND b.org_id = $2
		 RETURNING l.id, l.board_id, l.title, l.position, l.created_at, l.updated_at`,
		id, orgID, title,
	).Scan(&list.ID, &list.BoardID, &list.Title, &list.Position, &list.CreatedAt, &list.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("リストタイトルの更新に失敗しました: %w", err)
	}
	return list, nil
}

// DeleteByIDAndOrg は組織スコープでリストを削除し、削除した行を返す。
// 見つからない場合はnilを返す。配下のカードはCASCADE削除される。
func (r *PostgresListRepo) DeleteByIDAndOrg(ctx context.Context, id, orgID string) (*model.List, error) {
	list := &model.List{}
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM lists l
		 USING boards b
		 WHERE l.id = $1 AND l.board_id = b.id AND b.org_id = $2
		 RETURNING l.id, l.board_id, l.title, l.position, l.created_at, l.updated_at`,
		id, orgID,
	).Scan(&list.ID, &list.BoardID, &list.Title, &list.Position, &list.CreatedAt, &list.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("リストの削除に失敗しました: %w", err)
	}
	return list, nil
}

// CreateWithCards はリストとカード群を同一トランザクションで作成する。
func (r *PostgresListRepo) CreateWithCards(ctx context.Context, list *model.List, cards []*model.Card) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO lists (id, board_id, title, position, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		list.ID, list.BoardID, list.Title, list.Position, list.CreatedAt, list.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("リストの作成に失敗しました: %w", err)
	}

	for _, card := range cards {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO cards (id, list_id, title, description, position, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			card.ID, card.ListID, card.Title, card.Description, card.Position, card.CreatedAt, card.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("カードの複製に失敗しました: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// Reorder はリスト並べ替えバッチを単一トランザクションで適用する。
// 各UPDATEはboards経由で組織IDにより絞り込まれる。対象行が存在しない
// （IDが不正・他組織・他ボード）要素が1件でもあれば全件ロールバックする。
func (r *PostgresListRepo) Reorder(ctx context.Context, boardID, orgID string, items []ReorderItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	for _, item := range items {
		result, err := tx.ExecContext(ctx,
			`UPDATE lists l SET position = $4, updated_at = NOW()
			 FROM boards b
			 WHERE l.id = $1 AND l.board_id = $2 AND l.board_id = b.id AND b.org_id = $3`,
			item.ID, boardID, orgID, item.Position,
		)
		if err != nil {
			return fmt.Errorf("リストの並べ替えに失敗しました: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("更新結果の取得に失敗しました: %w", err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("並べ替え対象のリストが見つかりません: %s", item.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ListRepository = (*PostgresListRepo)(nil)
