package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/boardman/internal/model"
)

// PostgresBoardRepo はPostgreSQLを使用したボードリポジトリ。
type PostgresBoardRepo struct {
	db *sql.DB
}

// NewPostgresBoardRepo はPostgresBoardRepoを生成する。
func NewPostgresBoardRepo(db *sql.DB) *PostgresBoardRepo {
	return &PostgresBoardRepo{db: db}
}

const boardColumns = `id, org_id, title, image_id, image_thumb_url, image_full_url, image_link_html, image_user_name, created_at, updated_at`

// scanBoard は1行分のボードを読み取る。
func scanBoard(row interface{ Scan(...any) error }) (*model.Board, error) {
	board := &model.Board{}
	err := row.Scan(
		&board.ID, &board.OrgID, &board.Title,
		&board.Image.ID, &board.Image.ThumbURL, &board.Image.FullURL,
		&board.Image.LinkHTML, &board.Image.UserName,
		&board.CreatedAt, &board.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return board, nil
}

// Create はボードを作成する。
func (r *PostgresBoardRepo) Create(ctx context.Context, board *model.Board) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO boards (id, org_id, title, image_id, image_thumb_url, image_full_url, image_link_html, image_user_name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		board.ID, board.OrgID, board.Title,
		board.Image.ID, board.Image.ThumbURL, board.Image.FullURL,
		board.Image.LinkHTML, board.Image.UserName,
		board.CreatedAt, board.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("ボードの作成に失敗しました: %w", err)
	}
	return nil
}

// FindByIDAndOrg は組織スコープでボードを取得する。見つからない場合はnilを返す。
func (r *PostgresBoardRepo) FindByIDAndOrg(ctx context.Context, id, orgID string) (*model.Board, error) {
	board, err := scanBoard(r.db.QueryRowContext(ctx,
		`SELECT `+boardColumns+` FROM boards WHERE id = $1 AND org_id = $2`,
		id, orgID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ボードの取得に失敗しました: %w", err)
	}
	return board, nil
}

// ListByOrg は組織のボード一覧を作成日時昇順で返す。
func (r *PostgresBoardRepo) ListByOrg(ctx context.Context, orgID string) ([]*model.Board, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+boardColumns+` FROM boards WHERE org_id = $1 ORDER BY created_at ASC`,
		orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("ボード一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var boards []*model.Board
	for rows.Next() {
		board, err := scanBoard(rows)
		if err != nil {
			return nil, fmt.Errorf("ボード行の読み取りに失敗しました: %w", err)
		}
		boards = append(boards, board)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ボード一覧の走査に失敗しました: %w", err)
	}
	return boards, nil
}

// UpdateTitle は組織スコープでボードのタイトルを更新し、更新後の行を返す。
// 見つからない場合はnilを返す。
func (r *PostgresBoardRepo) UpdateTitle(ctx context.Context, id, orgID, title string) (*model.Board, error) {
	board, err := scanBoard(r.db.QueryRowContext(ctx,
		`UPDATE boards SET title = $3, updated_at = NOW()
		 WHERE id = $1 AND org_id = $2
		 RETURNING `+boardColumns,
		id, orgID, title,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ボードタイトルの更新に失敗しました: %w", err)
	}
	return board, nil
}

// DeleteByIDAndOrg は組織スコープでボードを削除し、削除した行を返す。
// 他組織のIDを指定した場合は何も削除せずnilを返す。
func (r *PostgresBoardRepo) DeleteByIDAndOrg(ctx context.Context, id, orgID string) (*model.Board, error) {
	board, err := scanBoard(r.db.QueryRowContext(ctx,
		`DELETE FROM boards WHERE id = $1 AND org_id = $2
		 RETURNING `+boardColumns,
		id, orgID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ボードの削除に失敗しました: %w", err)
	}
	return board, nil
}

// CountByOrg は組織のボード数を返す。
func (r *PostgresBoardRepo) CountByOrg(ctx context.Context, orgID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM boards WHERE org_id = $1`,
		orgID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ボード数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ BoardRepository = (*PostgresBoardRepo)(nil)
