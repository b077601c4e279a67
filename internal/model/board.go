// Package model はドメインモデルを定義する。
package model

import "time"

// BoardImage はボード背景画像の記述子を表す。
// 画像ピッカーからは「id|thumbUrl|fullUrl|linkHTML|userName」の
// パイプ区切り文字列で渡され、境界で本構造体にパースされる。
type BoardImage struct {
	ID       string
	ThumbURL string
	FullURL  string
	LinkHTML string
	UserName string
}

// Board はカンバンボードを表す。
// 必ず1つの組織（テナント）に属する。
type Board struct {
	ID        string
	OrgID     string
	Title     string
	Image     BoardImage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// List はボード内のリスト（カラム）を表す。
// Positionはボード内で密な連番を維持する。
type List struct {
	ID        string
	BoardID   string
	Title     string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Card はリスト内のカードを表す。
// Positionはリスト内で密な連番を維持する。
type Card struct {
	ID          string
	ListID      string
	Title       string
	Description string
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
