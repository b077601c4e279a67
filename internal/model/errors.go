// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
// RedirectToはUI側の遷移先を指示する場合のみ設定される。
type APIError struct {
	Code       string // エラーコード
	Message    string // エラーメッセージ
	Category   string // カテゴリ: auth, validation, quota, billing, board, system
	Action     string // ユーザー向け対処方法
	RedirectTo string // UI遷移先（任意）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeOrgNotSelected = "ORG_NOT_SELECTED"
	ErrCodeQuotaExceeded  = "QUOTA_EXCEEDED"
	ErrCodeBoardNotFound  = "BOARD_NOT_FOUND"
	ErrCodeListNotFound   = "LIST_NOT_FOUND"
	ErrCodeCardNotFound   = "CARD_NOT_FOUND"
	ErrCodeInvalidImage   = "INVALID_IMAGE"
	ErrCodeCreateFailed   = "CREATE_FAILED"
	ErrCodeUpdateFailed   = "UPDATE_FAILED"
	ErrCodeDeleteFailed   = "DELETE_FAILED"
	ErrCodeReorderFailed  = "REORDER_FAILED"
	ErrCodeCopyFailed     = "COPY_FAILED"
	ErrCodeBillingFailed  = "BILLING_FAILED"
)

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:       ErrCodeUnauthorized,
		Message:    "認証が必要です。",
		Category:   "auth",
		Action:     "ログインしてください。",
		RedirectTo: "/sign-in",
	}
}

// NewOrgNotSelectedError は組織未選択エラーを生成する。
// 認証済みだが操作対象の組織が選択されていない場合に返す。
func NewOrgNotSelectedError() *APIError {
	return &APIError{
		Code:       ErrCodeOrgNotSelected,
		Message:    "組織が選択されていません。",
		Category:   "auth",
		Action:     "操作する組織を選択してください。",
		RedirectTo: "/select-org",
	}
}

// NewQuotaExceededError はフリープランのボード数上限エラーを生成する。
func NewQuotaExceededError(maxFree int) *APIError {
	return &APIError{
		Code:     ErrCodeQuotaExceeded,
		Message:  fmt.Sprintf("フリープランのボード数上限（%d枚）に達しています。", maxFree),
		Category: "quota",
		Action:   "続けてボードを作成するには、プランをアップグレードしてください。",
	}
}

// NewBoardNotFoundError はボード未検出エラーを生成する。
// 他組織のボードを指定した場合もこのエラーになる（存在を漏らさない）。
func NewBoardNotFoundError(boardID string) *APIError {
	return &APIError{
		Code:     ErrCodeBoardNotFound,
		Message:  fmt.Sprintf("指定されたボードが見つかりません: %s", boardID),
		Category: "board",
		Action:   "ボードIDを確認してください。",
	}
}

// NewListNotFoundError はリスト未検出エラーを生成する。
func NewListNotFoundError(listID string) *APIError {
	return &APIError{
		Code:     ErrCodeListNotFound,
		Message:  fmt.Sprintf("指定されたリストが見つかりません: %s", listID),
		Category: "board",
		Action:   "リストIDを確認してください。",
	}
}

// NewCardNotFoundError はカード未検出エラーを生成する。
func NewCardNotFoundError(cardID string) *APIError {
	return &APIError{
		Code:     ErrCodeCardNotFound,
		Message:  fmt.Sprintf("指定されたカードが見つかりません: %s", cardID),
		Category: "board",
		Action:   "カードIDを確認してください。",
	}
}

// NewInvalidImageError は背景画像記述子の不備エラーを生成する。
func NewInvalidImageError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidImage,
		Message:  "背景画像の情報が不足しています。ボードを作成できませんでした。",
		Category: "validation",
		Action:   "画像を選択し直してください。",
	}
}

// NewCreateFailedError は作成失敗の汎用エラーを生成する。
// 永続化層の内部エラーはそのまま露出せず、本エラーに変換する。
func NewCreateFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeCreateFailed,
		Message:  "作成に失敗しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewUpdateFailedError は更新失敗の汎用エラーを生成する。
func NewUpdateFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeUpdateFailed,
		Message:  "更新に失敗しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewDeleteFailedError は削除失敗の汎用エラーを生成する。
func NewDeleteFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeDeleteFailed,
		Message:  "削除に失敗しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewReorderFailedError は並べ替え失敗の汎用エラーを生成する。
// バッチ内の1件でも失敗した場合は全件ロールバックの上でこのエラーになる。
func NewReorderFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeReorderFailed,
		Message:  "並べ替えに失敗しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewCopyFailedError はリスト複製失敗の汎用エラーを生成する。
func NewCopyFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeCopyFailed,
		Message:  "コピーに失敗しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewBillingFailedError は決済プロバイダ呼び出し失敗の汎用エラーを生成する。
func NewBillingFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeBillingFailed,
		Message:  "決済処理で問題が発生しました。",
		Category: "billing",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
