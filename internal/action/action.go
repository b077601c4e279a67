// Package action は全変更操作が通過する検証→実行ラッパーを提供する。
//
// バリデータと業務関数を受け取り、検証に失敗した場合は業務関数を一切
// 呼び出さずフィールド別エラーを返す。業務関数は不正な入力を観測しない
// ことが保証され、全ハンドラーの成功・失敗の形が統一される。
package action

import "context"

// FieldErrors は入力フィールド名から違反メッセージ群へのマップ。
type FieldErrors map[string][]string

// State は変更操作の統一結果形式。
// FieldErrors / Err / Data のうち1つだけが意味を持つ。
type State[T any] struct {
	FieldErrors FieldErrors
	Err         error
	Data        T
}

// Validator は入力を検証し、違反があればフィールド別エラーを返す。
type Validator[T any] func(input T) FieldErrors

// Handler は検証済み入力を受け取る業務関数。
type Handler[TIn, TOut any] func(ctx context.Context, input TIn) (TOut, error)

// Action は検証と業務関数を合成した呼び出し可能な操作。
type Action[TIn, TOut any] func(ctx context.Context, input TIn) State[TOut]

// New はバリデータと業務関数からActionを合成する。
// 検証失敗時は業務関数を呼ばずFieldErrorsのみを返し、
// 成功時は業務関数の結果をそのまま返す。
func New[TIn, TOut any](validate Validator[TIn], handle Handler[TIn, TOut]) Action[TIn, TOut] {
	return func(ctx context.Context, input TIn) State[TOut] {
		if validate != nil {
			if fieldErrors := validate(input); len(fieldErrors) > 0 {
				return State[TOut]{FieldErrors: fieldErrors}
			}
		}

		data, err := handle(ctx, input)
		if err != nil {
			return State[TOut]{Err: err}
		}
		return State[TOut]{Data: data}
	}
}
