package action

import "unicode/utf8"

// Require は値が空でないことを検証する。
// 違反があればfeに追記して返す。feがnilの場合は新しいマップを割り当てる。
func Require(fe FieldErrors, field, value, message string) FieldErrors {
	if value == "" {
		fe = appendError(fe, field, message)
	}
	return fe
}

// MinLength は値の文字数（rune数）が下限以上であることを検証する。
// 空文字列はRequireの責務とし、ここでは検証しない。
func MinLength(fe FieldErrors, field, value string, min int, message string) FieldErrors {
	if value != "" && utf8.RuneCountInString(value) < min {
		fe = appendError(fe, field, message)
	}
	return fe
}

// MaxLength は値の文字数（rune数）が上限以下であることを検証する。
func MaxLength(fe FieldErrors, field, value string, max int, message string) FieldErrors {
	if utf8.RuneCountInString(value) > max {
		fe = appendError(fe, field, message)
	}
	return fe
}

// NotEmptySlice はスライスが空でないことを検証する。
func NotEmptySlice[T any](fe FieldErrors, field string, values []T, message string) FieldErrors {
	if len(values) == 0 {
		fe = appendError(fe, field, message)
	}
	return fe
}

func appendError(fe FieldErrors, field, message string) FieldErrors {
	if fe == nil {
		fe = make(FieldErrors)
	}
	fe[field] = append(fe[field], message)
	return fe
}
