package action

import (
	"context"
	"errors"
	"testing"
)

type createInput struct {
	Title string
}

// TestNew_ValidationFailure は検証失敗時に業務関数が呼ばれず、
// フィールド別エラーだけが返ることを検証する。
func TestNew_ValidationFailure(t *testing.T) {
	handlerCalled := false

	act := New(
		func(in createInput) FieldErrors {
			var fe FieldErrors
			fe = Require(fe, "title", in.Title, "タイトルは必須です。")
			return fe
		},
		func(ctx context.Context, in createInput) (string, error) {
			handlerCalled = true
			return "created", nil
		},
	)

	st := act(context.Background(), createInput{Title: ""})

	if handlerCalled {
		t.Error("handler should not be called on validation failure")
	}
	if len(st.FieldErrors["title"]) != 1 {
		t.Errorf("FieldErrors[title] = %v, want 1 message", st.FieldErrors["title"])
	}
	if st.Err != nil {
		t.Errorf("Err = %v, want nil", st.Err)
	}
	if st.Data != "" {
		t.Errorf("Data = %q, want zero value", st.Data)
	}
}

// TestNew_HandlerError は業務エラーがErrにのみ設定されることを検証する。
func TestNew_HandlerError(t *testing.T) {
	wantErr := errors.New("保存に失敗")

	act := New(
		func(in createInput) FieldErrors { return nil },
		func(ctx context.Context, in createInput) (string, error) {
			return "", wantErr
		},
	)

	st := act(context.Background(), createInput{Title: "ok"})

	if !errors.Is(st.Err, wantErr) {
		t.Errorf("Err = %v, want %v", st.Err, wantErr)
	}
	if len(st.FieldErrors) != 0 {
		t.Errorf("FieldErrors = %v, want empty", st.FieldErrors)
	}
}

// TestNew_Success は成功時にDataのみが設定されることを検証する。
func TestNew_Success(t *testing.T) {
	act := New(
		nil, // バリデータなしも許容する
		func(ctx context.Context, in createInput) (string, error) {
			return "created:" + in.Title, nil
		},
	)

	st := act(context.Background(), createInput{Title: "ボード"})

	if st.Err != nil || len(st.FieldErrors) != 0 {
		t.Fatalf("unexpected failure: err=%v fieldErrors=%v", st.Err, st.FieldErrors)
	}
	if st.Data != "created:ボード" {
		t.Errorf("Data = %q, want %q", st.Data, "created:ボード")
	}
}

// TestRules は検証ルールの組み合わせを検証する。
func TestRules(t *testing.T) {
	t.Run("Requireは空文字列のみ検出する", func(t *testing.T) {
		fe := Require(nil, "title", "", "必須です")
		if len(fe["title"]) != 1 {
			t.Errorf("fe[title] = %v", fe["title"])
		}
		fe = Require(nil, "title", "a", "必須です")
		if len(fe) != 0 {
			t.Errorf("fe = %v, want empty", fe)
		}
	})

	t.Run("MinLengthはrune数で判定する", func(t *testing.T) {
		fe := MinLength(nil, "title", "あい", 3, "短すぎます")
		if len(fe["title"]) != 1 {
			t.Errorf("fe[title] = %v", fe["title"])
		}
		fe = MinLength(nil, "title", "あいう", 3, "短すぎます")
		if len(fe) != 0 {
			t.Errorf("fe = %v, want empty", fe)
		}
	})

	t.Run("MinLengthは空文字列を検証しない", func(t *testing.T) {
		fe := MinLength(nil, "title", "", 3, "短すぎます")
		if len(fe) != 0 {
			t.Errorf("fe = %v, want empty (Requireの責務)", fe)
		}
	})

	t.Run("MaxLengthは上限超過を検出する", func(t *testing.T) {
		fe := MaxLength(nil, "title", "abcd", 3, "長すぎます")
		if len(fe["title"]) != 1 {
			t.Errorf("fe[title] = %v", fe["title"])
		}
	})

	t.Run("NotEmptySliceは空スライスを検出する", func(t *testing.T) {
		fe := NotEmptySlice(nil, "items", []int{}, "空です")
		if len(fe["items"]) != 1 {
			t.Errorf("fe[items] = %v", fe["items"])
		}
		fe = NotEmptySlice(nil, "items", []int{1}, "空です")
		if len(fe) != 0 {
			t.Errorf("fe = %v, want empty", fe)
		}
	})

	t.Run("複数違反は同一フィールドに蓄積される", func(t *testing.T) {
		var fe FieldErrors
		fe = Require(fe, "title", "", "必須です")
		fe = Require(fe, "image", "", "必須です")
		if len(fe) != 2 {
			t.Errorf("fe = %v, want 2 fields", fe)
		}
	})
}
