package model

import "testing"

// TestParseBoardImage は画像記述子のパースを検証する。
func TestParseBoardImage(t *testing.T) {
	tests := []struct {
		name       string
		descriptor string
		wantOK     bool
	}{
		{
			name:       "5フィールド揃いは成功",
			descriptor: "img-1|https://example.com/t.jpg|https://example.com/f.jpg|https://example.com/p|Taro",
			wantOK:     true,
		},
		{
			name:       "4フィールドは失敗",
			descriptor: "img-1|https://example.com/t.jpg|https://example.com/f.jpg|Taro",
			wantOK:     false,
		},
		{
			name:       "6フィールドは失敗",
			descriptor: "img-1|a|b|c|Taro|extra",
			wantOK:     false,
		},
		{
			name:       "空フィールドは失敗",
			descriptor: "img-1||https://example.com/f.jpg|https://example.com/p|Taro",
			wantOK:     false,
		},
		{
			name:       "空文字列は失敗",
			descriptor: "",
			wantOK:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, ok := ParseBoardImage(tt.descriptor)
			if ok != tt.wantOK {
				t.Fatalf("ParseBoardImage() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if img.ID != "img-1" || img.UserName != "Taro" {
				t.Errorf("parsed image = %+v", img)
			}
			if img.Descriptor() != tt.descriptor {
				t.Errorf("Descriptor() = %q, want %q", img.Descriptor(), tt.descriptor)
			}
		})
	}
}
