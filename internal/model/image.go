// Package model はドメインモデルを定義する。
package model

import "strings"

// imageFieldCount はパイプ区切り画像記述子のフィールド数。
const imageFieldCount = 5

// ParseBoardImage はパイプ区切りの画像記述子文字列をBoardImageにパースする。
// 形式: 「id|thumbUrl|fullUrl|linkHTML|userName」。
// 5フィールドのいずれかが欠けている・空の場合はfalseを返す。
func ParseBoardImage(descriptor string) (BoardImage, bool) {
	parts := strings.Split(descriptor, "|")
	if len(parts) != imageFieldCount {
		return BoardImage{}, false
	}

	img := BoardImage{
		ID:       parts[0],
		ThumbURL: parts[1],
		FullURL:  parts[2],
		LinkHTML: parts[3],
		UserName: parts[4],
	}

	if img.ID == "" || img.ThumbURL == "" || img.FullURL == "" || img.LinkHTML == "" || img.UserName == "" {
		return BoardImage{}, false
	}

	return img, true
}

// Descriptor はBoardImageをパイプ区切りの記述子文字列に戻す。
// 画像ピッカーのレスポンスで使用する。
func (i BoardImage) Descriptor() string {
	return strings.Join([]string{i.ID, i.ThumbURL, i.FullURL, i.LinkHTML, i.UserName}, "|")
}
