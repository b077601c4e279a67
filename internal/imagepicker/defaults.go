package imagepicker

import "github.com/hitoshi/boardman/internal/model"

// defaultImages は外部API障害時のフォールバック画像。
// ピッカーUIが空にならないよう、常に9枚を維持すること。
var defaultImages = []model.BoardImage{
	{
		ID:       "qyAka7W5uMY",
		ThumbURL: "https://images.unsplash.com/photo-1682686581551-867e0b208bd1?w=200",
		FullURL:  "https://images.unsplash.com/photo-1682686581551-867e0b208bd1?w=2400",
		LinkHTML: "https://unsplash.com/photos/qyAka7W5uMY",
		UserName: "Dmitriy Zub",
	},
	{
		ID:       "HRkF1JgJc9c",
		ThumbURL: "https://images.unsplash.com/photo-1682686580024-580519d4b2d2?w=200",
		FullURL:  "https://images.unsplash.com/photo-1682686580024-580519d4b2d2?w=2400",
		LinkHTML: "https://unsplash.com/photos/HRkF1JgJc9c",
		UserName: "Jonathan Gallegos",
	},
	{
		ID:       "YLgtExGWGBs",
		ThumbURL: "https://images.unsplash.com/photo-1682686578615-39b5b8b4b4b4?w=200",
		FullURL:  "https://images.unsplash.com/photo-1682686578615-39b5b8b4b4b4?w=2400",
		LinkHTML: "https://unsplash.com/photos/YLgtExGWGBs",
		UserName: "Kateryna Ivanova",
	},
	{
		ID:       "nJ0sQKg4Qzw",
		ThumbURL: "https://images.unsplash.com/photo-1682685797169-d3e0e4b4a1b1?w=200",
		FullURL:  "https://images.unsplash.com/photo-1682685797169-d3e0e4b4a1b1?w=2400",
		LinkHTML: "https://unsplash.com/photos/nJ0sQKg4Qzw",
		UserName: "Marek Piwnicki",
	},
	{
		ID:       "kXZsd0bcqWk",
		ThumbURL: "https://images.unsplash.com/photo-1682685794761-c8e7b2a5b1b1?w=200",
		FullURL:  "https://images.unsplash.com/photo-1682685794761-c8e7b2a5b1b1?w=2400",
		LinkHTML: "https://unsplash.com/photos/kXZsd0bcqWk",
		UserName: "Pawel Czerwinski",
	},
	{
		ID:       "pM0547gpsdE",
		ThumbURL: "https://images.unsplash.com/photo-1682685796014-2f342188a635?w=200",
		FullURL:  "https://images.unsplash.com/photo-1682685796014-2f342188a635?w=2400",
		LinkHTML: "https://unsplash.com/photos/pM0547gpsdE",
		UserName: "Lerone Pieters",
	},
	{
		ID:       "D1GnwMZsvFM",
		ThumbURL: "https://images.unsplash.com/photo-1682685797886-79020b7462a4?w=200",
		FullURL:  "https://images.unsplash.com/photo-1682685797886-79020b7462a4?w=2400",
		LinkHTML: "https://unsplash.com/photos/D1GnwMZsvFM",
		UserName: "Hoach Le Dinh",
	},
	{
		ID:       "qgWWQU1SzqM",
		ThumbURL: "https://images.unsplash.com/photo-1682685798709-2c168fbd7a67?w=200",
		FullURL:  "https://images.unsplash.com/photo-1682685798709-2c168fbd7a67?w=2400",
		LinkHTML: "https://unsplash.com/photos/qgWWQU1SzqM",
		UserName: "Wolfgang Hasselmann",
	},
	{
		ID:       "wVh5grSMYaY",
		ThumbURL: "https://images.unsplash.com/photo-1682685800804-6e8e9d60c5c6?w=200",
		FullURL:  "https://images.unsplash.com/photo-1682685800804-6e8e9d60c5c6?w=2400",
		LinkHTML: "https://unsplash.com/photos/wVh5grSMYaY",
		UserName: "Sean Oulashin",
	},
}

// DefaultImages はフォールバック画像のコピーを返す。
func DefaultImages() []model.BoardImage {
	images := make([]model.BoardImage, len(defaultImages))
	copy(images, defaultImages)
	return images
}
