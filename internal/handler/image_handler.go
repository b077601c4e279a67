package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/boardman/internal/model"
)

// ImagePickerInterface は画像ハンドラーが必要とするインターフェース。
type ImagePickerInterface interface {
	RandomImages(ctx context.Context) []model.BoardImage
}

// ImageHandler はボード背景画像候補のHTTPハンドラー。
type ImageHandler struct {
	picker ImagePickerInterface
}

// NewImageHandler はImageHandlerを生成する。
func NewImageHandler(picker ImagePickerInterface) *ImageHandler {
	return &ImageHandler{picker: picker}
}

// imageResponse は背景画像候補のAPIレスポンス。
// Descriptorをそのままボード作成リクエストのimageフィールドに渡せる。
type imageResponse struct {
	ID         string `json:"id"`
	ThumbURL   string `json:"thumb_url"`
	FullURL    string `json:"full_url"`
	LinkHTML   string `json:"link_html"`
	UserName   string `json:"user_name"`
	Descriptor string `json:"descriptor"`
}

// RandomImages はボード背景候補の画像一覧を返す。
// GET /api/images/random
func (h *ImageHandler) RandomImages(w http.ResponseWriter, r *http.Request) {
	if _, ok := actorOrUnauthorized(w, r); !ok {
		return
	}

	images := h.picker.RandomImages(r.Context())

	res := make([]imageResponse, 0, len(images))
	for _, img := range images {
		res = append(res, imageResponse{
			ID:         img.ID,
			ThumbURL:   img.ThumbURL,
			FullURL:    img.FullURL,
			LinkHTML:   img.LinkHTML,
			UserName:   img.UserName,
			Descriptor: img.Descriptor(),
		})
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"data": res})
}
