package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/boardman/internal/action"
	"github.com/hitoshi/boardman/internal/board"
	"github.com/hitoshi/boardman/internal/model"
)

// BoardServiceInterface はボードハンドラーが必要とするサービスインターフェース。
type BoardServiceInterface interface {
	Create(ctx context.Context, actor model.Actor, in board.CreateInput) (*model.Board, error)
	UpdateTitle(ctx context.Context, actor model.Actor, boardID, title string) (*model.Board, error)
	Delete(ctx context.Context, actor model.Actor, boardID string) (string, error)
	Get(ctx context.Context, actor model.Actor, boardID string) (*model.Board, error)
	List(ctx context.Context, actor model.Actor) ([]*model.Board, error)
}

// BoardHandler はボード管理のHTTPハンドラー。
type BoardHandler struct {
	service BoardServiceInterface
}

// NewBoardHandler はBoardHandlerを生成する。
func NewBoardHandler(service BoardServiceInterface) *BoardHandler {
	return &BoardHandler{service: service}
}

// createBoardRequest はボード作成リクエストのボディ。
// Imageは画像ピッカーが返すパイプ区切り記述子。
type createBoardRequest struct {
	Title string `json:"title"`
	Image string `json:"image"`
}

// updateBoardRequest はボード更新リクエストのボディ。
type updateBoardRequest struct {
	Title string `json:"title"`
}

// boardResponse はボード情報のAPIレスポンス。
type boardResponse struct {
	ID            string    `json:"id"`
	OrgID         string    `json:"org_id"`
	Title         string    `json:"title"`
	ImageID       string    `json:"image_id"`
	ImageThumbURL string    `json:"image_thumb_url"`
	ImageFullURL  string    `json:"image_full_url"`
	ImageLinkHTML string    `json:"image_link_html"`
	ImageUserName string    `json:"image_user_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toBoardResponse(b *model.Board) boardResponse {
	return boardResponse{
		ID:            b.ID,
		OrgID:         b.OrgID,
		Title:         b.Title,
		ImageID:       b.Image.ID,
		ImageThumbURL: b.Image.ThumbURL,
		ImageFullURL:  b.Image.FullURL,
		ImageLinkHTML: b.Image.LinkHTML,
		ImageUserName: b.Image.UserName,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// validateCreateBoard はボード作成入力を検証する。
func validateCreateBoard(in createBoardRequest) action.FieldErrors {
	var fe action.FieldErrors
	fe = action.Require(fe, "title", in.Title, "タイトルは必須です。")
	fe = action.MinLength(fe, "title", in.Title, 3, "タイトルが短すぎます。")
	fe = action.MaxLength(fe, "title", in.Title, 100, "タイトルが長すぎます。")
	fe = action.Require(fe, "image", in.Image, "背景画像を選択してください。")
	return fe
}

// CreateBoard はボード作成を処理する。
// POST /api/boards
func (h *BoardHandler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req createBoardRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	act := action.New(validateCreateBoard, func(ctx context.Context, in createBoardRequest) (boardResponse, error) {
		b, err := h.service.Create(ctx, actor, board.CreateInput{Title: in.Title, Image: in.Image})
		if err != nil {
			return boardResponse{}, err
		}
		return toBoardResponse(b), nil
	})

	writeActionState(w, act(r.Context(), req), http.StatusCreated)
}

// ListBoards は組織のボード一覧を返す。
// GET /api/boards
func (h *BoardHandler) ListBoards(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	boards, err := h.service.List(r.Context(), actor)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	res := make([]boardResponse, 0, len(boards))
	for _, b := range boards {
		res = append(res, toBoardResponse(b))
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"data": res})
}

// GetBoard はボード詳細を返す。
// GET /api/boards/:id
func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	b, err := h.service.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"data": toBoardResponse(b)})
}

// UpdateBoard はボードタイトルの更新を処理する。
// PATCH /api/boards/:id
func (h *BoardHandler) UpdateBoard(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	boardID := chi.URLParam(r, "id")

	var req updateBoardRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	validate := func(in updateBoardRequest) action.FieldErrors {
		var fe action.FieldErrors
		fe = action.Require(fe, "title", in.Title, "タイトルは必須です。")
		fe = action.MinLength(fe, "title", in.Title, 3, "タイトルが短すぎます。")
		fe = action.MaxLength(fe, "title", in.Title, 100, "タイトルが長すぎます。")
		return fe
	}

	act := action.New(validate, func(ctx context.Context, in updateBoardRequest) (boardResponse, error) {
		b, err := h.service.UpdateTitle(ctx, actor, boardID, in.Title)
		if err != nil {
			return boardResponse{}, err
		}
		return toBoardResponse(b), nil
	})

	writeActionState(w, act(r.Context(), req), http.StatusOK)
}

// DeleteBoard はボード削除を処理し、UIの遷移先パスを返す。
// DELETE /api/boards/:id
func (h *BoardHandler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	redirectTo, err := h.service.Delete(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"data": map[string]string{"redirect_to": redirectTo},
	})
}
