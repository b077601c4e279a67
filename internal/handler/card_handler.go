package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/boardman/internal/action"
	"github.com/hitoshi/boardman/internal/card"
	"github.com/hitoshi/boardman/internal/model"
	"github.com/hitoshi/boardman/internal/repository"
)

// CardServiceInterface はカードハンドラーが必要とするサービスインターフェース。
type CardServiceInterface interface {
	Create(ctx context.Context, actor model.Actor, listID, title string) (*model.Card, error)
	Update(ctx context.Context, actor model.Actor, cardID string, in card.UpdateInput) (*model.Card, error)
	Delete(ctx context.Context, actor model.Actor, cardID string) (*model.Card, error)
	Get(ctx context.Context, actor model.Actor, cardID string) (*model.Card, error)
	ListByList(ctx context.Context, actor model.Actor, listID string) ([]*model.Card, error)
	Reorder(ctx context.Context, actor model.Actor, boardID string, items []repository.CardReorderItem) error
}

// CardHandler はカード管理のHTTPハンドラー。
type CardHandler struct {
	service CardServiceInterface
}

// NewCardHandler はCardHandlerを生成する。
func NewCardHandler(service CardServiceInterface) *CardHandler {
	return &CardHandler{service: service}
}

// createCardRequest はカード作成リクエストのボディ。
type createCardRequest struct {
	Title string `json:"title"`
}

// updateCardRequest はカード部分更新リクエストのボディ。
// 省略されたフィールドは変更しない。
type updateCardRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// reorderCardsRequest はカード並べ替えリクエストのボディ。
type reorderCardsRequest struct {
	Items []reorderCardItem `json:"items"`
}

type reorderCardItem struct {
	ID       string `json:"id"`
	ListID   string `json:"list_id"`
	Position int    `json:"position"`
}

// cardResponse はカード情報のAPIレスポンス。
type cardResponse struct {
	ID          string    `json:"id"`
	ListID      string    `json:"list_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toCardResponse(c *model.Card) cardResponse {
	return cardResponse{
		ID:          c.ID,
		ListID:      c.ListID,
		Title:       c.Title,
		Description: c.Description,
		Position:    c.Position,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CreateCard はカード作成を処理する。
// POST /api/lists/:id/cards
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	listID := chi.URLParam(r, "id")

	var req createCardRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	validate := func(in createCardRequest) action.FieldErrors {
		var fe action.FieldErrors
		fe = action.Require(fe, "title", in.Title, "タイトルは必須です。")
		fe = action.MinLength(fe, "title", in.Title, 2, "タイトルが短すぎます。")
		fe = action.MaxLength(fe, "title", in.Title, 100, "タイトルが長すぎます。")
		return fe
	}

	act := action.New(validate, func(ctx context.Context, in createCardRequest) (cardResponse, error) {
		c, err := h.service.Create(ctx, actor, listID, in.Title)
		if err != nil {
			return cardResponse{}, err
		}
		return toCardResponse(c), nil
	})

	writeActionState(w, act(r.Context(), req), http.StatusCreated)
}

// GetCard はカード詳細を返す。
// GET /api/cards/:id
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	c, err := h.service.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"data": toCardResponse(c)})
}

// ListCards はリスト内のカード一覧を返す。
// GET /api/lists/:id/cards
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	cards, err := h.service.ListByList(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	res := make([]cardResponse, 0, len(cards))
	for _, c := range cards {
		res = append(res, toCardResponse(c))
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"data": res})
}

// UpdateCard はカード部分更新を処理する。
// PATCH /api/cards/:id
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	cardID := chi.URLParam(r, "id")

	var req updateCardRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	validate := func(in updateCardRequest) action.FieldErrors {
		var fe action.FieldErrors
		if in.Title == nil && in.Description == nil {
			fe = action.Require(fe, "title", "", "更新する項目を指定してください。")
			return fe
		}
		if in.Title != nil {
			fe = action.Require(fe, "title", *in.Title, "タイトルは必須です。")
			fe = action.MinLength(fe, "title", *in.Title, 2, "タイトルが短すぎます。")
			fe = action.MaxLength(fe, "title", *in.Title, 100, "タイトルが長すぎます。")
		}
		return fe
	}

	act := action.New(validate, func(ctx context.Context, in updateCardRequest) (cardResponse, error) {
		c, err := h.service.Update(ctx, actor, cardID, card.UpdateInput{
			Title:       in.Title,
			Description: in.Description,
		})
		if err != nil {
			return cardResponse{}, err
		}
		return toCardResponse(c), nil
	})

	writeActionState(w, act(r.Context(), req), http.StatusOK)
}

// DeleteCard はカード削除を処理する。
// DELETE /api/cards/:id
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	c, err := h.service.Delete(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"data": toCardResponse(c)})
}

// ReorderCards はカード並べ替えバッチを処理する。リストをまたぐ移動を含む。
// PUT /api/boards/:id/cards/order
func (h *CardHandler) ReorderCards(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	boardID := chi.URLParam(r, "id")

	var req reorderCardsRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	validate := func(in reorderCardsRequest) action.FieldErrors {
		var fe action.FieldErrors
		fe = action.NotEmptySlice(fe, "items", in.Items, "並べ替え対象を指定してください。")
		for _, item := range in.Items {
			fe = action.Require(fe, "items", item.ID, "カードIDは必須です。")
			fe = action.Require(fe, "items", item.ListID, "リストIDは必須です。")
		}
		return fe
	}

	act := action.New(validate, func(ctx context.Context, in reorderCardsRequest) (struct{}, error) {
		items := make([]repository.CardReorderItem, 0, len(in.Items))
		for _, item := range in.Items {
			items = append(items, repository.CardReorderItem{
				ID:       item.ID,
				ListID:   item.ListID,
				Position: item.Position,
			})
		}
		return struct{}{}, h.service.Reorder(ctx, actor, boardID, items)
	})

	st := act(r.Context(), req)
	if len(st.FieldErrors) > 0 || st.Err != nil {
		writeActionState(w, st, http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
