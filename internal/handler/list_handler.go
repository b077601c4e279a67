package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/boardman/internal/action"
	"github.com/hitoshi/boardman/internal/model"
	"github.com/hitoshi/boardman/internal/repository"
)

// ListServiceInterface はリストハンドラーが必要とするサービスインターフェース。
type ListServiceInterface interface {
	Create(ctx context.Context, actor model.Actor, boardID, title string) (*model.List, error)
	UpdateTitle(ctx context.Context, actor model.Actor, listID, title string) (*model.List, error)
	Delete(ctx context.Context, actor model.Actor, listID string) (*model.List, error)
	Copy(ctx context.Context, actor model.Actor, listID string) (*model.List, error)
	Reorder(ctx context.Context, actor model.Actor, boardID string, items []repository.ReorderItem) error
	ListByBoard(ctx context.Context, actor model.Actor, boardID string) ([]*model.List, error)
}

// ListHandler はリスト管理のHTTPハンドラー。
type ListHandler struct {
	service ListServiceInterface
}

// NewListHandler はListHandlerを生成する。
func NewListHandler(service ListServiceInterface) *ListHandler {
	return &ListHandler{service: service}
}

// createListRequest はリスト作成リクエストのボディ。
type createListRequest struct {
	Title string `json:"title"`
}

// updateListRequest はリスト更新リクエストのボディ。
type updateListRequest struct {
	Title string `json:"title"`
}

// reorderListsRequest はリスト並べ替えリクエストのボディ。
type reorderListsRequest struct {
	Items []reorderListItem `json:"items"`
}

type reorderListItem struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

// listResponse はリスト情報のAPIレスポンス。
type listResponse struct {
	ID        string    `json:"id"`
	BoardID   string    `json:"board_id"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toListResponse(l *model.List) listResponse {
	return listResponse{
		ID:        l.ID,
		BoardID:   l.BoardID,
		Title:     l.Title,
		Position:  l.Position,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// validateListTitle はリストタイトルの共通検証。
func validateListTitle(title string) action.FieldErrors {
	var fe action.FieldErrors
	fe = action.Require(fe, "title", title, "タイトルは必須です。")
	fe = action.MinLength(fe, "title", title, 2, "タイトルが短すぎます。")
	fe = action.MaxLength(fe, "title", title, 100, "タイトルが長すぎます。")
	return fe
}

// CreateList はリスト作成を処理する。
// POST /api/boards/:id/lists
func (h *ListHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	boardID := chi.URLParam(r, "id")

	var req createListRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	act := action.New(
		func(in createListRequest) action.FieldErrors { return validateListTitle(in.Title) },
		func(ctx context.Context, in createListRequest) (listResponse, error) {
			l, err := h.service.Create(ctx, actor, boardID, in.Title)
			if err != nil {
				return listResponse{}, err
			}
			return toListResponse(l), nil
		},
	)

	writeActionState(w, act(r.Context(), req), http.StatusCreated)
}

// ListLists はボード内のリスト一覧を返す。
// GET /api/boards/:id/lists
func (h *ListHandler) ListLists(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	lists, err := h.service.ListByBoard(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	res := make([]listResponse, 0, len(lists))
	for _, l := range lists {
		res = append(res, toListResponse(l))
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"data": res})
}

// UpdateList はリストタイトルの更新を処理する。
// PATCH /api/lists/:id
func (h *ListHandler) UpdateList(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	listID := chi.URLParam(r, "id")

	var req updateListRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	act := action.New(
		func(in updateListRequest) action.FieldErrors { return validateListTitle(in.Title) },
		func(ctx context.Context, in updateListRequest) (listResponse, error) {
			l, err := h.service.UpdateTitle(ctx, actor, listID, in.Title)
			if err != nil {
				return listResponse{}, err
			}
			return toListResponse(l), nil
		},
	)

	writeActionState(w, act(r.Context(), req), http.StatusOK)
}

// DeleteList はリスト削除を処理する。
// DELETE /api/lists/:id
func (h *ListHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	l, err := h.service.Delete(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"data": toListResponse(l)})
}

// CopyList はリスト複製を処理する。
// POST /api/lists/:id/copy
func (h *ListHandler) CopyList(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	l, err := h.service.Copy(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, map[string]any{"data": toListResponse(l)})
}

// ReorderLists はリスト並べ替えバッチを処理する。
// PUT /api/boards/:id/lists/order
func (h *ListHandler) ReorderLists(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	boardID := chi.URLParam(r, "id")

	var req reorderListsRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	validate := func(in reorderListsRequest) action.FieldErrors {
		var fe action.FieldErrors
		fe = action.NotEmptySlice(fe, "items", in.Items, "並べ替え対象を指定してください。")
		for _, item := range in.Items {
			fe = action.Require(fe, "items", item.ID, "リストIDは必須です。")
		}
		return fe
	}

	act := action.New(validate, func(ctx context.Context, in reorderListsRequest) (struct{}, error) {
		items := make([]repository.ReorderItem, 0, len(in.Items))
		for _, item := range in.Items {
			items = append(items, repository.ReorderItem{ID: item.ID, Position: item.Position})
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
