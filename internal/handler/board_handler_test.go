package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/boardman/internal/board"
	"github.com/hitoshi/boardman/internal/middleware"
	"github.com/hitoshi/boardman/internal/model"
)

type mockBoardService struct {
	createFn      func(ctx context.Context, actor model.Actor, in board.CreateInput) (*model.Board, error)
	updateTitleFn func(ctx context.Context, actor model.Actor, boardID, title string) (*model.Board, error)
	deleteFn      func(ctx context.Context, actor model.Actor, boardID string) (string, error)
	getFn         func(ctx context.Context, actor model.Actor, boardID string) (*model.Board, error)
	listFn        func(ctx context.Context, actor model.Actor) ([]*model.Board, error)
}

func (m *mockBoardService) Create(ctx context.Context, actor model.Actor, in board.CreateInput) (*model.Board, error) {
	if m.createFn != nil {
		return m.createFn(ctx, actor, in)
	}
	return nil, nil
}
func (m *mockBoardService) UpdateTitle(ctx context.Context, actor model.Actor, boardID, title string) (*model.Board, error) {
	if m.updateTitleFn != nil {
		return m.updateTitleFn(ctx, actor, boardID, title)
	}
	return nil, nil
}
func (m *mockBoardService) Delete(ctx context.Context, actor model.Actor, boardID string) (string, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, actor, boardID)
	}
	return "", nil
}
func (m *mockBoardService) Get(ctx context.Context, actor model.Actor, boardID string) (*model.Board, error) {
	if m.getFn != nil {
		return m.getFn(ctx, actor, boardID)
	}
	return nil, nil
}
func (m *mockBoardService) List(ctx context.Context, actor model.Actor) ([]*model.Board, error) {
	if m.listFn != nil {
		return m.listFn(ctx, actor)
	}
	return nil, nil
}

var testActor = model.Actor{
	UserID:  "user-1",
	Email:   "taro@example.com",
	OrgID:   "org-1",
	OrgSlug: "acme",
}

const validImage = "img-1|https://example.com/t.jpg|https://example.com/f.jpg|https://example.com/p|Taro"

// authedRequest は操作主体を注入したリクエストを生成する。
func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.ContextWithActor(req.Context(), testActor))
}

// withURLParam はchiのルートパラメータをリクエストに設定する。
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// TestCreateBoard_Success は作成成功が201とボード情報を返すことを検証する。
func TestCreateBoard_Success(t *testing.T) {
	svc := &mockBoardService{
		createFn: func(ctx context.Context, actor model.Actor, in board.CreateInput) (*model.Board, error) {
			img, _ := model.ParseBoardImage(in.Image)
			return &model.Board{ID: "board-1", OrgID: actor.OrgID, Title: in.Title, Image: img}, nil
		},
	}
	h := NewBoardHandler(svc)

	body := `{"title":"開発ボード","image":"` + validImage + `"}`
	rec := httptest.NewRecorder()
	h.CreateBoard(rec, authedRequest(http.MethodPost, "/api/boards", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body = %s", rec.Code, rec.Body.String())
	}
	var res struct {
		Data struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if res.Data.ID != "board-1" || res.Data.Title != "開発ボード" {
		t.Errorf("data = %+v", res.Data)
	}
}

// TestCreateBoard_ValidationFailure は検証失敗が400とフィールド別エラーを
// 返し、サービスが呼ばれないことを検証する。
func TestCreateBoard_ValidationFailure(t *testing.T) {
	called := false
	svc := &mockBoardService{
		createFn: func(ctx context.Context, actor model.Actor, in board.CreateInput) (*model.Board, error) {
			called = true
			return nil, nil
		},
	}
	h := NewBoardHandler(svc)

	rec := httptest.NewRecorder()
	h.CreateBoard(rec, authedRequest(http.MethodPost, "/api/boards", `{"title":"ab","image":""}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if called {
		t.Error("service must not be called on validation failure")
	}
	var res struct {
		FieldErrors map[string][]string `json:"field_errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(res.FieldErrors["title"]) == 0 {
		t.Error("title field error expected")
	}
	if len(res.FieldErrors["image"]) == 0 {
		t.Error("image field error expected")
	}
}

// TestCreateBoard_QuotaExceeded は上限超過が403と統一エラーフォーマットに
// なることを検証する。
func TestCreateBoard_QuotaExceeded(t *testing.T) {
	svc := &mockBoardService{
		createFn: func(ctx context.Context, actor model.Actor, in board.CreateInput) (*model.Board, error) {
			return nil, model.NewQuotaExceededError(5)
		},
	}
	h := NewBoardHandler(svc)

	body := `{"title":"開発ボード","image":"` + validImage + `"}`
	rec := httptest.NewRecorder()
	h.CreateBoard(rec, authedRequest(http.MethodPost, "/api/boards", body))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	var body2 middleware.ErrorResponseBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body2); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body2.Code != model.ErrCodeQuotaExceeded {
		t.Errorf("code = %q, want QUOTA_EXCEEDED", body2.Code)
	}
	if body2.Category != "quota" {
		t.Errorf("category = %q, want quota", body2.Category)
	}
}

// TestCreateBoard_InvalidJSON は不正なボディが400になることを検証する。
func TestCreateBoard_InvalidJSON(t *testing.T) {
	h := NewBoardHandler(&mockBoardService{})

	rec := httptest.NewRecorder()
	h.CreateBoard(rec, authedRequest(http.MethodPost, "/api/boards", `{broken`))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestCreateBoard_NoActor は操作主体なしが401になることを検証する。
func TestCreateBoard_NoActor(t *testing.T) {
	h := NewBoardHandler(&mockBoardService{})

	req := httptest.NewRequest(http.MethodPost, "/api/boards", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.CreateBoard(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// TestGetBoard_NotFound はボード未検出が404になることを検証する。
func TestGetBoard_NotFound(t *testing.T) {
	svc := &mockBoardService{
		getFn: func(ctx context.Context, actor model.Actor, boardID string) (*model.Board, error) {
			return nil, model.NewBoardNotFoundError(boardID)
		},
	}
	h := NewBoardHandler(svc)

	req := withURLParam(authedRequest(http.MethodGet, "/api/boards/board-x", ""), "id", "board-x")
	rec := httptest.NewRecorder()
	h.GetBoard(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestDeleteBoard は削除成功がUIの遷移先パスを返すことを検証する。
func TestDeleteBoard(t *testing.T) {
	svc := &mockBoardService{
		deleteFn: func(ctx context.Context, actor model.Actor, boardID string) (string, error) {
			if boardID != "board-1" {
				t.Errorf("boardID = %q, want board-1", boardID)
			}
			return "/organization/org-1", nil
		},
	}
	h := NewBoardHandler(svc)

	req := withURLParam(authedRequest(http.MethodDelete, "/api/boards/board-1", ""), "id", "board-1")
	rec := httptest.NewRecorder()
	h.DeleteBoard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var res struct {
		Data struct {
			RedirectTo string `json:"redirect_to"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if res.Data.RedirectTo != "/organization/org-1" {
		t.Errorf("redirect_to = %q", res.Data.RedirectTo)
	}
}

// TestUpdateBoard はタイトル更新の検証ルールを検証する。
func TestUpdateBoard(t *testing.T) {
	svc := &mockBoardService{
		updateTitleFn: func(ctx context.Context, actor model.Actor, boardID, title string) (*model.Board, error) {
			return &model.Board{ID: boardID, OrgID: actor.OrgID, Title: title}, nil
		},
	}
	h := NewBoardHandler(svc)

	t.Run("成功", func(t *testing.T) {
		req := withURLParam(authedRequest(http.MethodPatch, "/api/boards/board-1", `{"title":"新ボード名"}`), "id", "board-1")
		rec := httptest.NewRecorder()
		h.UpdateBoard(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("短すぎるタイトルは400", func(t *testing.T) {
		req := withURLParam(authedRequest(http.MethodPatch, "/api/boards/board-1", `{"title":"ab"}`), "id", "board-1")
		rec := httptest.NewRecorder()
		h.UpdateBoard(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}
