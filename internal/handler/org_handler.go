package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/boardman/internal/action"
	"github.com/hitoshi/boardman/internal/model"
)

// sessionCookieName はセッションIDを保持するCookieの名前。
const sessionCookieName = "session_id"

// OrgSelectorInterface はセッションの選択中組織の更新インターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type OrgSelectorInterface interface {
	UpdateOrg(ctx context.Context, id, orgID, orgSlug string) error
}

// OrgHandler は組織選択のHTTPハンドラー。
type OrgHandler struct {
	selector OrgSelectorInterface
}

// NewOrgHandler はOrgHandlerを生成する。
func NewOrgHandler(selector OrgSelectorInterface) *OrgHandler {
	return &OrgHandler{selector: selector}
}

// selectOrgRequest は組織選択リクエストのボディ。
type selectOrgRequest struct {
	OrgID   string `json:"org_id"`
	OrgSlug string `json:"org_slug"`
}

// SelectOrg はセッションの選択中組織を切り替える。
// POST /api/orgs/select
// 組織未選択のセッションでも呼べるため、組織ミドルウェアの外に配置する。
func (h *OrgHandler) SelectOrg(w http.ResponseWriter, r *http.Request) {
	if _, ok := actorOrUnauthorized(w, r); !ok {
		return
	}

	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req selectOrgRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	validate := func(in selectOrgRequest) action.FieldErrors {
		var fe action.FieldErrors
		fe = action.Require(fe, "org_id", in.OrgID, "組織IDは必須です。")
		return fe
	}

	act := action.New(validate, func(ctx context.Context, in selectOrgRequest) (struct{}, error) {
		return struct{}{}, h.selector.UpdateOrg(ctx, cookie.Value, in.OrgID, in.OrgSlug)
	})

	st := act(r.Context(), req)
	if len(st.FieldErrors) > 0 || st.Err != nil {
		writeActionState(w, st, http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
