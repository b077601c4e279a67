package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/boardman/internal/model"
)

// AuditServiceInterface は監査ログハンドラーが必要とするサービスインターフェース。
type AuditServiceInterface interface {
	ListByOrg(ctx context.Context, actor model.Actor, page, limit int) ([]*model.AuditLog, error)
	ListByEntity(ctx context.Context, actor model.Actor, entityID string) ([]*model.AuditLog, error)
}

// AuditHandler は監査ログ参照のHTTPハンドラー。
type AuditHandler struct {
	service AuditServiceInterface
}

// NewAuditHandler はAuditHandlerを生成する。
func NewAuditHandler(service AuditServiceInterface) *AuditHandler {
	return &AuditHandler{service: service}
}

// auditLogResponse は監査ログエントリのAPIレスポンス。
type auditLogResponse struct {
	ID          string    `json:"id"`
	OrgID       string    `json:"org_id"`
	UserID      string    `json:"user_id"`
	EntityID    string    `json:"entity_id"`
	EntityType  string    `json:"entity_type"`
	EntityTitle string    `json:"entity_title"`
	Action      string    `json:"action"`
	CreatedAt   time.Time `json:"created_at"`
}

func toAuditLogResponse(e *model.AuditLog) auditLogResponse {
	return auditLogResponse{
		ID:          e.ID,
		OrgID:       e.OrgID,
		UserID:      e.UserID,
		EntityID:    e.EntityID,
		EntityType:  string(e.EntityType),
		EntityTitle: e.EntityTitle,
		Action:      string(e.Action),
		CreatedAt:   e.CreatedAt,
	}
}

func toAuditLogResponses(entries []*model.AuditLog) []auditLogResponse {
	res := make([]auditLogResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, toAuditLogResponse(e))
	}
	return res
}

// ListActivity は組織の監査ログをページング付きで返す。
// GET /api/activity?page=&limit=
func (h *AuditHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.service.ListByOrg(r.Context(), actor, page, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"data": toAuditLogResponses(entries)})
}

// CardLogs はカードのアクティビティ（監査ログ）を返す。
// GET /api/cards/:id/logs
func (h *AuditHandler) CardLogs(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	entries, err := h.service.ListByEntity(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"data": toAuditLogResponses(entries)})
}
