package handler

import (
	"context"
	"net/http"
)

// QuotaReaderInterface は利用状況ハンドラーが必要とするquotaインターフェース。
type QuotaReaderInterface interface {
	MaxFree() int
	GetAvailableCount(ctx context.Context, orgID string) (int, error)
}

// SubscriptionCheckerInterface はサブスクリプション有効性判定のインターフェース。
type SubscriptionCheckerInterface interface {
	Check(ctx context.Context, orgID string) (bool, error)
}

// LimitsHandler はフリープラン利用状況のHTTPハンドラー。
type LimitsHandler struct {
	quota QuotaReaderInterface
	sub   SubscriptionCheckerInterface
}

// NewLimitsHandler はLimitsHandlerを生成する。
func NewLimitsHandler(quota QuotaReaderInterface, sub SubscriptionCheckerInterface) *LimitsHandler {
	return &LimitsHandler{quota: quota, sub: sub}
}

// limitsResponse はフリープラン利用状況のAPIレスポンス。
// Subscribedがtrueの場合、Countは意味を持たない。
type limitsResponse struct {
	Count      int  `json:"count"`
	MaxFree    int  `json:"max_free"`
	Subscribed bool `json:"subscribed"`
}

// GetLimits は組織のフリープラン利用状況を返す。
// GET /api/limits
func (h *LimitsHandler) GetLimits(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	count, err := h.quota.GetAvailableCount(r.Context(), actor.OrgID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	subscribed, err := h.sub.Check(r.Context(), actor.OrgID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"data": limitsResponse{
			Count:      count,
			MaxFree:    h.quota.MaxFree(),
			Subscribed: subscribed,
		},
	})
}
