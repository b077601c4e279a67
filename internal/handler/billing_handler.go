package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/hitoshi/boardman/internal/billing"
	"github.com/hitoshi/boardman/internal/middleware"
	"github.com/hitoshi/boardman/internal/model"
)

// maxWebhookBodySize はWebhookペイロードの最大読み取りサイズ。
const maxWebhookBodySize = 64 * 1024

// BillingRedirectorInterface は課金リダイレクトハンドラーが必要とするインターフェース。
type BillingRedirectorInterface interface {
	Redirect(ctx context.Context, actor model.Actor) (string, error)
}

// WebhookProcessorInterface はWebhookハンドラーが必要とするインターフェース。
type WebhookProcessorInterface interface {
	Process(ctx context.Context, payload []byte, sigHeader string) error
}

// BillingHandler は課金関連のHTTPハンドラー。
type BillingHandler struct {
	redirector BillingRedirectorInterface
	processor  WebhookProcessorInterface
}

// NewBillingHandler はBillingHandlerを生成する。
func NewBillingHandler(redirector BillingRedirectorInterface, processor WebhookProcessorInterface) *BillingHandler {
	return &BillingHandler{
		redirector: redirector,
		processor:  processor,
	}
}

// Redirect は契約・管理画面へのリダイレクトURLを返す。
// POST /api/billing/redirect
func (h *BillingHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	url, err := h.redirector.Redirect(r.Context(), actor)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"data": map[string]string{"url": url},
	})
}

// Webhook は決済プロバイダからのWebhook配送を処理する。
// POST /api/webhook/stripe
//
// 署名不正と組織ID欠落は再送で解決しないため400で応答し、
// プロバイダの再送を止める。それ以外の失敗は500で応答して再送させる。
func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodySize))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの読み取りに失敗しました。",
			Category: "validation",
			Action:   "ペイロードを確認してください。",
		})
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")

	if err := h.processor.Process(r.Context(), payload, sigHeader); err != nil {
		if errors.Is(err, billing.ErrSignature) || errors.Is(err, billing.ErrMissingOrgID) {
			writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
				Code:     "WEBHOOK_REJECTED",
				Message:  "webhookイベントを受理できませんでした。",
				Category: "billing",
				Action:   "署名とペイロードを確認してください。",
			})
			return
		}
		slog.Error("webhookの処理に失敗しました", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]bool{"received": true})
}
