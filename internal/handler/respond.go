// Package handler はHTTP APIハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/boardman/internal/action"
	"github.com/hitoshi/boardman/internal/middleware"
	"github.com/hitoshi/boardman/internal/model"
)

// writeJSONResponse はJSONレスポンスを書き込む。
func writeJSONResponse(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// writeAPIErrorResponse は統一エラーフォーマットでレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	middleware.WriteErrorResponse(w, statusCode, apiErr)
}

// decodeJSONBody はリクエストボディをdstにデコードする。
// 失敗時は400を書き込みfalseを返す。
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return false
	}
	return true
}

// actorOrUnauthorized はコンテキストから操作主体を取得する。
// 取得できない場合は401を書き込みfalseを返す。
func actorOrUnauthorized(w http.ResponseWriter, r *http.Request) (model.Actor, bool) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return model.Actor{}, false
	}
	return actor, true
}

// handleServiceError はサービス層のエラーをHTTPレスポンスに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeOrgNotSelected:
		return http.StatusForbidden
	case model.ErrCodeQuotaExceeded:
		return http.StatusForbidden
	case model.ErrCodeBoardNotFound, model.ErrCodeListNotFound, model.ErrCodeCardNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidImage:
		return http.StatusUnprocessableEntity
	case model.ErrCodeBillingFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// actionStateResponse は変更操作レスポンスの統一形式。
// field_errors / error / data のうち1つだけが設定される。
type actionStateResponse[T any] struct {
	FieldErrors action.FieldErrors `json:"field_errors,omitempty"`
	Data        T                  `json:"data,omitempty"`
}

// writeActionState は変更操作の結果を統一形式で書き込む。
// 検証失敗は400、業務エラーはコード別、成功はsuccessStatusで応答する。
func writeActionState[T any](w http.ResponseWriter, st action.State[T], successStatus int) {
	if len(st.FieldErrors) > 0 {
		writeJSONResponse(w, http.StatusBadRequest, actionStateResponse[T]{FieldErrors: st.FieldErrors})
		return
	}
	if st.Err != nil {
		handleServiceError(w, st.Err)
		return
	}
	writeJSONResponse(w, successStatus, actionStateResponse[T]{Data: st.Data})
}
