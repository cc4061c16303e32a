// internal/server/response.go
//
// 本檔負責統一 HTTP 回應格式，以及領域錯誤到 HTTP 狀態碼的映射。
package server

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"ledger/internal/bank"
)

// writeJSON 統一輸出成功回應。
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// maxBodyBytes 為請求 JSON 的大小上限。
const maxBodyBytes = 1 << 16

// decodeJSON 以大小上限讀取請求內容並解析為 v。
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// wantsText 回報呼叫端是否以 Accept 要求 text/plain。
func wantsText(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		if mt, _, err := mime.ParseMediaType(strings.TrimSpace(part)); err == nil && mt == "text/plain" {
			return true
		}
	}
	return false
}

// writeText 輸出純文字回應。
func writeText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}

// writeErr 統一輸出錯誤回應（純文字）。
func writeErr(w http.ResponseWriter, err error, code int) {
	http.Error(w, err.Error(), code)
}

// statusFor 將 bank 層錯誤映射為 HTTP 狀態碼：
//   - ErrNotFound       → 404
//   - ErrInsufficient   → 409
//   - ErrNotApplicable  → 422
//   - 其餘參數錯誤       → 400
func statusFor(err error) int {
	switch {
	case errors.Is(err, bank.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, bank.ErrInsufficient):
		return http.StatusConflict
	case errors.Is(err, bank.ErrNotApplicable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, bank.ErrBadAmount),
		errors.Is(err, bank.ErrBadParams),
		errors.Is(err, bank.ErrUnknownKind):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
