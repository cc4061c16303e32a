// internal/server/middleware.go
//
// 本檔定義 HTTP 中介層：request id 與每個請求的結構化日誌。
package server

import (
	"net/http"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
)

// RequestIDHeader 為請求識別碼的 header；呼叫端未提供時由伺服器產生。
const RequestIDHeader = "X-Request-ID"

// statusRecorder 記錄 handler 寫出的狀態碼。
type statusRecorder struct {
	http.ResponseWriter
	status int
}

// WriteHeader 記下狀態碼後轉交給原本的 ResponseWriter。
func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware 為每個請求附上 request id，並在結束後記錄一筆日誌。
func loggingMiddleware(logger log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, reqID)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			begin := time.Now()
			defer func() {
				lvl := level.Info
				if rec.status >= http.StatusInternalServerError {
					lvl = level.Error
				}
				_ = lvl(logger).Log(
					"method", r.Method,
					"path", r.URL.Path,
					"status", rec.status,
					"request_id", reqID,
					"took", time.Since(begin),
				)
			}()
			next.ServeHTTP(rec, r)
		})
	}
}
