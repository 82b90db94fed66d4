package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ticketa/eventpay/internal/interfaces/rest"
)

// Timeout bounds each request and answers 503 with the standard error
// envelope when the handler overruns.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	body, _ := json.Marshal(rest.Response{
		Success: false,
		Error:   &rest.ErrorBody{Code: "TIMEOUT", Message: "request timed out"},
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			timeoutHandler := http.TimeoutHandler(next, timeout, string(body))
			timeoutHandler.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
