package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/frahmantamala/project-expenses/internal/transport"
)

// RecoveryMiddleware turns a handler panic into a 500 failure envelope.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	writer := transport.NewBaseHandler(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("panic recovered",
						"error", rec,
						"method", r.Method,
						"url", r.URL.String(),
						"stack", string(debug.Stack()))

					writer.WriteJSON(w, http.StatusInternalServerError, transport.FailureEnvelope{
						Error:   "Internal server error",
						Details: fmt.Sprintf("panic: %v", rec),
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
