package middleware

import (
	"net/http"

	"github.com/frahmantamala/project-expenses/internal"
	"github.com/frahmantamala/project-expenses/pkg/logger"
	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
)

const TraceHeader = "X-Trace-ID"

// TraceID takes the caller's X-Trace-ID or mints one, echoes it on the
// response and scopes the request logger with it. It runs after chi's
// RequestID so both ids land on every log line.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(),
			"trace_id", traceID,
			"request_id", middleware.GetReqID(r.Context()),
		)
		w.Header().Set(TraceHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID records the X-User-ID header as the request owner, used when a
// handler receives no userId query parameter, and scopes the logger with
// whichever owner id is present.
func UserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if header := r.Header.Get("X-User-ID"); header != "" {
			ctx = internal.ContextWithOwnerID(ctx, header)
		}

		owner := r.URL.Query().Get("userId")
		if owner == "" {
			owner = internal.OwnerIDFromContext(ctx)
		}
		if owner != "" {
			ctx = logger.With(ctx, "user_id", owner)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
