package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/resumeai/internal/common"
	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// bearerToken extracts the token from an "Authorization: Bearer x" header.
func bearerToken(r *http.Request) string {
	parts := strings.Fields(r.Header.Get(common.AuthorizationHeaderName))
	if len(parts) != 2 || !strings.EqualFold(parts[0], strings.TrimSpace(common.BearerPrefix)) {
		return ""
	}
	return parts[1]
}

// authenticate rejects requests without a valid access token and stores the
// token subject in the request context.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			h.writeError(w, r, common.ErrUnauthorized)
			return
		}
		userID, err := h.auth.Authenticate(token)
		if err != nil {
			h.logger.Info(r.Context(), "token rejected", "path", r.URL.Path, "error", err.Error())
			h.writeError(w, r, common.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

// requireOwner checks that the claimed user id belongs to the token subject.
// An empty id passes through so the service can report it as missing.
func (h *Handler) requireOwner(w http.ResponseWriter, r *http.Request, claimed string) (string, bool) {
	subject, ok := UserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, common.ErrUnauthorized)
		return "", false
	}
	if claimed != "" && claimed != subject {
		h.writeError(w, r, common.ErrUnauthorized)
		return "", false
	}
	return claimed, true
}

// requestLogger logs one line per request once it completes.
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
