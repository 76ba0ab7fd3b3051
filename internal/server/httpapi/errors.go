package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/resumeai/internal/common"
	"github.com/dmitrijs2005/resumeai/internal/server/analyzer"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

// apiError maps err to a status, a code and a detail safe to show users.
func apiError(err error) (int, errorResponse) {
	var (
		ve *common.ValidationError
		qe *common.QuotaError
	)
	switch {
	case errors.As(err, &qe):
		detail := qe.Detail
		if detail == "" {
			detail = "Usage limit reached"
		}
		return http.StatusForbidden, errorResponse{detail, common.CodeQuotaExceeded}
	case errors.As(err, &ve):
		return http.StatusBadRequest, errorResponse{ve.Reason, common.CodeValidation}
	case errors.Is(err, common.ErrUnsupportedMedia):
		return http.StatusBadRequest, errorResponse{"Only PDF files are supported", common.CodeUnsupported}
	case errors.Is(err, common.ErrInvalidOrExpiredChallenge):
		return http.StatusUnauthorized, errorResponse{"Invalid or expired sign-in secret", common.CodeInvalidSecret}
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrUnauthorized):
		return http.StatusUnauthorized, errorResponse{"Unauthorized", common.CodeUnauthorized}
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, errorResponse{"User not found", common.CodeNotFound}
	case errors.Is(err, analyzer.ErrAnalysisFailed):
		return http.StatusInternalServerError, errorResponse{err.Error(), common.CodeAnalysisFailed}
	case errors.Is(err, analyzer.ErrNotConfigured):
		return http.StatusInternalServerError, errorResponse{"Analysis engine not configured", common.CodeAnalysisFailed}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, errorResponse{"Request timed out", common.CodeInternal}
	default:
		return http.StatusInternalServerError, errorResponse{"Internal server error", common.CodeInternal}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError logs server-side failures and sends the mapped error body.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := apiError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "status", status, "error", err.Error())
	}
	writeJSON(w, status, body)
}

func (h *Handler) badRequest(w http.ResponseWriter, detail string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{detail, common.CodeValidation})
}
