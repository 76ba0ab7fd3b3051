// Package httpapi exposes the sign-in and analysis operations over JSON/HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/resumeai/internal/logging"
	"github.com/dmitrijs2005/resumeai/internal/server/models"
	"github.com/dmitrijs2005/resumeai/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// MaxUploadBytes bounds a PDF upload, multipart overhead included.
const MaxUploadBytes = 10 << 20

// maxJSONBytes bounds JSON request bodies.
const maxJSONBytes = 1 << 20

type AuthAPI interface {
	RequestChallenge(ctx context.Context, email string, variant models.ChallengeVariant) (*services.IssuedChallenge, error)
	Verify(ctx context.Context, challengeID, secret, email string) (*services.Session, error)
	Authenticate(token string) (string, error)
}

type AnalysisAPI interface {
	AnalyzeText(ctx context.Context, userID, text, roleTarget string) (*services.Outcome, error)
	AnalyzePDF(ctx context.Context, userID string, data []byte, roleTarget string) (*services.Outcome, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	ListAnalyses(ctx context.Context, userID string) ([]*models.Analysis, error)
}

// Pinger reports database reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	auth      AuthAPI
	analysis  AnalysisAPI
	db        Pinger
	validator *validator.Validate
	logger    logging.Logger
}

func NewHandler(auth AuthAPI, analysis AnalysisAPI, db Pinger, logger logging.Logger) *Handler {
	return &Handler{
		auth:      auth,
		analysis:  analysis,
		db:        db,
		validator: validator.New(),
		logger:    logger.With("module", "httpapi"),
	}
}

// decode reads a bounded JSON body into dst and runs struct validation.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxJSONBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		h.badRequest(w, "Invalid request body")
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		h.badRequest(w, validationDetail(err))
		return false
	}
	return true
}

// validationDetail renders the first failed rule as "field: rule".
func validationDetail(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "Invalid request"
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", jsonName(fe.Field()), fe.Tag()))
	}
	return "Invalid " + strings.Join(parts, ", ")
}

func jsonName(field string) string {
	switch field {
	case "ChallengeID":
		return "challenge_id"
	case "ResumeText":
		return "resume_text"
	case "RoleTarget":
		return "role_target"
	default:
		return strings.ToLower(field)
	}
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "healthy", Database: "ok"}
	if err := h.db.PingContext(r.Context()); err != nil {
		h.logger.Warn(r.Context(), "health check failed", "error", err.Error())
		resp = healthResponse{Status: "unhealthy", Database: "unreachable"}
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) requestChallenge(w http.ResponseWriter, r *http.Request) {
	var req challengeRequest
	if !h.decode(w, r, &req) {
		return
	}

	ch, err := h.auth.RequestChallenge(r.Context(), req.Email, models.ChallengeVariant(req.Variant))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, challengeResponse{
		ChallengeID: ch.ID,
		Email:       ch.Email,
		Variant:     string(ch.Variant),
		ExpiresAt:   ch.ExpiresAt,
		Secret:      ch.Secret,
	})
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !h.decode(w, r, &req) {
		return
	}

	sess, err := h.auth.Verify(r.Context(), req.ChallengeID, req.Secret, req.Email)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{
		userResponse: newUserResponse(sess.User),
		AccessToken:  sess.AccessToken,
	})
}

func (h *Handler) analyzeText(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireOwner(w, r, r.URL.Query().Get("user_id"))
	if !ok {
		return
	}

	var req analyzeTextRequest
	if !h.decode(w, r, &req) {
		return
	}

	out, err := h.analysis.AnalyzeText(r.Context(), userID, req.ResumeText, req.RoleTarget)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeOutcome(w, out)
}

func (h *Handler) analyzePDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.badRequest(w, "File too large")
			return
		}
		h.badRequest(w, "Invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	userID, ok := h.requireOwner(w, r, r.FormValue("user_id"))
	if !ok {
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.badRequest(w, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out, err := h.analysis.AnalyzePDF(r.Context(), userID, data, r.FormValue("role_target"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeOutcome(w, out)
}

func (h *Handler) writeOutcome(w http.ResponseWriter, out *services.Outcome) {
	writeJSON(w, http.StatusOK, analyzeResponse{
		AnalysisID:    out.Analysis.ID,
		Analysis:      newAnalysisResponse(out.Analysis),
		RemainingUses: out.RemainingUses,
	})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireOwner(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	u, err := h.analysis.GetUser(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(u))
}

func (h *Handler) listAnalyses(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireOwner(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	list, err := h.analysis.ListAnalyses(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := listAnalysesResponse{Analyses: make([]analysisResponse, 0, len(list))}
	for _, a := range list {
		resp.Analyses = append(resp.Analyses, newAnalysisResponse(a))
	}
	writeJSON(w, http.StatusOK, resp)
}
