package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/resumeai/internal/client/models"
	"github.com/dmitrijs2005/resumeai/internal/common"
	"github.com/dmitrijs2005/resumeai/internal/netx"
)

var _ Client = (*HTTPClient)(nil)

type HTTPClient struct {
	baseURL string
	http    *http.Client
	health  *healthProbe

	mu          sync.RWMutex
	accessToken string
}

// NewHTTPClient builds a client for the backend at baseURL. Every request is
// bounded by timeout. When healthAddr is set, Ping uses the gRPC health
// service there instead of GET /health.
func NewHTTPClient(baseURL, healthAddr string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}

	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}

	if healthAddr != "" {
		hp, err := newHealthProbe(healthAddr)
		if err != nil {
			return nil, err
		}
		c.health = hp
	}
	return c, nil
}

func (c *HTTPClient) Close() error {
	if c.health != nil {
		return c.health.Close()
	}
	return nil
}

func (c *HTTPClient) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

func (c *HTTPClient) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	if c.health != nil {
		return c.health.Check(ctx)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return mapTransport(ctx, "ping", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping: %w: status %d", common.ErrTransport, resp.StatusCode)
	}
	return nil
}

type challengeRequest struct {
	Email   string `json:"email"`
	Variant string `json:"variant"`
}

type challengeResponse struct {
	ChallengeID string    `json:"challenge_id"`
	Email       string    `json:"email"`
	Variant     string    `json:"variant"`
	ExpiresAt   time.Time `json:"expires_at"`
	Secret      string    `json:"secret,omitempty"`
}

func (c *HTTPClient) RequestChallenge(ctx context.Context, email string, variant models.ChallengeVariant) (models.ChallengeRef, error) {
	var resp challengeResponse
	err := c.doJSON(ctx, opRequestChallenge, http.MethodPost, "/api/auth/challenge",
		challengeRequest{Email: email, Variant: string(variant)}, &resp)
	if err != nil {
		return models.ChallengeRef{}, err
	}

	v, err := models.ParseChallengeVariant(resp.Variant)
	if err != nil {
		v = variant
	}
	return models.ChallengeRef{
		ID:        resp.ChallengeID,
		Email:     resp.Email,
		Variant:   v,
		ExpiresAt: resp.ExpiresAt,
		Secret:    resp.Secret,
	}, nil
}

type verifyRequest struct {
	ChallengeID string `json:"challenge_id"`
	Secret      string `json:"secret"`
	Email       string `json:"email"`
}

type userResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	UsageCount int    `json:"usage_count"`
	UsageLimit int    `json:"usage_limit"`
}

type verifyResponse struct {
	userResponse
	AccessToken string `json:"access_token"`
}

// VerifyChallenge exchanges the secret for a session. On success the access
// token is also kept for subsequent calls.
func (c *HTTPClient) VerifyChallenge(ctx context.Context, ref models.ChallengeRef, secret string) (models.Session, error) {
	var resp verifyResponse
	err := c.doJSON(ctx, opVerifyChallenge, http.MethodPost, "/api/auth/verify",
		verifyRequest{ChallengeID: ref.ID, Secret: secret, Email: ref.Email}, &resp)
	if err != nil {
		return models.Session{}, err
	}

	s := models.Session{
		UserID:      resp.UserID,
		Email:       resp.Email,
		UsageCount:  resp.UsageCount,
		AccessToken: resp.AccessToken,
	}
	if err := s.Validate(); err != nil {
		return models.Session{}, &common.SubmissionError{Status: http.StatusOK, Detail: "malformed verify response: " + err.Error()}
	}

	c.SetAccessToken(resp.AccessToken)
	return s, nil
}

type analyzeTextRequest struct {
	ResumeText string `json:"resume_text"`
	RoleTarget string `json:"role_target,omitempty"`
}

type analyzeResponse struct {
	AnalysisID    string                `json:"analysis_id"`
	Analysis      models.AnalysisResult `json:"analysis"`
	RemainingUses int                   `json:"remaining_uses"`
}

func (r analyzeResponse) submission() models.Submission {
	res := r.Analysis
	if res.ID == "" {
		res.ID = r.AnalysisID
	}
	return models.Submission{AnalysisID: r.AnalysisID, Result: res, RemainingUses: r.RemainingUses}
}

func (c *HTTPClient) AnalyzeText(ctx context.Context, req models.AnalysisRequest) (models.Submission, error) {
	path := "/api/analyze/text?user_id=" + url.QueryEscape(req.Owner)

	var resp analyzeResponse
	err := c.doJSON(ctx, opAnalyze, http.MethodPost, path,
		analyzeTextRequest{ResumeText: req.Text, RoleTarget: req.RoleTarget}, &resp)
	if err != nil {
		return models.Submission{}, err
	}
	return resp.submission(), nil
}

func (c *HTTPClient) AnalyzePDF(ctx context.Context, req models.AnalysisRequest) (models.Submission, error) {
	if req.Upload == nil {
		return models.Submission{}, common.ErrEmptyInput
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	name := req.Upload.Filename
	if name == "" {
		name = "resume.pdf"
	}
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return models.Submission{}, err
	}
	if _, err := fw.Write(req.Upload.Data); err != nil {
		return models.Submission{}, err
	}
	if err := mw.WriteField("user_id", req.Owner); err != nil {
		return models.Submission{}, err
	}
	if req.RoleTarget != "" {
		if err := mw.WriteField("role_target", req.RoleTarget); err != nil {
			return models.Submission{}, err
		}
	}
	if err := mw.Close(); err != nil {
		return models.Submission{}, err
	}

	var resp analyzeResponse
	if err := c.do(ctx, opAnalyze, http.MethodPost, "/api/analyze/pdf", mw.FormDataContentType(), &buf, &resp); err != nil {
		return models.Submission{}, err
	}
	return resp.submission(), nil
}

func (c *HTTPClient) GetUser(ctx context.Context, id string) (models.UserRecord, error) {
	var resp userResponse
	if err := c.doJSON(ctx, opGetUser, http.MethodGet, "/api/user/"+url.PathEscape(id), nil, &resp); err != nil {
		return models.UserRecord{}, err
	}
	uid := resp.ID
	if uid == "" {
		uid = resp.UserID
	}
	return models.UserRecord{ID: uid, Email: resp.Email, UsageCount: resp.UsageCount, UsageLimit: resp.UsageLimit}, nil
}

type listAnalysesResponse struct {
	Analyses []models.AnalysisResult `json:"analyses"`
}

func (c *HTTPClient) ListAnalyses(ctx context.Context, owner string) ([]models.AnalysisResult, error) {
	var resp listAnalysesResponse
	if err := c.doJSON(ctx, opListAnalyses, http.MethodGet, "/api/analyses/"+url.PathEscape(owner), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Analyses == nil {
		return []models.AnalysisResult{}, nil
	}
	return resp.Analyses, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, o op, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", o, err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, o, method, path, contentType, body, out)
}

func (c *HTTPClient) do(ctx context.Context, o op, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", o, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if t := c.token(); t != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+t)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return mapTransport(ctx, o, err)
	}
	defer resp.Body.Close()

	b, err := netx.ReadBody(resp.Body)
	if err != nil {
		return mapTransport(ctx, o, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapStatus(o, resp.StatusCode, b)
	}

	if out == nil || len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return &common.SubmissionError{Status: resp.StatusCode, Detail: "malformed response: " + err.Error()}
	}
	return nil
}
