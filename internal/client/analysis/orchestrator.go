// Package analysis submits a resume for analysis on behalf of the signed-in
// user.
//
// An Orchestrator runs one attempt at a time through
//
//	Idle -> Validating -> InFlight -> Succeeded | Failed
//
// Input and quota checks happen before any network call. A second Submit
// while an attempt is validating or in flight fails fast with
// common.ErrAlreadyInFlight and does not disturb the first.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/resumeai/internal/client/models"
	"github.com/dmitrijs2005/resumeai/internal/client/quota"
	"github.com/dmitrijs2005/resumeai/internal/common"
	"github.com/dmitrijs2005/resumeai/internal/logging"
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseInFlight   Phase = "in_flight"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// API is the slice of the backend used for submissions.
type API interface {
	AnalyzeText(ctx context.Context, req models.AnalysisRequest) (models.Submission, error)
	AnalyzePDF(ctx context.Context, req models.AnalysisRequest) (models.Submission, error)
}

// Sessions is the slice of the session store the orchestrator needs.
type Sessions interface {
	Current() (models.Session, bool)
	IncrementUsage(ctx context.Context) (int, error)
	Reconcile(ctx context.Context, count int) error
}

type Orchestrator struct {
	api      API
	sessions Sessions
	logger   logging.Logger
	limit    int
	timeout  time.Duration

	mu      sync.Mutex
	phase   Phase
	gen     uint64
	cancel  context.CancelFunc
	lastErr error
}

// NewOrchestrator builds an orchestrator enforcing limit locally and bounding
// each backend call by timeout (zero means no extra bound).
func NewOrchestrator(api API, sessions Sessions, logger logging.Logger, limit int, timeout time.Duration) *Orchestrator {
	return &Orchestrator{
		api:      api,
		sessions: sessions,
		logger:   logger.With("module", "analysis"),
		limit:    limit,
		timeout:  timeout,
		phase:    PhaseIdle,
	}
}

func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// LastError is the failure of the latest finished attempt, if it failed.
func (o *Orchestrator) LastError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// Submit runs one attempt and returns the new analysis on success.
func (o *Orchestrator) Submit(ctx context.Context, req models.AnalysisRequest) (models.Submission, error) {
	o.mu.Lock()
	if o.phase == PhaseValidating || o.phase == PhaseInFlight {
		o.mu.Unlock()
		return models.Submission{}, common.ErrAlreadyInFlight
	}
	o.gen++
	gen := o.gen
	o.phase = PhaseValidating
	o.lastErr = nil
	o.mu.Unlock()

	req, err := o.validate(req)
	if err != nil {
		return models.Submission{}, o.fail(gen, err)
	}

	callCtx, cancel := o.callContext(ctx)
	defer cancel()

	o.mu.Lock()
	if gen != o.gen {
		o.mu.Unlock()
		return models.Submission{}, common.ErrSuperseded
	}
	o.phase = PhaseInFlight
	o.cancel = cancel
	o.mu.Unlock()

	var sub models.Submission
	if req.HasUpload() {
		sub, err = o.api.AnalyzePDF(callCtx, req)
	} else {
		sub, err = o.api.AnalyzeText(callCtx, req)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.gen {
		o.logger.Debug(ctx, "discarding abandoned submission result")
		return models.Submission{}, common.ErrSuperseded
	}
	o.cancel = nil

	if err != nil {
		err = classify(ctx, err)
		if errors.Is(err, common.ErrSuperseded) {
			o.gen++
			o.phase = PhaseIdle
			return models.Submission{}, err
		}
		var qe *common.QuotaError
		if errors.As(err, &qe) && qe.Authoritative {
			// The backend says the allowance is spent; align the local view.
			if rerr := o.sessions.Reconcile(ctx, o.limit); rerr != nil {
				o.logger.Error(ctx, "failed to reconcile usage after server refusal", "error", rerr)
			}
		}
		o.finishLocked(PhaseFailed, err)
		o.logger.Warn(ctx, "submission failed", "user_id", req.Owner, "error", err)
		return models.Submission{}, err
	}

	if sub.AnalysisID == "" {
		err := &common.SubmissionError{Status: 200, Detail: "response did not include an analysis id"}
		o.finishLocked(PhaseFailed, err)
		return models.Submission{}, err
	}

	if n, err := o.sessions.IncrementUsage(ctx); err != nil {
		// The backend already counted this analysis; the next refresh
		// reconciles the local counter.
		o.logger.Error(ctx, "failed to record usage locally", "analysis_id", sub.AnalysisID, "error", err)
	} else {
		o.logger.Info(ctx, "analysis completed", "analysis_id", sub.AnalysisID, "usage_count", n)
	}

	o.finishLocked(PhaseSucceeded, nil)
	return sub, nil
}

// Abandon detaches the caller from the current attempt. Its backend call is
// cancelled and any late result is discarded without touching the session.
func (o *Orchestrator) Abandon() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.phase != PhaseValidating && o.phase != PhaseInFlight {
		return
	}
	o.gen++
	o.phase = PhaseIdle
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

// validate checks the input first, then the session and the local quota.
func (o *Orchestrator) validate(req models.AnalysisRequest) (models.AnalysisRequest, error) {
	hasText, hasUpload := req.HasText(), req.HasUpload()
	switch {
	case !hasText && !hasUpload:
		return req, common.ErrEmptyInput
	case hasText && hasUpload:
		return req, &common.ValidationError{Field: "source", Reason: "provide either text or a file, not both"}
	case hasUpload && !IsPDF(req.Upload.Data):
		return req, fmt.Errorf("%w: only PDF documents are accepted", common.ErrUnsupportedMedia)
	}

	sess, ok := o.sessions.Current()
	if !ok {
		return req, common.ErrNoSession
	}
	req.Owner = sess.UserID

	if err := quota.CanSubmit(sess, o.limit).Err(); err != nil {
		return req, err
	}
	return req, nil
}

func (o *Orchestrator) fail(gen uint64, err error) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.gen {
		return common.ErrSuperseded
	}
	o.finishLocked(PhaseFailed, err)
	return err
}

func (o *Orchestrator) finishLocked(p Phase, err error) {
	o.phase = p
	o.lastErr = err
}

func (o *Orchestrator) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.timeout > 0 {
		return context.WithTimeout(ctx, o.timeout)
	}
	return context.WithCancel(ctx)
}

// classify maps a backend failure onto the submission error taxonomy.
func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled), errors.Is(err, context.Canceled):
		return common.ErrSuperseded
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, common.ErrTimeout):
		return common.ErrTimeout
	case errors.Is(err, common.ErrQuotaExceeded),
		errors.Is(err, common.ErrSubmission),
		errors.Is(err, common.ErrTransport):
		return err
	}
	return &common.SubmissionError{Detail: err.Error()}
}
