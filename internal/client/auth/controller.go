// Package auth drives passwordless sign-in: it asks the backend to issue a
// one-time challenge for an email address, verifies the secret the user
// received, and hands the resulting session to a SessionWriter.
//
// One Controller serves both challenge variants; which one is used comes
// from configuration.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/resumeai/internal/client/models"
	"github.com/dmitrijs2005/resumeai/internal/common"
	"github.com/dmitrijs2005/resumeai/internal/logging"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// API is the slice of the backend the controller talks to.
type API interface {
	RequestChallenge(ctx context.Context, email string, variant models.ChallengeVariant) (models.ChallengeRef, error)
	VerifyChallenge(ctx context.Context, ref models.ChallengeRef, secret string) (models.Session, error)
}

// SessionWriter receives the session exactly once per successful verify.
type SessionWriter interface {
	Set(ctx context.Context, s models.Session) error
}

type Options struct {
	Variant models.ChallengeVariant
	// Timeout bounds each backend call; zero leaves only the caller's deadline.
	Timeout time.Duration
	// EchoSecret lets a secret echoed by a development backend through to
	// the caller. Off by default.
	EchoSecret bool
}

type Controller struct {
	api      API
	sessions SessionWriter
	logger   logging.Logger
	opts     Options

	mu    sync.Mutex
	state State
	email string
	ref   *models.ChallengeRef
	gen   uint64
}

func NewController(api API, sessions SessionWriter, logger logging.Logger, opts Options) *Controller {
	if opts.Variant == "" {
		opts.Variant = models.VariantLink
	}
	return &Controller{
		api:      api,
		sessions: sessions,
		logger:   logger.With("module", "auth"),
		opts:     opts,
		state:    StateUnauthenticated,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Email is the address of the latest challenge. It survives failures so the
// caller can offer it again.
func (c *Controller) Email() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.email
}

func (c *Controller) Variant() models.ChallengeVariant {
	return c.opts.Variant
}

// Challenge returns the outstanding challenge, if one was delivered.
func (c *Controller) Challenge() (models.AuthChallenge, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ref == nil {
		return models.AuthChallenge{}, false
	}
	st := models.ChallengeIssued
	switch c.state {
	case StateAuthenticated:
		st = models.ChallengeVerified
	case StateFailed:
		st = models.ChallengeInvalid
	}
	if st == models.ChallengeIssued && !c.ref.ExpiresAt.IsZero() && time.Now().After(c.ref.ExpiresAt) {
		st = models.ChallengeExpired
	}
	return models.AuthChallenge{Email: c.email, Reference: *c.ref, Variant: c.ref.Variant, State: st}, true
}

// RequestChallenge asks the backend to send a challenge to email. A request
// made while an earlier one is pending supersedes it.
func (c *Controller) RequestChallenge(ctx context.Context, email string) (models.ChallengeRef, error) {
	email = strings.TrimSpace(email)
	if err := validate.Var(email, "required,email"); err != nil {
		return models.ChallengeRef{}, &common.ValidationError{Field: "email", Reason: "must be a valid email address"}
	}

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.state = StateChallengeRequested
	c.email = email
	c.ref = nil
	c.mu.Unlock()

	callCtx, cancel := c.withTimeout(ctx)
	ref, err := c.api.RequestChallenge(callCtx, email, c.opts.Variant)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return models.ChallengeRef{}, common.ErrSuperseded
	}
	if err != nil {
		err = c.classify(ctx, err)
		if errors.Is(err, common.ErrSuperseded) {
			c.gen++
			c.state = StateUnauthenticated
			return models.ChallengeRef{}, err
		}
		c.state = StateFailed
		c.logger.Warn(ctx, "challenge request failed", "email", email, "error", err)
		return models.ChallengeRef{}, fmt.Errorf("request challenge: %w", err)
	}

	if ref.Email == "" {
		ref.Email = email
	}
	if ref.Variant == "" {
		ref.Variant = c.opts.Variant
	}
	if !c.opts.EchoSecret {
		ref.Secret = ""
	}

	c.ref = &ref
	c.state = StateChallengeDelivered
	c.logger.Info(ctx, "challenge delivered", "email", email, "variant", ref.Variant)
	return ref, nil
}

// Verify submits the secret for the delivered challenge. On success the
// session is written and returned.
func (c *Controller) Verify(ctx context.Context, secret string) (models.Session, error) {
	secret = strings.TrimSpace(secret)

	c.mu.Lock()
	if c.state != StateChallengeDelivered || c.ref == nil {
		st := c.state
		c.mu.Unlock()
		if st.inFlight() {
			return models.Session{}, common.ErrAlreadyInFlight
		}
		return models.Session{}, &common.ValidationError{Field: "challenge", Reason: "no delivered challenge to verify"}
	}
	if err := checkSecret(c.ref.Variant, secret); err != nil {
		c.mu.Unlock()
		return models.Session{}, err
	}
	gen := c.gen
	ref := *c.ref
	c.state = StateVerifying
	c.mu.Unlock()

	callCtx, cancel := c.withTimeout(ctx)
	sess, err := c.api.VerifyChallenge(callCtx, ref, secret)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return models.Session{}, common.ErrSuperseded
	}
	if err != nil {
		err = c.classify(ctx, err)
		if errors.Is(err, common.ErrSuperseded) {
			c.gen++
			c.state = StateUnauthenticated
			return models.Session{}, err
		}
		c.state = StateFailed
		c.logger.Warn(ctx, "challenge verification failed", "email", c.email, "error", err)
		return models.Session{}, fmt.Errorf("verify challenge: %w", err)
	}

	if sess.Email == "" {
		sess.Email = c.email
	}
	if err := c.sessions.Set(ctx, sess); err != nil {
		c.state = StateFailed
		return models.Session{}, fmt.Errorf("store session: %w", err)
	}

	c.state = StateAuthenticated
	c.logger.Info(ctx, "signed in", "user_id", sess.UserID)
	return sess, nil
}

// Abandon drops any pending challenge. A call still in flight completes
// into ErrSuperseded and never writes a session.
func (c *Controller) Abandon() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.state = StateUnauthenticated
	c.ref = nil
}

func (c *Controller) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opts.Timeout > 0 {
		return context.WithTimeout(ctx, c.opts.Timeout)
	}
	return context.WithCancel(ctx)
}

// classify maps context outcomes onto the error taxonomy. A caller that
// cancelled its own context has walked away from the attempt.
func (c *Controller) classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return common.ErrSuperseded
	case errors.Is(err, context.DeadlineExceeded):
		return common.ErrTimeout
	}
	return err
}

func checkSecret(v models.ChallengeVariant, secret string) error {
	switch v {
	case models.VariantCode:
		if !common.IsDigits(secret, common.ChallengeCodeLength) {
			return &common.ValidationError{Field: "secret", Reason: "code must be exactly 6 digits"}
		}
	default:
		if secret == "" {
			return &common.ValidationError{Field: "secret", Reason: "token is required"}
		}
	}
	return nil
}
