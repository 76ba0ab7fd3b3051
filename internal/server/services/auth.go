// Package services contains server-side business logic. This file implements
// AuthService, which issues and verifies passwordless sign-in challenges and
// mints access tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/resumeai/internal/common"
	"github.com/dmitrijs2005/resumeai/internal/cryptox"
	"github.com/dmitrijs2005/resumeai/internal/logging"
	"github.com/dmitrijs2005/resumeai/internal/server/auth"
	"github.com/dmitrijs2005/resumeai/internal/server/challenges"
	"github.com/dmitrijs2005/resumeai/internal/server/config"
	"github.com/dmitrijs2005/resumeai/internal/server/mailer"
	"github.com/dmitrijs2005/resumeai/internal/server/models"
	"github.com/dmitrijs2005/resumeai/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// linkTokenBytes is the entropy of a link token before hex encoding.
const linkTokenBytes = 32

// IssuedChallenge describes a challenge that was just sent. Secret is only
// set when the server runs with secret echo enabled.
type IssuedChallenge struct {
	ID        string
	Email     string
	Variant   models.ChallengeVariant
	ExpiresAt time.Time
	Secret    string
}

// Session is the outcome of a successful verification.
type Session struct {
	User        *models.User
	AccessToken string
}

type AuthService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	challenges   challenges.Store
	mailer       mailer.Mailer
	logger       logging.Logger
	jwtSecret    []byte
	accessTTL    time.Duration
	challengeTTL time.Duration
	usageLimit   int
	devEcho      bool
	now          func() time.Time
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, store challenges.Store, mail mailer.Mailer,
	cfg *config.Config, logger logging.Logger) *AuthService {
	return &AuthService{
		db:           db,
		repomanager:  m,
		challenges:   store,
		mailer:       mail,
		logger:       logger.With("module", "auth"),
		jwtSecret:    []byte(cfg.SecretKey),
		accessTTL:    cfg.AccessTokenValidityDuration,
		challengeTTL: cfg.ChallengeTTL,
		usageLimit:   cfg.UsageLimit,
		devEcho:      cfg.DevEchoSecret,
		now:          time.Now,
	}
}

// NormalizeEmail lower-cases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RequestChallenge creates the user on first contact, issues a new secret
// for email and delivers it. Any earlier challenge for email stops working.
func (s *AuthService) RequestChallenge(ctx context.Context, email string, variant models.ChallengeVariant) (*IssuedChallenge, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, &common.ValidationError{Field: "email", Reason: "email is required"}
	}
	if variant == "" {
		variant = models.VariantLink
	}
	if !variant.Valid() {
		return nil, &common.ValidationError{Field: "variant", Reason: fmt.Sprintf("unknown variant %q", variant)}
	}

	user, err := s.repomanager.Users(s.db).GetOrCreate(ctx, email, s.usageLimit)
	if err != nil {
		return nil, fmt.Errorf("get or create user: %w", err)
	}

	secret, hash, err := newSecret(variant)
	if err != nil {
		return nil, err
	}

	now := s.now()
	c := &models.Challenge{
		ID:         uuid.NewString(),
		Email:      email,
		UserID:     user.ID,
		Variant:    variant,
		SecretHash: hash,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.challengeTTL),
	}
	if err := s.challenges.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save challenge: %w", err)
	}

	msg := mailer.Message{To: email, ChallengeID: c.ID, Variant: variant, Secret: secret, ExpiresAt: c.ExpiresAt}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return nil, fmt.Errorf("deliver challenge: %w", err)
	}

	s.logger.Info(ctx, "challenge issued", "challenge_id", c.ID, "user_id", user.ID, "variant", string(variant))

	out := &IssuedChallenge{ID: c.ID, Email: email, Variant: variant, ExpiresAt: c.ExpiresAt}
	if s.devEcho {
		out.Secret = secret
	}
	return out, nil
}

// Verify redeems a challenge. Unknown, expired, superseded, already used
// and mismatched challenges all yield common.ErrInvalidOrExpiredChallenge.
// email, when given, must match the address the challenge was sent to.
func (s *AuthService) Verify(ctx context.Context, challengeID, secret, email string) (*Session, error) {
	c, err := s.challenges.Get(ctx, challengeID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidOrExpiredChallenge
		}
		return nil, fmt.Errorf("load challenge: %w", err)
	}

	if c.Expired(s.now()) {
		_ = s.challenges.Delete(ctx, c.ID)
		return nil, common.ErrInvalidOrExpiredChallenge
	}
	if email != "" && NormalizeEmail(email) != c.Email {
		return nil, common.ErrInvalidOrExpiredChallenge
	}

	if !secretMatches(c, strings.TrimSpace(secret)) {
		n, err := s.challenges.RecordFailure(ctx, c.ID)
		if err == nil && n >= challenges.MaxAttempts {
			_ = s.challenges.Delete(ctx, c.ID)
			s.logger.Warn(ctx, "challenge discarded after repeated failures", "challenge_id", c.ID)
		}
		return nil, common.ErrInvalidOrExpiredChallenge
	}

	// Whoever deletes the challenge first owns the sign-in.
	if err := s.challenges.Delete(ctx, c.ID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidOrExpiredChallenge
		}
		return nil, fmt.Errorf("consume challenge: %w", err)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, c.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info(ctx, "challenge verified", "challenge_id", c.ID, "user_id", user.ID)
	return &Session{User: user, AccessToken: token}, nil
}

// Authenticate returns the user id carried by an access token.
func (s *AuthService) Authenticate(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

func newSecret(variant models.ChallengeVariant) (secret, hash string, err error) {
	switch variant {
	case models.VariantCode:
		secret, err = common.MakeRandDigits(common.ChallengeCodeLength)
		if err != nil {
			return "", "", err
		}
		hash, err = cryptox.HashCode(secret)
		if err != nil {
			return "", "", fmt.Errorf("hash code: %w", err)
		}
		return secret, hash, nil
	default:
		secret, err = common.MakeRandHexString(linkTokenBytes)
		if err != nil {
			return "", "", err
		}
		return secret, cryptox.HashToken(secret), nil
	}
}

func secretMatches(c *models.Challenge, secret string) bool {
	if secret == "" {
		return false
	}
	switch c.Variant {
	case models.VariantCode:
		if !common.IsDigits(secret, common.ChallengeCodeLength) {
			return false
		}
		return cryptox.CompareCode(c.SecretHash, secret) == nil
	default:
		return cryptox.CompareToken(c.SecretHash, secret) == nil
	}
}
