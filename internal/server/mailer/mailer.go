// Package mailer delivers sign-in secrets to users.
package mailer

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/resumeai/internal/logging"
	"github.com/dmitrijs2005/resumeai/internal/server/models"
)

// Message is one sign-in delivery.
type Message struct {
	To          string
	ChallengeID string
	Variant     models.ChallengeVariant
	Secret      string
	ExpiresAt   time.Time
}

// Body renders the text a user would receive.
func (m Message) Body() string {
	switch m.Variant {
	case models.VariantCode:
		return fmt.Sprintf("Your resumeai sign-in code is %s. It expires at %s.",
			m.Secret, m.ExpiresAt.UTC().Format(time.RFC1123))
	default:
		return fmt.Sprintf("Sign in to resumeai with this token: %s (challenge %s). It expires at %s.",
			m.Secret, m.ChallengeID, m.ExpiresAt.UTC().Format(time.RFC1123))
	}
}

type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// ConsoleMailer prints messages to a writer, for development setups without
// a mail relay. The logger only sees delivery metadata.
type ConsoleMailer struct {
	mu     sync.Mutex
	out    io.Writer
	logger logging.Logger
}

func NewConsoleMailer(out io.Writer, logger logging.Logger) *ConsoleMailer {
	return &ConsoleMailer{out: out, logger: logger.With("module", "mailer")}
}

func (c *ConsoleMailer) Send(ctx context.Context, m Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := fmt.Fprintf(c.out, "To: %s\n%s\n\n", m.To, m.Body()); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	c.logger.Info(ctx, "sign-in message delivered", "email", m.To, "challenge_id", m.ChallengeID, "variant", string(m.Variant))
	return nil
}
