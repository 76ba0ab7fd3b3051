package mailer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dmitrijs2005/resumeai/internal/logging"
	"github.com/dmitrijs2005/resumeai/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestConsoleMailer_Send(t *testing.T) {
	var out, logs bytes.Buffer
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&logs, nil)))
	m := NewConsoleMailer(&out, logger)

	exp := time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC)
	err := m.Send(context.Background(), Message{
		To: "a@b.co", ChallengeID: "c-1", Variant: models.VariantCode, Secret: "123456", ExpiresAt: exp,
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "To: a@b.co")
	assert.Contains(t, out.String(), "123456")
	assert.NotContains(t, logs.String(), "123456", "secrets stay out of the log")
	assert.Contains(t, logs.String(), "c-1")
}

func TestMessage_BodyLink(t *testing.T) {
	body := Message{Variant: models.VariantLink, Secret: "abcdef", ChallengeID: "c-2"}.Body()
	assert.Contains(t, body, "abcdef")
	assert.Contains(t, body, "c-2")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestConsoleMailer_WriteError(t *testing.T) {
	m := NewConsoleMailer(failingWriter{}, discardLogger())
	err := m.Send(context.Background(), Message{To: "a@b.co"})
	assert.ErrorContains(t, err, "write message")
}
