package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/resumeai/internal/common"
	"github.com/dmitrijs2005/resumeai/internal/netx"
)

type op string

const (
	opRequestChallenge op = "request challenge"
	opVerifyChallenge  op = "verify challenge"
	opAnalyze          op = "analyze"
	opGetUser          op = "get user"
	opListAnalyses     op = "list analyses"
)

// errorBody is the backend's JSON error envelope.
type errorBody struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

func decodeErrorBody(b []byte) errorBody {
	var eb errorBody
	if err := json.Unmarshal(b, &eb); err != nil || eb.Detail == "" {
		eb.Detail = string(b)
	}
	return eb
}

// mapStatus turns a non-2xx response into the error callers match on.
// Submissions only ever fail with a server QuotaError or a SubmissionError
// carrying the server's detail.
func mapStatus(o op, status int, body []byte) error {
	eb := decodeErrorBody(body)

	if status == http.StatusForbidden || eb.Code == common.CodeQuotaExceeded {
		return &common.QuotaError{Authoritative: true, Detail: eb.Detail}
	}

	if o == opAnalyze {
		se := &common.SubmissionError{Status: status, Detail: eb.Detail}
		if status == http.StatusUnauthorized {
			se.Cause = common.ErrUnauthorized
		}
		return se
	}

	switch status {
	case http.StatusUnauthorized:
		if o == opVerifyChallenge {
			return fmt.Errorf("%s: %w", o, common.ErrInvalidOrExpiredChallenge)
		}
		return fmt.Errorf("%s: %w", o, common.ErrUnauthorized)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", o, common.ErrNotFound)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		switch eb.Code {
		case common.CodeValidation:
			return &common.ValidationError{Field: "request", Reason: eb.Detail}
		case common.CodeUnsupported:
			return fmt.Errorf("%w: %s", common.ErrUnsupportedMedia, eb.Detail)
		case common.CodeInvalidSecret:
			return fmt.Errorf("%s: %w", o, common.ErrInvalidOrExpiredChallenge)
		}
	}
	return &common.SubmissionError{Status: status, Detail: eb.Detail}
}

// mapTransport classifies a failure that happened before a response arrived.
func mapTransport(ctx context.Context, o op, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return ctx.Err()
	case netx.IsTimeout(err):
		return fmt.Errorf("%s: %w", o, common.ErrTimeout)
	case netx.IsConnectivity(err):
		return fmt.Errorf("%s: %w: %v", o, common.ErrTransport, err)
	}
	return fmt.Errorf("%s: %w", o, err)
}
