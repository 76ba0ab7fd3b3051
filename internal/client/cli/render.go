package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/resumeai/internal/client/models"
	"github.com/dmitrijs2005/resumeai/internal/common"
)

func printAnalysis(w io.Writer, r models.AnalysisResult) {
	fmt.Fprintf(w, "\nScore: %d/100", r.OverallScore)
	if r.ScoreVerdict != "" {
		fmt.Fprintf(w, " (%s)", r.ScoreVerdict)
	}
	fmt.Fprintln(w)
	if r.SummaryInsight != "" {
		fmt.Fprintf(w, "\n%s\n", r.SummaryInsight)
	}

	printList(w, "Strengths", r.Strengths)
	printList(w, "Weaknesses", r.Weaknesses)
	printList(w, "ATS issues", r.ATSIssues)

	if len(r.ImprovedBullets) > 0 {
		fmt.Fprintln(w, "\nImproved bullets:")
		for _, b := range r.ImprovedBullets {
			fmt.Fprintf(w, "  - before: %s\n    after:  %s\n", b.Original, b.Improved)
		}
	}

	printList(w, "Recommendations", r.Recommendations)
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, it := range items {
		fmt.Fprintf(w, "  - %s\n", it)
	}
}

// describeError turns an error from any command into a line for the user.
func describeError(err error) string {
	var qe *common.QuotaError
	var se *common.SubmissionError
	var ve *common.ValidationError

	switch {
	case errors.As(err, &qe):
		if qe.Authoritative {
			if qe.Detail != "" {
				return qe.Detail
			}
			return "the server reports your free analyses are used up"
		}
		return fmt.Sprintf("you have used all %d free analyses", qe.Limit)
	case errors.As(err, &ve):
		return fmt.Sprintf("invalid %s: %s", ve.Field, ve.Reason)
	case errors.Is(err, common.ErrEmptyInput):
		return "nothing to analyze, paste some text or upload a PDF"
	case errors.Is(err, common.ErrUnsupportedMedia):
		return "only PDF files can be uploaded"
	case errors.Is(err, common.ErrInvalidOrExpiredChallenge):
		return "that link or code is invalid or has expired, run 'login' again"
	case errors.Is(err, common.ErrNoSession):
		return "not signed in, run 'login' first"
	case errors.Is(err, common.ErrUnauthorized):
		return "your session is no longer valid, run 'logout' and 'login' again"
	case errors.Is(err, common.ErrAlreadyInFlight):
		return "a request is already running"
	case errors.Is(err, common.ErrNotFound):
		return "not found"
	case errors.Is(err, common.ErrTimeout):
		return "the server took too long to respond"
	case errors.Is(err, common.ErrTransport):
		return "cannot reach the server"
	case errors.Is(err, common.ErrSuperseded):
		return "cancelled"
	case errors.As(err, &se):
		if se.Detail != "" {
			return se.Detail
		}
		return se.Error()
	}
	return err.Error()
}
