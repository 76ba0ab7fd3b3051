package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/resumeai/internal/common"
)

// Status refreshes the user record from the backend, reconciling the local
// usage counter, and prints it. Offline, the local view is shown instead.
func (a *App) Status(ctx context.Context) error {
	sess, ok := a.sessions.Current()
	if !ok {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}

	d, err := a.history.Refresh(ctx)
	if err != nil {
		if errors.Is(err, common.ErrTransport) || errors.Is(err, common.ErrTimeout) {
			fmt.Fprintf(a.out, "%s (offline): %d of %d analyses used\n", sess.Email, sess.UsageCount, a.config.UsageLimit)
			return nil
		}
		return err
	}

	limit := d.User.UsageLimit
	if limit <= 0 {
		limit = a.config.UsageLimit
	}
	remaining := limit - d.User.UsageCount
	if remaining < 0 {
		remaining = 0
	}
	fmt.Fprintf(a.out, "%s: %d of %d analyses used, %d left, %d saved\n",
		d.User.Email, d.User.UsageCount, limit, remaining, len(d.Analyses))
	return nil
}

// History lists past analyses, newest first.
func (a *App) History(ctx context.Context) error {
	sess, ok := a.sessions.Current()
	if !ok {
		return common.ErrNoSession
	}

	items, err := a.history.List(ctx, sess.UserID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No analyses yet. Use 'analyze' or 'upload <path>'.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tSCORE\tVERDICT")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", it.ID, it.CreatedAt.Local().Format("2006-01-02 15:04"), it.OverallScore, it.ScoreVerdict)
	}
	return tw.Flush()
}

// Show prints one analysis in full.
func (a *App) Show(ctx context.Context, id string) error {
	sess, ok := a.sessions.Current()
	if !ok {
		return common.ErrNoSession
	}

	res, err := a.history.Get(ctx, sess.UserID, id)
	if err != nil {
		return err
	}
	printAnalysis(a.out, res)
	return nil
}
