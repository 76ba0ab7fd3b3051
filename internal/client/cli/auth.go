package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/resumeai/internal/client/models"
	"github.com/dmitrijs2005/resumeai/internal/client/quota"
)

// Login asks for an email, requests a challenge and verifies the secret the
// user received. A code is read without echo; a link token is pasted.
func (a *App) Login(ctx context.Context) error {
	if sess, ok := a.sessions.Current(); ok {
		fmt.Fprintf(a.out, "Already signed in as %s. Use 'logout' first.\n", sess.Email)
		return nil
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	ref, err := a.auth.RequestChallenge(ctx, email)
	if err != nil {
		return err
	}

	var secret string
	switch ref.Variant {
	case models.VariantCode:
		fmt.Fprintf(a.out, "A 6-digit code was sent to %s.\n", ref.Email)
		if ref.Secret != "" {
			fmt.Fprintf(a.out, "(development) code: %s\n", ref.Secret)
		}
		secret, err = getSecret("Enter code", a.out)
	default:
		fmt.Fprintf(a.out, "A sign-in link was sent to %s.\n", ref.Email)
		if ref.Secret != "" {
			fmt.Fprintf(a.out, "(development) token: %s\n", ref.Secret)
		}
		secret, err = getSimpleText(a.reader, "Paste the token from the link", a.out)
	}
	if err != nil {
		a.auth.Abandon()
		return err
	}

	sess, err := a.auth.Verify(ctx, secret)
	if err != nil {
		return err
	}

	d := quota.CanSubmit(sess, a.config.UsageLimit)
	fmt.Fprintf(a.out, "Signed in as %s. %d of %d free analyses left.\n", sess.Email, d.Remaining(), d.Limit)
	return nil
}

// Logout forgets the local session and drops any pending challenge.
func (a *App) Logout(ctx context.Context) error {
	a.auth.Abandon()
	if err := a.sessions.Clear(ctx); err != nil {
		return err
	}
	a.api.SetAccessToken("")
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}
