package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/resumeai/internal/common"
	"github.com/dmitrijs2005/resumeai/internal/server/auth"
	"github.com/dmitrijs2005/resumeai/internal/server/challenges"
	"github.com/dmitrijs2005/resumeai/internal/server/config"
	"github.com/dmitrijs2005/resumeai/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	svc   *AuthService
	users *fakeUsers
	mail  *captureMailer
	store *challenges.MemoryStore
}

func newAuthFixture(t *testing.T, devEcho bool) *authFixture {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "k"
	cfg.DevEchoSecret = devEcho

	f := &authFixture{
		users: newFakeUsers(),
		mail:  &captureMailer{},
		store: challenges.NewMemoryStore(),
	}
	f.svc = NewAuthService(nil, &fakeRepoMgr{users: f.users, analyses: &fakeAnalyses{}}, f.store, f.mail, cfg, quietLogger())
	return f
}

func TestRequestChallenge_Link(t *testing.T) {
	f := newAuthFixture(t, false)

	ic, err := f.svc.RequestChallenge(context.Background(), "  Jane@Example.COM ", "")
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", ic.Email)
	assert.Equal(t, models.VariantLink, ic.Variant)
	assert.Empty(t, ic.Secret, "no echo unless enabled")
	assert.WithinDuration(t, time.Now().Add(time.Hour), ic.ExpiresAt, 5*time.Second)

	msg := f.mail.last()
	assert.Equal(t, "jane@example.com", msg.To)
	assert.Len(t, msg.Secret, 64)

	stored, err := f.store.Get(context.Background(), ic.ID)
	require.NoError(t, err)
	assert.NotEqual(t, msg.Secret, stored.SecretHash, "only the hash is kept")

	u, err := f.users.GetByID(context.Background(), stored.UserID)
	require.NoError(t, err)
	assert.Equal(t, 3, u.UsageLimit)
}

func TestRequestChallenge_CodeEcho(t *testing.T) {
	f := newAuthFixture(t, true)

	ic, err := f.svc.RequestChallenge(context.Background(), "a@b.co", models.VariantCode)
	require.NoError(t, err)
	assert.True(t, common.IsDigits(ic.Secret, 6))
	assert.Equal(t, f.mail.last().Secret, ic.Secret)
}

func TestRequestChallenge_Invalid(t *testing.T) {
	f := newAuthFixture(t, false)

	_, err := f.svc.RequestChallenge(context.Background(), "   ", models.VariantLink)
	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)

	_, err = f.svc.RequestChallenge(context.Background(), "a@b.co", "sms")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "variant", ve.Field)
	assert.Empty(t, f.mail.sent)
}

func TestRequestChallenge_DeliveryFailure(t *testing.T) {
	f := newAuthFixture(t, false)
	f.mail.err = errors.New("smtp down")

	_, err := f.svc.RequestChallenge(context.Background(), "a@b.co", models.VariantLink)
	assert.ErrorContains(t, err, "smtp down")
}

func TestVerify_Success(t *testing.T) {
	for _, v := range []models.ChallengeVariant{models.VariantLink, models.VariantCode} {
		t.Run(string(v), func(t *testing.T) {
			f := newAuthFixture(t, true)
			ic, err := f.svc.RequestChallenge(context.Background(), "a@b.co", v)
			require.NoError(t, err)

			sess, err := f.svc.Verify(context.Background(), ic.ID, " "+ic.Secret+" ", "A@B.co")
			require.NoError(t, err)
			assert.Equal(t, "a@b.co", sess.User.Email)

			sub, err := auth.GetUserIDFromToken(sess.AccessToken, []byte("k"))
			require.NoError(t, err)
			assert.Equal(t, sess.User.ID, sub)

			id, err := f.svc.Authenticate(sess.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, sess.User.ID, id)

			_, err = f.svc.Verify(context.Background(), ic.ID, ic.Secret, "")
			assert.ErrorIs(t, err, common.ErrInvalidOrExpiredChallenge, "single use")
		})
	}
}

func TestVerify_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown id", func(t *testing.T) {
		f := newAuthFixture(t, true)
		_, err := f.svc.Verify(ctx, "nope", "secret", "")
		assert.ErrorIs(t, err, common.ErrInvalidOrExpiredChallenge)
	})

	t.Run("wrong secret then right one", func(t *testing.T) {
		f := newAuthFixture(t, true)
		ic, _ := f.svc.RequestChallenge(ctx, "a@b.co", models.VariantCode)

		_, err := f.svc.Verify(ctx, ic.ID, "000000x", "")
		assert.ErrorIs(t, err, common.ErrInvalidOrExpiredChallenge)

		_, err = f.svc.Verify(ctx, ic.ID, ic.Secret, "")
		assert.NoError(t, err, "a typo does not burn the challenge")
	})

	t.Run("email mismatch", func(t *testing.T) {
		f := newAuthFixture(t, true)
		ic, _ := f.svc.RequestChallenge(ctx, "a@b.co", models.VariantLink)
		_, err := f.svc.Verify(ctx, ic.ID, ic.Secret, "other@b.co")
		assert.ErrorIs(t, err, common.ErrInvalidOrExpiredChallenge)
	})

	t.Run("expired", func(t *testing.T) {
		f := newAuthFixture(t, true)
		ic, _ := f.svc.RequestChallenge(ctx, "a@b.co", models.VariantLink)
		f.svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

		_, err := f.svc.Verify(ctx, ic.ID, ic.Secret, "")
		assert.ErrorIs(t, err, common.ErrInvalidOrExpiredChallenge)
	})

	t.Run("superseded", func(t *testing.T) {
		f := newAuthFixture(t, true)
		first, _ := f.svc.RequestChallenge(ctx, "a@b.co", models.VariantLink)
		second, _ := f.svc.RequestChallenge(ctx, "a@b.co", models.VariantLink)

		_, err := f.svc.Verify(ctx, first.ID, first.Secret, "")
		assert.ErrorIs(t, err, common.ErrInvalidOrExpiredChallenge)
		_, err = f.svc.Verify(ctx, second.ID, second.Secret, "")
		assert.NoError(t, err)
	})

	t.Run("too many failures", func(t *testing.T) {
		f := newAuthFixture(t, true)
		ic, _ := f.svc.RequestChallenge(ctx, "a@b.co", models.VariantCode)
		for i := 0; i < challenges.MaxAttempts; i++ {
			_, _ = f.svc.Verify(ctx, ic.ID, "bad", "")
		}
		_, err := f.svc.Verify(ctx, ic.ID, ic.Secret, "")
		assert.ErrorIs(t, err, common.ErrInvalidOrExpiredChallenge)
	})
}

func TestVerify_ConcurrentSingleUse(t *testing.T) {
	f := newAuthFixture(t, true)
	ic, err := f.svc.RequestChallenge(context.Background(), "a@b.co", models.VariantLink)
	require.NoError(t, err)

	var ok atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.Verify(context.Background(), ic.ID, ic.Secret, ""); err == nil {
				ok.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), ok.Load())
}
