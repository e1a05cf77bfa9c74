package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"review-backend/internal/apperr"
	"review-backend/internal/metrics"
	"review-backend/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type sentCode struct {
	email, username, code string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentCode
	err  error
}

func (m *recordingMailer) SendConfirmationCode(_ context.Context, email, username, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentCode{email, username, code})
	return m.err
}

func (m *recordingMailer) last() sentCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

type authFixture struct {
	store  *memStore
	mailer *recordingMailer
	tokens TokenService
	svc    *authService
	clock  time.Time
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		store:  newMemStore(),
		mailer: &recordingMailer{},
		tokens: NewTokenService("test-secret", "review-backend", time.Hour),
		clock:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	n := 0
	generator := CodeGeneratorFunc(func() (string, error) {
		n++
		return fmt.Sprintf("CODE%08d", n), nil
	})
	svc := NewAuthService(memUsers{f.store}, memCodes{f.store}, f.tokens, f.mailer, generator,
		24*time.Hour, testLogger(), metrics.Nop()).(*authService)
	svc.hashCost = bcrypt.MinCost
	svc.now = func() time.Time { return f.clock }
	svc.dispatch = func(fn func()) { fn() }
	f.svc = svc
	return f
}

func TestRequestSignup_ValidatesInput(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		email    string
		field    string
	}{
		{"reserved username", "me", "me@example.com", "username"},
		{"empty username", "", "a@example.com", "username"},
		{"bad characters", "bad name!", "a@example.com", "username"},
		{"bad email", "alice", "not-an-email", "email"},
		{"missing email", "alice", "", "email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.RequestSignup(ctx, tc.username, tc.email)
			require.Error(t, err)
			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, apperr.KindValidation, appErr.Kind)
			require.NotEmpty(t, appErr.Details)
			assert.Equal(t, tc.field, appErr.Details[0].Field)
		})
	}
	assert.Zero(t, memUsers{f.store}.count())
	assert.Empty(t, f.mailer.sent)
}

func TestRequestSignup_DeliversCode(t *testing.T) {
	f := newAuthFixture()

	user, err := f.svc.RequestSignup(context.Background(), "alice", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, policy.RoleUser, user.Role)
	assert.False(t, user.IsConfirmed)

	sent := f.mailer.last()
	assert.Equal(t, "alice@example.com", sent.email)
	assert.Equal(t, "CODE00000001", sent.code)

	latest, err := memCodes{f.store}.Latest(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.NotEqual(t, sent.code, latest.CodeHash)
	assert.Equal(t, f.clock.Add(24*time.Hour), latest.ExpiresAt)
}

func TestRequestSignup_SamePairReissues(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	first, err := f.svc.RequestSignup(ctx, "alice", "alice@example.com")
	require.NoError(t, err)
	oldCode := f.mailer.last().code

	second, err := f.svc.RequestSignup(ctx, "alice", "alice@example.com")
	require.NoError(t, err)
	newCode := f.mailer.last().code

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, memUsers{f.store}.count())
	assert.NotEqual(t, oldCode, newCode)

	_, err = f.svc.Confirm(ctx, "alice", oldCode)
	assert.ErrorIs(t, err, ErrInvalidCode)

	token, err := f.svc.Confirm(ctx, "alice", newCode)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestRequestSignup_ConfirmedPairReissues(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	first, err := f.svc.RequestSignup(ctx, "alice", "alice@example.com")
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, "alice", f.mailer.last().code)
	require.NoError(t, err)

	f.clock = f.clock.Add(time.Hour)
	second, err := f.svc.RequestSignup(ctx, "alice", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, memUsers{f.store}.count())

	stored, err := memUsers{f.store}.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.IsConfirmed)

	token, err := f.svc.Confirm(ctx, "alice", f.mailer.last().code)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	stored, err = memUsers{f.store}.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, stored.IsConfirmed)
	assert.Equal(t, 1, memUsers{f.store}.count())
}

func TestRequestSignup_Conflicts(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	_, err := f.svc.RequestSignup(ctx, "alice", "alice@example.com")
	require.NoError(t, err)

	_, err = f.svc.RequestSignup(ctx, "alice", "other@example.com")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = f.svc.RequestSignup(ctx, "bob", "alice@example.com")
	assert.ErrorIs(t, err, ErrEmailTaken)

	assert.Equal(t, 1, memUsers{f.store}.count())
}

func TestRequestSignup_DeliveryFailureDoesNotFail(t *testing.T) {
	f := newAuthFixture()
	f.mailer.err = errors.New("smtp down")

	_, err := f.svc.RequestSignup(context.Background(), "alice", "alice@example.com")
	assert.NoError(t, err)
}

func TestConfirm_IssuesTokenOnce(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	user, err := f.svc.RequestSignup(ctx, "alice", "alice@example.com")
	require.NoError(t, err)
	code := f.mailer.last().code

	token, err := f.svc.Confirm(ctx, "alice", code)
	require.NoError(t, err)

	claims, err := f.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	stored, err := memUsers{f.store}.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsConfirmed)

	_, err = f.svc.Confirm(ctx, "alice", code)
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidCode))
}

func TestConfirm_Failures(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	_, err := f.svc.RequestSignup(ctx, "alice", "alice@example.com")
	require.NoError(t, err)
	code := f.mailer.last().code

	_, err = f.svc.Confirm(ctx, "nobody", code)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = f.svc.Confirm(ctx, "alice", "WRONGCODE000")
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = f.svc.Confirm(ctx, "alice", "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	f.clock = f.clock.Add(25 * time.Hour)
	_, err = f.svc.Confirm(ctx, "alice", code)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestConfirm_ConcurrentExchangesSucceedOnce(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	_, err := f.svc.RequestSignup(ctx, "alice", "alice@example.com")
	require.NoError(t, err)
	code := f.mailer.last().code

	const n = 6
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Confirm(ctx, "alice", code)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestAuthenticate(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	_, err := f.svc.RequestSignup(ctx, "alice", "alice@example.com")
	require.NoError(t, err)
	token, err := f.svc.Confirm(ctx, "alice", f.mailer.last().code)
	require.NoError(t, err)

	user, err := f.svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = f.svc.Authenticate(ctx, "garbage")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	require.NoError(t, memUsers{f.store}.Delete(ctx, user.ID))
	_, err = f.svc.Authenticate(ctx, token)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}
