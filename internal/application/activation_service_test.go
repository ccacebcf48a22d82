package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rimsapp/rims-activation/internal/domain/entity"
	"github.com/rimsapp/rims-activation/pkg/activation"
)

// --- fakes ---

type tokenPair struct {
	token   string
	expires time.Time
}

type fakeUserRepo struct {
	mu           sync.Mutex
	byEmail      map[string]*entity.User
	getErr       error
	updateErr    error
	markErr      error
	updateCalls  int
	markCalls    int
	writtenPairs []tokenPair
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{byEmail: map[string]*entity.User{}}
	for _, u := range users {
		r.byEmail[u.Email] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byEmail[u.Email] = u
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// UpdateActivation mirrors the single-statement production write: the pair
// is stored under one lock so a torn token/expiry state is impossible.
func (r *fakeUserRepo) UpdateActivation(ctx context.Context, id, token string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls++
	if r.updateErr != nil {
		return r.updateErr
	}
	for _, u := range r.byEmail {
		if u.ID == id {
			tok := token
			exp := expires
			u.ActivationToken = &tok
			u.ActivationExpires = &exp
			r.writtenPairs = append(r.writtenPairs, tokenPair{token: token, expires: expires})
			return nil
		}
	}
	return entity.ErrNotFound
}

func (r *fakeUserRepo) MarkActivated(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markCalls++
	if r.markErr != nil {
		return r.markErr
	}
	for _, u := range r.byEmail {
		if u.ID == id {
			u.EmailVerified = true
			u.ActivationToken = nil
			u.ActivationExpires = nil
			return nil
		}
	}
	return entity.ErrNotFound
}

type fakeDispatcher struct {
	mu     sync.Mutex
	calls  []ActivationEmail
	result DispatchResult
}

func (d *fakeDispatcher) SendActivation(ctx context.Context, msg ActivationEmail) DispatchResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, msg)
	return d.result
}

func (d *fakeDispatcher) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

type fakeLogRepo struct {
	mu        sync.Mutex
	rows      []*entity.ActivationAttempt
	appendErr error
}

func (l *fakeLogRepo) Append(ctx context.Context, a *entity.ActivationAttempt) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.appendErr != nil {
		return l.appendErr
	}
	l.rows = append(l.rows, a)
	return nil
}

func (l *fakeLogRepo) all() []*entity.ActivationAttempt {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*entity.ActivationAttempt(nil), l.rows...)
}

// --- helpers ---

func pendingUser(email string) *entity.User {
	return &entity.User{
		ID:          "user-1",
		Email:       email,
		Name:        "Test User",
		AccountType: "researcher",
	}
}

func newService(users *fakeUserRepo, d *fakeDispatcher, logs *fakeLogRepo) *ActivationService {
	return NewActivationService(
		users,
		activation.NewGenerator(24*time.Hour),
		d,
		NewAuditor(logs, nil),
		nil,
		time.Second,
	)
}

// --- Resend ---

func TestResend_InvalidEmail(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo()
	d := &fakeDispatcher{result: DispatchResult{Sent: true}}
	logs := &fakeLogRepo{}
	svc := newService(users, d, logs)

	_, err := svc.Resend(context.Background(), ResendInput{Email: "not-an-email"})
	assert.ErrorIs(t, err, entity.ErrInvalidEmail)
	assert.Zero(t, users.updateCalls)
	assert.Zero(t, d.callCount())
	assert.Empty(t, logs.all())
}

func TestResend_UnknownAccount_GenericOK(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo()
	d := &fakeDispatcher{result: DispatchResult{Sent: true}}
	logs := &fakeLogRepo{}
	svc := newService(users, d, logs)

	res, err := svc.Resend(context.Background(), ResendInput{Email: "ghost@example.org", IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeGenericOK, res.Outcome)

	// no mutation, no mail, but the attempt is audited
	assert.Zero(t, users.updateCalls)
	assert.Zero(t, d.callCount())
	rows := logs.all()
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Success)
	assert.Equal(t, "ghost@example.org", rows[0].Email)
	assert.Equal(t, "10.0.0.1", rows[0].IP)
}

func TestResend_AlreadyActivated_NoWrites(t *testing.T) {
	t.Parallel()

	u := pendingUser("done@example.org")
	u.EmailVerified = true
	users := newFakeUserRepo(u)
	d := &fakeDispatcher{result: DispatchResult{Sent: true}}
	logs := &fakeLogRepo{}
	svc := newService(users, d, logs)

	res, err := svc.Resend(context.Background(), ResendInput{Email: "Done@Example.org"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyActivated, res.Outcome)
	assert.Zero(t, users.updateCalls, "already-activated resend must not touch the user store")
	assert.Zero(t, d.callCount())
	require.Len(t, logs.all(), 1)
}

func TestResend_HappyPath(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo(pendingUser("pending@example.org"))
	d := &fakeDispatcher{result: DispatchResult{Sent: true}}
	logs := &fakeLogRepo{}
	svc := newService(users, d, logs)

	res, err := svc.Resend(context.Background(), ResendInput{Email: "pending@example.org"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeEmailSent, res.Outcome)

	u, err := users.GetByEmail(context.Background(), "pending@example.org")
	require.NoError(t, err)
	require.NotNil(t, u.ActivationToken)
	require.NotNil(t, u.ActivationExpires)
	assert.True(t, u.ActivationExpires.After(time.Now().Add(23*time.Hour)))

	require.Equal(t, 1, d.callCount())
	assert.Equal(t, *u.ActivationToken, d.calls[0].Token)
	assert.True(t, d.calls[0].IsResend)

	rows := logs.all()
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Success)
	assert.Equal(t, "researcher", rows[0].AccountType)
}

func TestResend_ReissueInvalidatesPreviousToken(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo(pendingUser("pending@example.org"))
	d := &fakeDispatcher{result: DispatchResult{Sent: true}}
	svc := newService(users, d, &fakeLogRepo{})

	_, err := svc.Resend(context.Background(), ResendInput{Email: "pending@example.org"})
	require.NoError(t, err)
	first, _ := users.GetByEmail(context.Background(), "pending@example.org")

	_, err = svc.Resend(context.Background(), ResendInput{Email: "pending@example.org"})
	require.NoError(t, err)
	second, _ := users.GetByEmail(context.Background(), "pending@example.org")

	assert.NotEqual(t, *first.ActivationToken, *second.ActivationToken)

	// the old token no longer confirms
	err = svc.Confirm(context.Background(), "pending@example.org", *first.ActivationToken)
	assert.ErrorIs(t, err, entity.ErrInvalidOrExpiredToken)
}

func TestResend_DispatchFailure_TokenSurvives(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo(pendingUser("pending@example.org"))
	d := &fakeDispatcher{result: DispatchResult{Err: "smtp unreachable"}}
	logs := &fakeLogRepo{}
	svc := newService(users, d, logs)

	res, err := svc.Resend(context.Background(), ResendInput{Email: "pending@example.org"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeEmailFailed, res.Outcome)

	// token persisted despite the failed delivery; the caller may retry
	u, _ := users.GetByEmail(context.Background(), "pending@example.org")
	require.NotNil(t, u.ActivationToken)

	rows := logs.all()
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Success)
	assert.Equal(t, "smtp unreachable", rows[0].ErrorDetail)

	// delivery failed but the persisted token still confirms
	err = svc.Confirm(context.Background(), "pending@example.org", *u.ActivationToken)
	assert.NoError(t, err)
}

func TestResend_StorageFailure_AbortsBeforeDispatch(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo(pendingUser("pending@example.org"))
	users.updateErr = errors.New("connection reset")
	d := &fakeDispatcher{result: DispatchResult{Sent: true}}
	logs := &fakeLogRepo{}
	svc := newService(users, d, logs)

	_, err := svc.Resend(context.Background(), ResendInput{Email: "pending@example.org"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, entity.ErrInvalidEmail)
	assert.Zero(t, d.callCount(), "no email may be sent after a storage failure")

	rows := logs.all()
	require.Len(t, rows, 1)
	assert.Equal(t, "storage failure", rows[0].ErrorDetail)
}

func TestResend_LookupTransientFailure(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo(pendingUser("pending@example.org"))
	users.getErr = errors.New("timeout")
	d := &fakeDispatcher{result: DispatchResult{Sent: true}}
	svc := newService(users, d, &fakeLogRepo{})

	_, err := svc.Resend(context.Background(), ResendInput{Email: "pending@example.org"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, entity.ErrNotFound, "transient failures must not masquerade as not-found")
	assert.Zero(t, d.callCount())
}

func TestResend_AuditFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo(pendingUser("pending@example.org"))
	d := &fakeDispatcher{result: DispatchResult{Sent: true}}
	logs := &fakeLogRepo{appendErr: errors.New("log store down")}
	svc := newService(users, d, logs)

	res, err := svc.Resend(context.Background(), ResendInput{Email: "pending@example.org"})
	require.NoError(t, err, "audit failure must never fail the parent operation")
	assert.Equal(t, OutcomeEmailSent, res.Outcome)
}

func TestResend_ConcurrentCallsLeaveCoherentPair(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo(pendingUser("pending@example.org"))
	d := &fakeDispatcher{result: DispatchResult{Sent: true}}
	svc := newService(users, d, &fakeLogRepo{})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Resend(context.Background(), ResendInput{Email: "pending@example.org"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	u, err := users.GetByEmail(context.Background(), "pending@example.org")
	require.NoError(t, err)
	require.NotNil(t, u.ActivationToken)
	require.NotNil(t, u.ActivationExpires)

	// final state must be exactly one of the written pairs, never a hybrid
	require.Len(t, users.writtenPairs, 2)
	found := false
	for _, p := range users.writtenPairs {
		if p.token == *u.ActivationToken && p.expires.Equal(*u.ActivationExpires) {
			found = true
		}
	}
	assert.True(t, found, "stored token/expiry is not one of the written pairs")
}

// --- Confirm ---

func TestConfirm_Success(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo(pendingUser("pending@example.org"))
	d := &fakeDispatcher{result: DispatchResult{Sent: true}}
	svc := newService(users, d, &fakeLogRepo{})

	_, err := svc.Resend(context.Background(), ResendInput{Email: "pending@example.org"})
	require.NoError(t, err)
	u, _ := users.GetByEmail(context.Background(), "pending@example.org")

	err = svc.Confirm(context.Background(), "Pending@Example.org", *u.ActivationToken)
	require.NoError(t, err)

	u, _ = users.GetByEmail(context.Background(), "pending@example.org")
	assert.True(t, u.EmailVerified)
	assert.Nil(t, u.ActivationToken)
	assert.Nil(t, u.ActivationExpires)
}

func TestConfirm_SecondConsumeFails(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo(pendingUser("pending@example.org"))
	d := &fakeDispatcher{result: DispatchResult{Sent: true}}
	svc := newService(users, d, &fakeLogRepo{})

	_, err := svc.Resend(context.Background(), ResendInput{Email: "pending@example.org"})
	require.NoError(t, err)
	u, _ := users.GetByEmail(context.Background(), "pending@example.org")
	token := *u.ActivationToken

	require.NoError(t, svc.Confirm(context.Background(), "pending@example.org", token))
	err = svc.Confirm(context.Background(), "pending@example.org", token)
	assert.ErrorIs(t, err, entity.ErrInvalidOrExpiredToken)
}

func TestConfirm_ExpiredToken(t *testing.T) {
	t.Parallel()

	u := pendingUser("pending@example.org")
	tok := "expired-token"
	exp := time.Now().Add(-time.Minute)
	u.ActivationToken = &tok
	u.ActivationExpires = &exp
	users := newFakeUserRepo(u)
	svc := newService(users, &fakeDispatcher{}, &fakeLogRepo{})

	err := svc.Confirm(context.Background(), "pending@example.org", tok)
	assert.ErrorIs(t, err, entity.ErrInvalidOrExpiredToken)
	assert.Zero(t, users.markCalls)
}

func TestConfirm_WrongTokenOrUnknownUser(t *testing.T) {
	t.Parallel()

	u := pendingUser("pending@example.org")
	tok := "the-real-token"
	exp := time.Now().Add(time.Hour)
	u.ActivationToken = &tok
	u.ActivationExpires = &exp
	users := newFakeUserRepo(u)
	svc := newService(users, &fakeDispatcher{}, &fakeLogRepo{})

	err := svc.Confirm(context.Background(), "pending@example.org", "some-other-token")
	assert.ErrorIs(t, err, entity.ErrInvalidOrExpiredToken)

	err = svc.Confirm(context.Background(), "ghost@example.org", tok)
	assert.ErrorIs(t, err, entity.ErrInvalidOrExpiredToken, "unknown account must be indistinguishable from a bad token")

	err = svc.Confirm(context.Background(), "pending@example.org", "")
	assert.ErrorIs(t, err, entity.ErrInvalidOrExpiredToken)
}
