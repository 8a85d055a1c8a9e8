package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	usermemory "github.com/bookhaven/bookstore-api/internal/domains/users/adapters/memory"
	"github.com/bookhaven/bookstore-api/internal/domains/users/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/users/ports"
)

func newTestService(opts ...Option) *Service {
	return NewService(usermemory.NewRepository(), usermemory.NewSessionStore(), opts...)
}

func TestRegister_Success(t *testing.T) {
	svc := newTestService()

	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "correct horse battery")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, domain.RoleCustomer, user.Role)
	require.NotEmpty(t, user.PasswordHash)
	require.True(t, user.CheckPassword("correct horse battery"))
	require.False(t, user.CheckPassword("wrong"))
}

func TestRegister_Invalid(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "a@example.com", "password123")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(ctx, "bob", "not-an-email", "password123")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.Register(ctx, "bob", "bob@example.com", "short")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrWeakPassword)
}

func TestRegister_UsernameTaken(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other@example.com", "password456")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, ports.ErrUsernameTaken)
}

func TestLogin_IssuesSessionToken(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	token, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	principal, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "alice", principal.Username)
	require.Equal(t, domain.RoleCustomer, principal.Role)
	require.False(t, principal.IsAdmin())
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "wrong-password")
	require.ErrorIs(t, err, ErrAuthentication)

	_, err = svc.Login(ctx, "nobody", "password123")
	require.ErrorIs(t, err, ErrAuthentication)

	_, err = svc.Login(ctx, "", "")
	require.ErrorIs(t, err, ErrAuthentication)
}

func TestAuthenticate_UnknownToken(t *testing.T) {
	svc := newTestService()

	_, err := svc.Authenticate(context.Background(), "not-a-token")
	require.ErrorIs(t, err, ErrAuthentication)

	_, err = svc.Authenticate(context.Background(), "")
	require.ErrorIs(t, err, ErrAuthentication)
}

func TestAuthenticate_ExpiredSession(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	svc := newTestService(WithClock(clock), WithSessionTTL(time.Hour))
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)
	token, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = svc.Authenticate(ctx, token)
	require.ErrorIs(t, err, ErrAuthentication)
	require.ErrorIs(t, err, ports.ErrInvalidSession)
}

func TestLogout_DropsSessions(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)
	token, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)

	svc.Logout(ctx, "alice")

	_, err = svc.Authenticate(ctx, token)
	require.ErrorIs(t, err, ErrAuthentication)
}
