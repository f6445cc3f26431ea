package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/orbitronic/internal/events"
	"github.com/Skotchmaster/orbitronic/internal/hash"
	"github.com/Skotchmaster/orbitronic/internal/models"
)

func newTestAuthService() (*AuthService, *memUsers, *recorder) {
	users := newMemUsers()
	rec := &recorder{}
	return &AuthService{Users: users, Events: rec}, users, rec
}

func TestAuthService_SignupThenLogin(t *testing.T) {
	t.Parallel()
	svc, users, rec := newTestAuthService()
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "alice", "wonderland", "wonderland"))

	stored := users.users["alice"]
	assert.Equal(t, models.RoleUser, stored.Role)
	assert.NotEqual(t, "wonderland", stored.PasswordHash)
	assert.True(t, hash.CheckPassword(stored.PasswordHash, "wonderland"))

	id, err := svc.Login(ctx, "alice", "wonderland")
	require.NoError(t, err)
	assert.Equal(t, models.Identity{Username: "alice", Role: models.RoleUser}, *id)
	assert.False(t, id.IsAdmin())

	require.Len(t, rec.events, 1)
	assert.Equal(t, events.TopicUsers, rec.events[0].Topic)
	ev, ok := rec.events[0].Event.(events.UserEvent)
	require.True(t, ok)
	assert.Equal(t, events.UserRegistered, ev.Type)
	assert.Equal(t, "alice", ev.Username)

	err = svc.Signup(ctx, "alice", "different1", "different1")
	assert.ErrorIs(t, err, ErrDuplicateUsername)
	assert.True(t, hash.CheckPassword(users.users["alice"].PasswordHash, "wonderland"))
}

func TestAuthService_Signup_Validation(t *testing.T) {
	t.Parallel()
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	tests := []struct {
		name, username, password, confirm string
		field                             string
	}{
		{name: "empty username", username: "", password: "password1", confirm: "password1", field: "username"},
		{name: "long username", username: strings.Repeat("u", 51), password: "password1", confirm: "password1", field: "username"},
		{name: "short password", username: "bob", password: "short", confirm: "short", field: "password"},
		{name: "long password", username: "bob", password: strings.Repeat("p", 256), confirm: strings.Repeat("p", 256), field: "password"},
		{name: "mismatch", username: "bob", password: "password1", confirm: "password2", field: "confirm_password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Signup(ctx, tt.username, tt.password, tt.confirm)
			require.ErrorIs(t, err, ErrInvalidInput)
			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.field, fe.Field)
		})
	}
	assert.Empty(t, users.users)

	err := svc.Signup(ctx, "bob", "password1", "password2")
	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "Passwords do not match", fe.Message)
}

func TestAuthService_Signup_BoundaryLengths(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	long := strings.Repeat("k", 255)
	require.NoError(t, svc.Signup(ctx, strings.Repeat("n", 50), long, long))
	_, err := svc.Login(ctx, strings.Repeat("n", 50), long)
	require.NoError(t, err)

	_, err = svc.Login(ctx, strings.Repeat("n", 50), long[:254]+"x")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_Failures(t *testing.T) {
	t.Parallel()
	svc, users, _ := newTestAuthService()
	ctx := context.Background()
	require.NoError(t, svc.Signup(ctx, "carol", "correct-horse", "correct-horse"))

	_, err := svc.Login(ctx, "carol", "battery-staple")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "Carol", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	for _, tc := range []struct{ u, p string }{
		{"", "x"},
		{strings.Repeat("x", 51), "x"},
		{"carol", ""},
	} {
		_, err := svc.Login(ctx, tc.u, tc.p)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}

	users.err = errStoreDown
	_, err = svc.Login(ctx, "carol", "correct-horse")
	assert.ErrorIs(t, err, ErrUnexpected)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestAuthService_Signup_EventFailureDoesNotFail(t *testing.T) {
	t.Parallel()
	svc, users, rec := newTestAuthService()
	rec.err = errors.New("kafka down")

	require.NoError(t, svc.Signup(context.Background(), "dave", "password1", "password1"))
	assert.Contains(t, users.users, "dave")
}

func TestAuthService_Signup_StoreFailure(t *testing.T) {
	t.Parallel()
	svc, users, rec := newTestAuthService()
	users.err = errStoreDown

	err := svc.Signup(context.Background(), "erin", "password1", "password1")
	var ue *UnexpectedError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "store user", ue.Op)
	assert.Empty(t, rec.events)
}

func TestAuthService_CreateAccount(t *testing.T) {
	t.Parallel()
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	require.NoError(t, svc.CreateAccount(ctx, "root", "supersecret", models.RoleAdmin))
	assert.Equal(t, models.RoleAdmin, users.users["root"].Role)

	id, err := svc.Login(ctx, "root", "supersecret")
	require.NoError(t, err)
	assert.True(t, id.IsAdmin())

	tests := []struct {
		name     string
		username string
		password string
		role     string
		field    string
	}{
		{name: "long username", username: strings.Repeat("u", 51), password: "supersecret", role: models.RoleUser, field: "username"},
		{name: "short password", username: "bob", password: "short", role: models.RoleUser, field: "password"},
		{name: "long password", username: "bob", password: strings.Repeat("p", 256), role: models.RoleUser, field: "password"},
		{name: "unknown role", username: "bob", password: "supersecret", role: "owner", field: "role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CreateAccount(ctx, tt.username, tt.password, tt.role)
			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.field, fe.Field)
		})
	}
	assert.Len(t, users.users, 1)

	assert.ErrorIs(t, svc.CreateAccount(ctx, "root", "supersecret", models.RoleUser), ErrDuplicateUsername)
}
