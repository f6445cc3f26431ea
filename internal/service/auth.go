package service

import (
	"context"
	"errors"
	"sync"
	"unicode/utf8"

	"github.com/Skotchmaster/orbitronic/internal/events"
	"github.com/Skotchmaster/orbitronic/internal/hash"
	"github.com/Skotchmaster/orbitronic/internal/logging"
	"github.com/Skotchmaster/orbitronic/internal/models"
	"github.com/Skotchmaster/orbitronic/internal/repo"
)

const (
	MaxUsernameLen     = 50
	MinPasswordLen     = 8
	MaxPasswordLen     = 255
	MsgPasswordsDiffer = "Passwords do not match"
)

type UserStore interface {
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
}

type AuthService struct {
	Users  UserStore
	Events events.Publisher
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Identity, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	switch {
	case username == "":
		return nil, invalid("username", "Username is required")
	case utf8.RuneCountInString(username) > MaxUsernameLen:
		return nil, invalid("username", "Username must be at most 50 characters")
	case password == "":
		return nil, invalid("password", "Password is required")
	}

	user, err := s.Users.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// keep the timing of unknown users close to a wrong password
			hash.CheckPassword(dummyHash(), password)
			l.Warn("login_failed", "status", 401, "reason", "unknown username")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "reason", "cannot load user", "error", err)
		return nil, unexpected("load user", err)
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		return nil, ErrInvalidCredentials
	}

	l.Info("login_success", "role", user.Role)
	return &models.Identity{Username: user.Username, Role: user.Role}, nil
}

// Signup registers a self-service account, which always gets the user role.
func (s *AuthService) Signup(ctx context.Context, username, password, confirm string) error {
	return s.register(ctx, "auth.signup", username, password, confirm, models.RoleUser)
}

// CreateAccount registers an account with an explicit role, under the same
// username and password rules as Signup.
func (s *AuthService) CreateAccount(ctx context.Context, username, password, role string) error {
	if role != models.RoleUser && role != models.RoleAdmin {
		return invalid("role", "Role must be admin or user")
	}
	return s.register(ctx, "auth.create_account", username, password, password, role)
}

func (s *AuthService) register(ctx context.Context, op, username, password, confirm, role string) error {
	l := logging.FromContext(ctx).With("svc", op, "username", username, "role", role)

	if err := validateSignup(username, password, confirm); err != nil {
		l.Warn("signup_failed", "status", 400, "reason", err.Error())
		return err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("signup_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return unexpected("hash password", err)
	}

	user := models.User{
		Username:     username,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.Users.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrDuplicateUsername) {
			l.Warn("signup_failed", "status", 409, "reason", "username already exists")
			return ErrDuplicateUsername
		}
		l.Error("signup_failed", "status", 500, "reason", "cannot store user", "error", err)
		return unexpected("store user", err)
	}

	if s.Events != nil {
		if err := s.Events.PublishEvent(ctx, events.TopicUsers, user.Username, events.NewUserEvent(events.UserRegistered, user)); err != nil {
			l.Warn("publish_event_failed", "topic", events.TopicUsers, "error", err)
		}
	}

	l.Info("signup_success")
	return nil
}

func validateSignup(username, password, confirm string) error {
	switch {
	case username == "":
		return invalid("username", "Username is required")
	case utf8.RuneCountInString(username) > MaxUsernameLen:
		return invalid("username", "Username must be at most 50 characters")
	case utf8.RuneCountInString(password) < MinPasswordLen:
		return invalid("password", "Password must be at least 8 characters")
	case utf8.RuneCountInString(password) > MaxPasswordLen:
		return invalid("password", "Password must be at most 255 characters")
	case password != confirm:
		return invalid("confirm_password", MsgPasswordsDiffer)
	}
	return nil
}

var dummyHash = sync.OnceValue(func() string {
	h, _ := hash.HashPassword("orbitronic-unknown-user")
	return h
})
