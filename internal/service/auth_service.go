package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ducdang/billbook/internal/auth"
	"github.com/ducdang/billbook/internal/models"
)

// AuthService glues an Authenticator to session-token issuance.
type AuthService struct {
	authenticator auth.Authenticator
	users         auth.UserStorage
	tokens        *auth.JWTManager
}

func NewAuthService(authenticator auth.Authenticator, users auth.UserStorage, tokens *auth.JWTManager) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		users:         users,
		tokens:        tokens,
	}
}

// Session is a logged-in user plus their bearer token.
type Session struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates an account and logs it straight in.
func (s *AuthService) Register(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, validationErrorf("a valid email is required")
	}

	user, err := s.authenticator.Register(ctx, email, password)
	if err != nil {
		return nil, err
	}
	slog.Info("User registered", "user_id", user.ID)
	return s.session(user)
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		slog.Warn("Login rejected", "email", email)
		return nil, err
	}
	slog.Info("User logged in", "user_id", user.ID)
	return s.session(user)
}

// Me resolves the authenticated user id back to the account record.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, auth.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) session(user *models.User) (*Session, error) {
	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token}, nil
}
