package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ducdang/billbook/internal/models"
)

type fakeUserStorage struct {
	byEmail map[string]*models.User
}

func newFakeUserStorage() *fakeUserStorage {
	return &fakeUserStorage{byEmail: make(map[string]*models.User)}
}

func (f *fakeUserStorage) CreateUser(_ context.Context, user *models.User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return errors.New("duplicate email")
	}
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserStorage) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserStorage) GetUserByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()

	t.Run("register then authenticate", func(t *testing.T) {
		a := NewPasswordAuthenticator(newFakeUserStorage())
		user, err := a.Register(ctx, "duc@example.com", "correct horse battery")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.PasswordHash == "correct horse battery" {
			t.Error("password stored in plaintext")
		}

		got, err := a.Authenticate(ctx, "duc@example.com", "correct horse battery")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("authenticated wrong user: %s", got.ID)
		}
	})

	t.Run("rejects weak password", func(t *testing.T) {
		a := NewPasswordAuthenticator(newFakeUserStorage())
		if _, err := a.Register(ctx, "duc@example.com", "short"); !errors.Is(err, ErrWeakPassword) {
			t.Errorf("expected ErrWeakPassword, got %v", err)
		}
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		a := NewPasswordAuthenticator(newFakeUserStorage())
		if _, err := a.Register(ctx, "duc@example.com", "password123"); err != nil {
			t.Fatalf("first Register failed: %v", err)
		}
		if _, err := a.Register(ctx, "duc@example.com", "password456"); !errors.Is(err, ErrEmailExists) {
			t.Errorf("expected ErrEmailExists, got %v", err)
		}
	})

	t.Run("wrong password and unknown email give the same error", func(t *testing.T) {
		a := NewPasswordAuthenticator(newFakeUserStorage())
		if _, err := a.Register(ctx, "duc@example.com", "password123"); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if _, err := a.Authenticate(ctx, "duc@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
		}
		if _, err := a.Authenticate(ctx, "nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestJWTManager(t *testing.T) {
	user := models.NewUser("duc@example.com", "hash")

	t.Run("generate and validate round-trip", func(t *testing.T) {
		m := NewJWTManager("test-secret-key", time.Hour)
		token, err := m.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		claims, err := m.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.UserID != user.ID || claims.Email != user.Email {
			t.Errorf("claims mismatch: %+v", claims)
		}
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		m1 := NewJWTManager("secret-one", time.Hour)
		m2 := NewJWTManager("secret-two", time.Hour)
		token, err := m1.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := m2.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("rejects expired token", func(t *testing.T) {
		m := NewJWTManager("test-secret-key", -time.Minute)
		token, err := m.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("rejects garbage", func(t *testing.T) {
		m := NewJWTManager("test-secret-key", time.Hour)
		if _, err := m.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}
