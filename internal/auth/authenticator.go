package auth

import (
	"context"

	"github.com/ducdang/billbook/internal/models"
)

// Authenticator abstracts the credential scheme so the service layer does not
// care whether accounts use passwords, OAuth tokens or something else.
type Authenticator interface {
	// Register creates a new account for the email with the given credential.
	Register(ctx context.Context, email, credential string) (*models.User, error)

	// Authenticate verifies the credential and returns the matching user.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks the credential against the scheme's minimum
	// requirements without touching storage.
	ValidateCredential(credential string) error
}
