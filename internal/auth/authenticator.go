// Package auth issues and checks the credentials that identify who recorded
// an expense. Balances never depend on it.
package auth

import (
	"context"

	"github.com/payshare/backend/internal/models"
)

// Authenticator registers members and verifies their credentials.
type Authenticator interface {
	// Register creates an account. Returns ErrEmailExists or ErrWeakPassword
	// when the input is rejected.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the account matching email and credential, or
	// ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// Lookup loads an account by ID for an already authenticated caller.
	Lookup(ctx context.Context, userID string) (*models.User, error)
}
