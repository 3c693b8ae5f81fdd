package auth

import (
	"context"

	"github.com/emilythestrangee/social-network/backend/internal/models"
)

// IdentityProvider resolves an access token to an active user.
type IdentityProvider interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}
