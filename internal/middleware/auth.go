package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/social-network/backend/internal/apperrors"
	"github.com/emilythestrangee/social-network/backend/internal/auth"
	"github.com/emilythestrangee/social-network/backend/internal/models"
	"github.com/emilythestrangee/social-network/backend/internal/response"
)

const (
	ContextUserID = "user_id"
	ContextUser   = "user"
)

// AuthMiddleware resolves the access token carried by transport and stores the
// user in the gin context. Requests without a valid token are rejected with 401.
func AuthMiddleware(provider auth.IdentityProvider, transport auth.CookieTransport) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := transport.Token(c.Request)
		if token == "" {
			response.Error(c, apperrors.ErrUnauthorized)
			return
		}

		user, err := provider.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, apperrors.ErrStoreUnavailable) {
				err = apperrors.ErrUnauthorized
			}
			response.Error(c, err)
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUser, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(ContextUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}
