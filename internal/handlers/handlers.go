package handlers

import (
	"github.com/emilythestrangee/social-network/backend/internal/auth"
	"github.com/emilythestrangee/social-network/backend/internal/services"
)

// Handler combines all handler types
type Handler struct {
	Auth     *AuthHandler
	Post     *PostHandler
	Reaction *ReactionHandler
	User     *UserHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(
	users *services.UserService,
	posts *services.PostService,
	reactions *services.ReactionService,
	transport auth.CookieTransport,
) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(users, transport),
		Post:     NewPostHandler(posts),
		Reaction: NewReactionHandler(reactions),
		User:     NewUserHandler(),
	}
}
