package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/social-network/backend/internal/apperrors"
	"github.com/emilythestrangee/social-network/backend/internal/auth"
	"github.com/emilythestrangee/social-network/backend/internal/models"
	"github.com/emilythestrangee/social-network/backend/internal/response"
	"github.com/emilythestrangee/social-network/backend/internal/services"
)

type AuthHandler struct {
	users     *services.UserService
	transport auth.CookieTransport
}

func NewAuthHandler(users *services.UserService, transport auth.CookieTransport) *AuthHandler {
	return &AuthHandler{users: users, transport: transport}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindingError(err))
		return
	}

	user, err := h.users.Register(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, user, "User has been registered successfully.")
}

// Login checks the credentials and sets the auth cookie.
// Accepts the password form (username, password) or a JSON body.
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, bindingError(err))
		return
	}
	if input.Login() == "" {
		response.Error(c, apperrors.Validation("Invalid request body: username is required"))
		return
	}

	token, user, err := h.users.Login(c.Request.Context(), input.Login(), input.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.transport.Set(c, token)
	response.Success(c, http.StatusOK, user, "Logged in successfully.")
}

// Logout expires the auth cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.transport.Clear(c)
	response.Success(c, http.StatusOK, nil, "Logged out successfully.")
}
