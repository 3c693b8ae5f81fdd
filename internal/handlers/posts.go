package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/social-network/backend/internal/apperrors"
	"github.com/emilythestrangee/social-network/backend/internal/middleware"
	"github.com/emilythestrangee/social-network/backend/internal/models"
	"github.com/emilythestrangee/social-network/backend/internal/response"
	"github.com/emilythestrangee/social-network/backend/internal/services"
)

type PostHandler struct {
	posts *services.PostService
}

func NewPostHandler(posts *services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// GetPosts returns every post with its like and dislike tallies
func (h *PostHandler) GetPosts(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, posts, "")
}

// GetPost returns a single post by ID
func (h *PostHandler) GetPost(c *gin.Context) {
	postID, err := parsePostID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	post, err := h.posts.Get(c.Request.Context(), postID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, post, "")
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	var input models.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindingError(err))
		return
	}

	post, err := h.posts.Create(c.Request.Context(), user.ID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, post, "Post has been created successfully.")
}

// UpdatePost updates an existing post
func (h *PostHandler) UpdatePost(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	postID, err := parsePostID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input models.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindingError(err))
		return
	}

	post, err := h.posts.Update(c.Request.Context(), postID, user.ID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, post, "Post has been updated successfully.")
}

// DeletePost deletes a post along with its reactions
func (h *PostHandler) DeletePost(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	postID, err := parsePostID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.posts.Delete(c.Request.Context(), postID, user.ID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, nil, "Post has been deleted successfully.")
}
