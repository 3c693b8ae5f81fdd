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

type ReactionHandler struct {
	reactions *services.ReactionService
}

func NewReactionHandler(reactions *services.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactions: reactions}
}

type reactionResponse struct {
	PostID       int                 `json:"post_id"`
	Reaction     models.ReactionKind `json:"reaction"`
	LikeCount    int64               `json:"like_count"`
	DislikeCount int64               `json:"dislike_count"`
}

type tallyResponse struct {
	PostID       int   `json:"post_id"`
	LikeCount    int64 `json:"like_count"`
	DislikeCount int64 `json:"dislike_count"`
}

// LikePost toggles the caller's like on a post
func (h *ReactionHandler) LikePost(c *gin.Context) {
	h.toggle(c, models.ReactionLike)
}

// DislikePost toggles the caller's dislike on a post
func (h *ReactionHandler) DislikePost(c *gin.Context) {
	h.toggle(c, models.ReactionDislike)
}

func (h *ReactionHandler) toggle(c *gin.Context, kind models.ReactionKind) {
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

	ctx := c.Request.Context()
	result, err := h.reactions.Toggle(ctx, postID, user.ID, kind)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Read after commit: the tally reflects this toggle and any that landed since.
	likes, dislikes, err := h.reactions.Tally(ctx, postID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, reactionResponse{
		PostID:       result.PostID,
		Reaction:     result.Kind,
		LikeCount:    likes,
		DislikeCount: dislikes,
	}, result.Details)
}

// GetReactions returns the like and dislike tallies of a post
func (h *ReactionHandler) GetReactions(c *gin.Context) {
	postID, err := parsePostID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	likes, dislikes, err := h.reactions.PostTally(c.Request.Context(), postID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, tallyResponse{PostID: postID, LikeCount: likes, DislikeCount: dislikes}, "")
}

// GetMyReaction returns the reaction the caller currently holds on a post
func (h *ReactionHandler) GetMyReaction(c *gin.Context) {
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

	kind, err := h.reactions.Current(c.Request.Context(), postID, user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"post_id": postID, "reaction": kind}, "")
}
