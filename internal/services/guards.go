package services

import (
	"context"
	"errors"

	"github.com/emilythestrangee/social-network/backend/internal/apperrors"
	"github.com/emilythestrangee/social-network/backend/internal/models"
	"github.com/emilythestrangee/social-network/backend/internal/repository"
)

const msgPostNotFound = "No Post with such id"

// RequirePostExists returns the post or a NotFound error.
func RequirePostExists(ctx context.Context, posts repository.PostStore, postID int) (*models.Post, error) {
	post, err := posts.Get(ctx, postID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound(msgPostNotFound)
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return post, nil
}

// RequireOwnership fails unless userID created the post. Mutations need it;
// reactions need the opposite.
func RequireOwnership(post *models.Post, userID int, action string) error {
	if post.Creator != userID {
		return apperrors.Forbidden("Only creator of the post can " + action + " it")
	}
	return nil
}

// storeError keeps typed failures and turns everything else into StoreUnavailable.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.StoreUnavailable(err)
}
