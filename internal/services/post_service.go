package services

import (
	"context"
	"errors"

	"github.com/emilythestrangee/social-network/backend/internal/apperrors"
	"github.com/emilythestrangee/social-network/backend/internal/models"
	"github.com/emilythestrangee/social-network/backend/internal/repository"
)

type PostService struct {
	store     repository.Store
	reactions *ReactionService
}

func NewPostService(store repository.Store, reactions *ReactionService) *PostService {
	return &PostService{store: store, reactions: reactions}
}

func (s *PostService) List(ctx context.Context) ([]models.PostWithTally, error) {
	posts, err := s.store.Posts().List(ctx)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}

	out := make([]models.PostWithTally, 0, len(posts))
	for _, post := range posts {
		withTally, err := s.withTally(ctx, post)
		if err != nil {
			return nil, err
		}
		out = append(out, withTally)
	}
	return out, nil
}

func (s *PostService) Get(ctx context.Context, postID int) (*models.PostWithTally, error) {
	post, err := RequirePostExists(ctx, s.store.Posts(), postID)
	if err != nil {
		return nil, err
	}
	withTally, err := s.withTally(ctx, *post)
	if err != nil {
		return nil, err
	}
	return &withTally, nil
}

func (s *PostService) Create(ctx context.Context, userID int, input models.PostInput) (*models.Post, error) {
	post := &models.Post{
		Name:        input.Name,
		Description: input.Description,
		Creator:     userID,
	}
	if err := s.store.Posts().Create(ctx, post); err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return post, nil
}

func (s *PostService) Update(ctx context.Context, postID, userID int, input models.PostInput) (*models.Post, error) {
	var updated *models.Post
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		post, err := RequirePostExists(ctx, tx.Posts(), postID)
		if err != nil {
			return err
		}
		if err := RequireOwnership(post, userID, "update"); err != nil {
			return err
		}
		if err := tx.Posts().Update(ctx, postID, input.Name, input.Description); err != nil {
			return err
		}
		post.Name = input.Name
		post.Description = input.Description
		updated = post
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound(msgPostNotFound)
	}
	if err != nil {
		return nil, storeError(err)
	}
	return updated, nil
}

func (s *PostService) Delete(ctx context.Context, postID, userID int) error {
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		post, err := RequirePostExists(ctx, tx.Posts(), postID)
		if err != nil {
			return err
		}
		if err := RequireOwnership(post, userID, "delete"); err != nil {
			return err
		}
		return tx.Posts().Delete(ctx, postID)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound(msgPostNotFound)
	}
	return storeError(err)
}

func (s *PostService) withTally(ctx context.Context, post models.Post) (models.PostWithTally, error) {
	likes, dislikes, err := s.reactions.Tally(ctx, post.ID)
	if err != nil {
		return models.PostWithTally{}, err
	}
	return models.PostWithTally{Post: post, LikeCount: likes, DislikeCount: dislikes}, nil
}
