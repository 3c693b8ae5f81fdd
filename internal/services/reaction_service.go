package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/emilythestrangee/social-network/backend/internal/apperrors"
	"github.com/emilythestrangee/social-network/backend/internal/models"
	"github.com/emilythestrangee/social-network/backend/internal/repository"
)

const (
	maxToggleAttempts = 5
	toggleBackoff     = 10 * time.Millisecond
)

// ToggleResult describes the reaction a user holds after a toggle.
type ToggleResult struct {
	PostID  int                 `json:"post_id"`
	Kind    models.ReactionKind `json:"reaction"`
	Details string              `json:"-"`
}

type ReactionService struct {
	store repository.Store
}

func NewReactionService(store repository.Store) *ReactionService {
	return &ReactionService{store: store}
}

// Toggle applies a like or dislike from userID to postID:
// no row inserts one, the same kind clears it, any other kind overwrites it.
// The read-decide-write runs in one transaction and is retried when it loses
// a race on the (user, post) unique index.
func (s *ReactionService) Toggle(ctx context.Context, postID, userID int, kind models.ReactionKind) (*ToggleResult, error) {
	if !kind.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("invalid reaction %q", string(kind)))
	}

	var (
		result *ToggleResult
		err    error
	)
	for attempt := 1; attempt <= maxToggleAttempts; attempt++ {
		result, err = s.toggleOnce(ctx, postID, userID, kind)
		if !errors.Is(err, repository.ErrConflict) || attempt == maxToggleAttempts {
			break
		}

		slog.DebugContext(ctx, "reaction toggle conflict",
			"post_id", postID, "user_id", userID, "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return nil, apperrors.StoreUnavailable(ctx.Err())
		case <-time.After(time.Duration(attempt) * toggleBackoff):
		}
	}
	if err != nil {
		return nil, storeError(err)
	}

	result.Details = describe(postID, kind, result.Kind)
	return result, nil
}

func (s *ReactionService) toggleOnce(ctx context.Context, postID, userID int, kind models.ReactionKind) (*ToggleResult, error) {
	result := &ToggleResult{PostID: postID}

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		post, err := RequirePostExists(ctx, tx.Posts(), postID)
		if err != nil {
			return err
		}
		if post.Creator == userID {
			return apperrors.Forbidden(fmt.Sprintf("Creator is not allowed to %s their posts", kind))
		}

		existing, err := tx.Reactions().FindByUserAndPost(ctx, userID, postID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			if _, err := tx.Reactions().Insert(ctx, userID, postID, kind); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return apperrors.NotFound(msgPostNotFound)
				}
				return err
			}
			result.Kind = kind
		case err != nil:
			return err
		default:
			next := nextKind(existing.Kind, kind)
			if err := tx.Reactions().UpdateKind(ctx, existing.ID, next); err != nil {
				return err
			}
			result.Kind = next
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// nextKind: the same kind twice clears the reaction; anything else, none included, is overwritten.
func nextKind(current, requested models.ReactionKind) models.ReactionKind {
	if current == requested {
		return models.ReactionNone
	}
	return requested
}

func describe(postID int, requested, result models.ReactionKind) string {
	if result == models.ReactionNone {
		return fmt.Sprintf("Post %d %s removed", postID, requested)
	}
	return fmt.Sprintf("Post %d is %sd", postID, result)
}

// Count returns how many users currently hold kind on the post.
func (s *ReactionService) Count(ctx context.Context, postID int, kind models.ReactionKind) (int64, error) {
	if !kind.Valid() {
		return 0, apperrors.Validation(fmt.Sprintf("invalid reaction %q", string(kind)))
	}
	n, err := s.store.Reactions().CountByPostAndKind(ctx, postID, kind)
	if err != nil {
		return 0, apperrors.StoreUnavailable(err)
	}
	return n, nil
}

// Tally returns the like and dislike counts of a post.
func (s *ReactionService) Tally(ctx context.Context, postID int) (likes, dislikes int64, err error) {
	if likes, err = s.Count(ctx, postID, models.ReactionLike); err != nil {
		return 0, 0, err
	}
	if dislikes, err = s.Count(ctx, postID, models.ReactionDislike); err != nil {
		return 0, 0, err
	}
	return likes, dislikes, nil
}

// Current returns the caller's reaction on an existing post, none when there is no row.
func (s *ReactionService) Current(ctx context.Context, postID, userID int) (models.ReactionKind, error) {
	if _, err := RequirePostExists(ctx, s.store.Posts(), postID); err != nil {
		return "", err
	}
	reaction, err := s.store.Reactions().FindByUserAndPost(ctx, userID, postID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.ReactionNone, nil
	}
	if err != nil {
		return "", apperrors.StoreUnavailable(err)
	}
	return reaction.Kind, nil
}

// PostTally is Tally for a post that must exist.
func (s *ReactionService) PostTally(ctx context.Context, postID int) (likes, dislikes int64, err error) {
	if _, err := RequirePostExists(ctx, s.store.Posts(), postID); err != nil {
		return 0, 0, err
	}
	return s.Tally(ctx, postID)
}
