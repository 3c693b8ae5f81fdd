// Package repository holds the narrow store contracts the services depend on and
// their gorm implementation.
package repository

import (
	"context"
	"errors"

	"github.com/emilythestrangee/social-network/backend/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write lost a race: a unique index violation,
	// a serialization failure or a deadlock. The whole transaction may be retried.
	ErrConflict = errors.New("write conflict")
)

type PostStore interface {
	List(ctx context.Context) ([]models.Post, error)
	Get(ctx context.Context, postID int) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, postID int, name, description string) error
	// Delete removes the post together with its reactions.
	Delete(ctx context.Context, postID int) error
}

type ReactionStore interface {
	// FindByUserAndPost locks the row for the rest of the transaction when called inside one.
	FindByUserAndPost(ctx context.Context, userID, postID int) (*models.Reaction, error)
	Insert(ctx context.Context, userID, postID int, kind models.ReactionKind) (*models.Reaction, error)
	UpdateKind(ctx context.Context, reactionID int, kind models.ReactionKind) error
	CountByPostAndKind(ctx context.Context, postID int, kind models.ReactionKind) (int64, error)
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Store groups the stores sharing one connection or transaction.
type Store interface {
	Posts() PostStore
	Reactions() ReactionStore
	Users() UserStore

	// WithinTx runs fn in a single transaction, committed only when fn returns nil.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
