package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/social-network/backend/internal/models"
)

const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

type GormStore struct {
	db *gorm.DB
}

// NewGormStore expects a *gorm.DB opened with TranslateError enabled.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Posts() PostStore         { return &postStore{db: s.db} }
func (s *GormStore) Reactions() ReactionStore { return &reactionStore{db: s.db} }
func (s *GormStore) Users() UserStore         { return &userStore{db: s.db} }

func (s *GormStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
	return classify(err)
}

// classify maps driver errors onto the package sentinels and leaves the rest untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Join(ErrConflict, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected) {
		return errors.Join(ErrConflict, err)
	}
	return err
}

type postStore struct {
	db *gorm.DB
}

func (r *postStore) List(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.WithContext(ctx).Order("id").Find(&posts).Error; err != nil {
		return nil, classify(err)
	}
	return posts, nil
}

func (r *postStore) Get(ctx context.Context, postID int) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, postID).Error; err != nil {
		return nil, classify(err)
	}
	return &post, nil
}

func (r *postStore) Create(ctx context.Context, post *models.Post) error {
	return classify(r.db.WithContext(ctx).Create(post).Error)
}

func (r *postStore) Update(ctx context.Context, postID int, name, description string) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", postID).
		Updates(map[string]any{"name": name, "description": description})
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postStore) Delete(ctx context.Context, postID int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, postID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	return classify(err)
}

type reactionStore struct {
	db *gorm.DB
}

func (r *reactionStore) FindByUserAndPost(ctx context.Context, userID, postID int) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&reaction).Error
	if err != nil {
		return nil, classify(err)
	}
	return &reaction, nil
}

func (r *reactionStore) Insert(ctx context.Context, userID, postID int, kind models.ReactionKind) (*models.Reaction, error) {
	reaction := &models.Reaction{UserID: userID, PostID: postID, Kind: kind}
	if err := r.db.WithContext(ctx).Create(reaction).Error; err != nil {
		// The post (or user) was deleted after it was looked up.
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ErrNotFound
		}
		return nil, classify(err)
	}
	return reaction, nil
}

func (r *reactionStore) UpdateKind(ctx context.Context, reactionID int, kind models.ReactionKind) error {
	res := r.db.WithContext(ctx).Model(&models.Reaction{}).
		Where("id = ?", reactionID).
		Update("reaction", kind)
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reactionStore) CountByPostAndKind(ctx context.Context, postID int, kind models.ReactionKind) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Reaction{}).
		Where("post_id = ? AND reaction = ?", postID, kind).
		Count(&count).Error
	if err != nil {
		return 0, classify(err)
	}
	return count, nil
}

type userStore struct {
	db *gorm.DB
}

func (r *userStore) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return classify(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userStore) GetByID(ctx context.Context, userID int) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, classify(err)
	}
	return &user, nil
}

func (r *userStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, classify(err)
	}
	return &user, nil
}
