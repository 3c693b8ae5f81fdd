package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/social-network/backend/internal/apperrors"
	"github.com/emilythestrangee/social-network/backend/internal/models"
	"github.com/emilythestrangee/social-network/backend/internal/repository"
)

func TestToggle_SameKindTwiceClears(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := repository.NewGormStore(db)
	svc := NewReactionService(store)

	author := createUser(t, store, "a@example.com")
	reader := createUser(t, store, "b@example.com")
	post := createPost(t, store, author.ID)

	res, err := svc.Toggle(ctx, post.ID, reader.ID, models.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionLike, res.Kind)
	assert.Equal(t, fmt.Sprintf("Post %d is liked", post.ID), res.Details)

	res, err = svc.Toggle(ctx, post.ID, reader.ID, models.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionNone, res.Kind)
	assert.Equal(t, fmt.Sprintf("Post %d like removed", post.ID), res.Details)

	assert.Equal(t, int64(1), countRows(t, db, reader.ID, post.ID))
}

func TestToggle_SwitchOverwritesSameRow(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := repository.NewGormStore(db)
	svc := NewReactionService(store)

	author := createUser(t, store, "a@example.com")
	reader := createUser(t, store, "b@example.com")
	post := createPost(t, store, author.ID)

	_, err := svc.Toggle(ctx, post.ID, reader.ID, models.ReactionLike)
	require.NoError(t, err)
	likes, dislikes, err := svc.Tally(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, [2]int64{1, 0}, [2]int64{likes, dislikes})

	res, err := svc.Toggle(ctx, post.ID, reader.ID, models.ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionDislike, res.Kind)
	assert.Equal(t, fmt.Sprintf("Post %d is disliked", post.ID), res.Details)
	assert.Equal(t, int64(1), countRows(t, db, reader.ID, post.ID))

	likes, dislikes, err = svc.Tally(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, [2]int64{0, 1}, [2]int64{likes, dislikes})
}

func TestToggle_ReactivatesClearedRow(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := repository.NewGormStore(db)
	svc := NewReactionService(store)

	author := createUser(t, store, "a@example.com")
	reader := createUser(t, store, "b@example.com")
	post := createPost(t, store, author.ID)

	for _, kind := range []models.ReactionKind{models.ReactionDislike, models.ReactionDislike, models.ReactionDislike} {
		_, err := svc.Toggle(ctx, post.ID, reader.ID, kind)
		require.NoError(t, err)
	}

	current, err := svc.Current(ctx, post.ID, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionDislike, current)
	assert.Equal(t, int64(1), countRows(t, db, reader.ID, post.ID))
}

func TestToggle_CreatorIsForbidden(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := repository.NewGormStore(db)
	svc := NewReactionService(store)

	author := createUser(t, store, "a@example.com")
	post := createPost(t, store, author.ID)

	_, err := svc.Toggle(ctx, post.ID, author.ID, models.ReactionLike)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Contains(t, err.Error(), "Creator is not allowed to like their posts")
	assert.Equal(t, int64(0), countRows(t, db, author.ID, post.ID))
}

func TestToggle_MissingPostIsNotFound(t *testing.T) {
	store := repository.NewGormStore(newTestDB(t))
	svc := NewReactionService(store)
	reader := createUser(t, store, "b@example.com")

	_, err := svc.Toggle(context.Background(), 404, reader.ID, models.ReactionLike)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestToggle_RejectsNoneAsRequest(t *testing.T) {
	svc := NewReactionService(repository.NewGormStore(newTestDB(t)))

	_, err := svc.Toggle(context.Background(), 1, 2, models.ReactionNone)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestReactionScenario(t *testing.T) {
	ctx := context.Background()
	store := repository.NewGormStore(newTestDB(t))
	svc := NewReactionService(store)

	a := createUser(t, store, "a@example.com")
	b := createUser(t, store, "b@example.com")
	post := createPost(t, store, a.ID)

	steps := []struct {
		user     int
		kind     models.ReactionKind
		likes    int64
		dislikes int64
	}{
		{b.ID, models.ReactionLike, 1, 0},
		{b.ID, models.ReactionLike, 0, 0},
		{b.ID, models.ReactionDislike, 0, 1},
	}
	for i, step := range steps {
		_, err := svc.Toggle(ctx, post.ID, step.user, step.kind)
		require.NoError(t, err, "step %d", i)

		likes, dislikes, err := svc.Tally(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, step.likes, likes, "likes after step %d", i)
		assert.Equal(t, step.dislikes, dislikes, "dislikes after step %d", i)
	}

	_, err := svc.Toggle(ctx, post.ID, a.ID, models.ReactionLike)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestTally_CountsDistinctUsers(t *testing.T) {
	ctx := context.Background()
	store := repository.NewGormStore(newTestDB(t))
	svc := NewReactionService(store)

	author := createUser(t, store, "author@example.com")
	post := createPost(t, store, author.ID)
	other := createPost(t, store, author.ID)

	emails := []string{"1@example.com", "2@example.com", "3@example.com", "4@example.com"}
	for i, email := range emails {
		u := createUser(t, store, email)
		kind := models.ReactionLike
		if i == 3 {
			kind = models.ReactionDislike
		}
		_, err := svc.Toggle(ctx, post.ID, u.ID, kind)
		require.NoError(t, err)
		_, err = svc.Toggle(ctx, other.ID, u.ID, models.ReactionDislike)
		require.NoError(t, err)
	}

	likes, err := svc.Count(ctx, post.ID, models.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, int64(3), likes)

	dislikes, err := svc.Count(ctx, post.ID, models.ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dislikes)

	_, err = svc.Count(ctx, post.ID, models.ReactionNone)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestPostTally(t *testing.T) {
	ctx := context.Background()
	store := repository.NewGormStore(newTestDB(t))
	svc := NewReactionService(store)

	author := createUser(t, store, "author@example.com")
	reader := createUser(t, store, "reader@example.com")
	post := createPost(t, store, author.ID)

	_, err := svc.Toggle(ctx, post.ID, reader.ID, models.ReactionDislike)
	require.NoError(t, err)

	likes, dislikes, err := svc.PostTally(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), likes)
	assert.Equal(t, int64(1), dislikes)

	_, _, err = svc.PostTally(ctx, post.ID+100)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestToggle_ConcurrentFreshPair(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := repository.NewGormStore(db)
	svc := NewReactionService(store)

	author := createUser(t, store, "a@example.com")
	reader := createUser(t, store, "b@example.com")
	post := createPost(t, store, author.ID)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Toggle(ctx, post.ID, reader.ID, models.ReactionLike)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int64(1), countRows(t, db, reader.ID, post.ID))

	current, err := svc.Current(ctx, post.ID, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionNone, current)
}

func TestCurrent(t *testing.T) {
	ctx := context.Background()
	store := repository.NewGormStore(newTestDB(t))
	svc := NewReactionService(store)

	author := createUser(t, store, "a@example.com")
	reader := createUser(t, store, "b@example.com")
	post := createPost(t, store, author.ID)

	current, err := svc.Current(ctx, post.ID, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionNone, current)

	_, err = svc.Current(ctx, 999, reader.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// txStore lets a test decide what each transaction attempt returns.
type txStore struct {
	mock.Mock
	repository.Store
}

func (m *txStore) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

func TestToggle_RetriesAfterConflict(t *testing.T) {
	ctx := context.Background()
	backing := repository.NewGormStore(newTestDB(t))
	author := createUser(t, backing, "a@example.com")
	reader := createUser(t, backing, "b@example.com")
	post := createPost(t, backing, author.ID)

	store := &txStore{Store: backing}
	store.On("WithinTx", mock.Anything, mock.Anything).Return(repository.ErrConflict).Once()
	store.On("WithinTx", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		fn := args.Get(1).(func(repository.Store) error)
		require.NoError(t, fn(backing))
	}).Return(nil).Once()

	res, err := NewReactionService(store).Toggle(ctx, post.ID, reader.ID, models.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionLike, res.Kind)
	store.AssertNumberOfCalls(t, "WithinTx", 2)
}

func TestToggle_GivesUpAfterRepeatedConflicts(t *testing.T) {
	store := &txStore{}
	store.On("WithinTx", mock.Anything, mock.Anything).Return(repository.ErrConflict)

	_, err := NewReactionService(store).Toggle(context.Background(), 1, 2, models.ReactionLike)
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	store.AssertNumberOfCalls(t, "WithinTx", maxToggleAttempts)
}

func TestToggle_StoreFailureIsStoreUnavailable(t *testing.T) {
	cause := errors.New("connection reset")
	store := &txStore{}
	store.On("WithinTx", mock.Anything, mock.Anything).Return(cause)

	_, err := NewReactionService(store).Toggle(context.Background(), 1, 2, models.ReactionDislike)
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)
	store.AssertNumberOfCalls(t, "WithinTx", 1)
}

// vanishingPostStore behaves as if the post was deleted between the lookup and the insert.
type vanishingPostStore struct {
	repository.Store
}

func (s vanishingPostStore) Reactions() repository.ReactionStore {
	return vanishingPostReactions{s.Store.Reactions()}
}

func (s vanishingPostStore) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.Store.WithinTx(ctx, func(tx repository.Store) error {
		return fn(vanishingPostStore{tx})
	})
}

type vanishingPostReactions struct {
	repository.ReactionStore
}

func (vanishingPostReactions) Insert(context.Context, int, int, models.ReactionKind) (*models.Reaction, error) {
	return nil, repository.ErrNotFound
}

func TestToggle_PostDeletedBeforeInsertIsNotFound(t *testing.T) {
	ctx := context.Background()
	backing := repository.NewGormStore(newTestDB(t))
	author := createUser(t, backing, "a@example.com")
	reader := createUser(t, backing, "b@example.com")
	post := createPost(t, backing, author.ID)

	_, err := NewReactionService(vanishingPostStore{backing}).Toggle(ctx, post.ID, reader.ID, models.ReactionLike)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NotErrorIs(t, err, apperrors.ErrStoreUnavailable)
	assert.Equal(t, "No Post with such id", apperrors.As(err).Message)
}

func TestNextKind(t *testing.T) {
	assert.Equal(t, models.ReactionNone, nextKind(models.ReactionLike, models.ReactionLike))
	assert.Equal(t, models.ReactionDislike, nextKind(models.ReactionLike, models.ReactionDislike))
	assert.Equal(t, models.ReactionLike, nextKind(models.ReactionNone, models.ReactionLike))
}
