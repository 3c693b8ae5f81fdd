package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/emilythestrangee/social-network/backend/internal/apperrors"
	"github.com/emilythestrangee/social-network/backend/internal/auth"
	"github.com/emilythestrangee/social-network/backend/internal/models"
	"github.com/emilythestrangee/social-network/backend/internal/repository"
)

// UserService registers and authenticates users. It implements auth.IdentityProvider.
type UserService struct {
	store  repository.Store
	tokens *auth.TokenStrategy
}

var _ auth.IdentityProvider = (*UserService)(nil)

func NewUserService(store repository.Store, tokens *auth.TokenStrategy) *UserService {
	return &UserService{store: store, tokens: tokens}
}

func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if len(req.Password) < 3 {
		return nil, apperrors.ErrInvalidPassword
	}

	_, err := s.store.Users().GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.StoreUnavailable(err)
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}

	user := &models.User{
		Email:          req.Email,
		HashedPassword: hashed,
		NickName:       req.NickName,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		IsActive:       true,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, apperrors.StoreUnavailable(err)
	}

	slog.InfoContext(ctx, "User has registered", "user_id", user.ID)
	return user, nil
}

// Login checks the credentials and returns a signed access token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.store.Users().GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		// Hash anyway so unknown emails take as long as wrong passwords.
		_, _ = auth.HashPassword(password)
		return "", nil, apperrors.ErrBadCredentials
	}
	if err != nil {
		return "", nil, apperrors.StoreUnavailable(err)
	}

	if err := auth.CheckPassword(user.HashedPassword, password); err != nil || !user.IsActive {
		return "", nil, apperrors.ErrBadCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, apperrors.StoreUnavailable(err)
	}
	return token, user, nil
}

func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperrors.ErrUnauthorized
	}
	userID, err := s.tokens.Validate(token)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUnauthorized, "Unauthorized", apperrors.ErrUnauthorized.HTTPCode)
	}

	user, err := s.store.Users().GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrUnauthorized
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if !user.IsActive {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}
