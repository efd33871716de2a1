package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"todolist/internal/model"
	"todolist/internal/repository"
)

var (
	// ErrUserNotFound means no account exists for the submitted username.
	ErrUserNotFound = errors.New("user not found")
	// ErrBadCredentials means the account exists but the password does
	// not verify.
	ErrBadCredentials = errors.New("invalid username or password")

	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")
)

// UserStore is the slice of the user repository the auth flow needs.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
}

type Service struct {
	users  UserStore
	logger *zap.Logger
}

func NewService(users UserStore, logger *zap.Logger) *Service {
	return &Service{users: users, logger: logger}
}

// Register creates a new account with a hashed password. Username and
// email are pre-checked for uniqueness; a racing duplicate insert is
// still caught by the store's unique constraints.
func (s *Service) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	s.logger.Info("User registered",
		zap.Int("user_id", u.ID),
		zap.String("username", u.Username),
	)
	return u, nil
}

// Login checks the submitted credentials. The two failure modes are
// distinguished only so the handler can flash a different message; both
// render as a generic notice with the same status code.
func (s *Service) Login(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !CheckPassword(password, u.PasswordHash) {
		return nil, ErrBadCredentials
	}

	s.logger.Info("User logged in", zap.Int("user_id", u.ID))
	return u, nil
}

// ResolvePrincipal re-fetches the user behind a persisted session id.
// Any failure downgrades the request to anonymous rather than erroring.
func (s *Service) ResolvePrincipal(ctx context.Context, userID int) model.Principal {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if !repository.IsNotFound(err) {
			s.logger.Warn("Failed to resolve session user",
				zap.Int("user_id", userID),
				zap.Error(err),
			)
		}
		return model.Anonymous()
	}
	return model.Principal{User: u}
}
