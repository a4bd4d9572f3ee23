package auth

import (
	"cafes/database"
	"cafes/model"
	"context"
	"errors"
	"fmt"
)

var (
	ErrEmailTaken        = errors.New("email already registered")
	ErrEmailNotFound     = errors.New("email not found")
	ErrPasswordIncorrect = errors.New("password incorrect")
)

type UserRepository interface {
	Get(ctx context.Context, id uint) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
}

// Service registers and authenticates users against the user table.
type Service struct {
	users UserRepository
}

func NewService(users UserRepository) *Service {
	return &Service{users: users}
}

func (s *Service) Register(ctx context.Context, email, password string) (*model.User, error) {
	_, err := s.users.ByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, database.ErrNotFound):
		return nil, err
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{Email: email, Password: hashed}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrEmailNotFound
		}
		return nil, err
	}

	ok, err := CheckPassword(user.Password, password)
	if err != nil {
		return nil, fmt.Errorf("check password: %w", err)
	}
	if !ok {
		return nil, ErrPasswordIncorrect
	}
	return user, nil
}

// User loads a user by id for session continuity.
func (s *Service) User(ctx context.Context, id uint) (*model.User, error) {
	return s.users.Get(ctx, id)
}
