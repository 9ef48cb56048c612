package services

import (
	"context"
	"fmt"

	"silent-auction/internal/domain"
	"silent-auction/pkg/logger"
)

// UserService exposes profile lookup and owner-only profile updates.
// Registration and authentication live outside this service.
type UserService struct {
	users domain.UserRepository
	log   logger.Logger
}

func NewUserService(users domain.UserRepository, log logger.Logger) *UserService {
	return &UserService{
		users: users,
		log:   log,
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID, callerID string) (*domain.User, error) {
	if callerID != userID {
		return nil, fmt.Errorf("%w: you can only view your own profile", domain.ErrUnauthorized)
	}
	return s.users.GetUser(ctx, userID)
}

// UpdateProfile updates name and profile image; empty fields keep the
// prior value.
func (s *UserService) UpdateProfile(ctx context.Context, userID, callerID, name, profileImage string) (*domain.User, error) {
	if callerID != userID {
		return nil, fmt.Errorf("%w: you can only update your own profile", domain.ErrUnauthorized)
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if profileImage != "" {
		user.ProfileImage = profileImage
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
