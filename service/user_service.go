package service

import (
	"context"
	"errors"
	"go-crop-api/model"
	"go-crop-api/repository"
)

var ErrUserNotFound = errors.New("user not found")

// UserService handles user-related business logic.
type UserService struct {
	userRepo repository.IUserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.IUserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetProfile(ctx context.Context, userID int) (*model.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

// UpdateProfile updates the caller's display name and avatar.
func (s *UserService) UpdateProfile(ctx context.Context, userID int, req model.UpdateProfileRequest) (*model.User, error) {
	current, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	name := current.Name
	if req.Name != "" {
		name = req.Name
	}
	avatarURL := current.AvatarURL
	if req.AvatarURL != "" {
		avatarURL = req.AvatarURL
	}

	return s.userRepo.UpdateProfile(ctx, userID, name, avatarURL)
}

func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.GetAllUsers(ctx)
}

// UpdateUserRole validates the role and calls the repository to update it.
func (s *UserService) UpdateUserRole(ctx context.Context, userID int, newRole model.Role) error {
	// We ensure that only valid roles can be assigned.
	if newRole != model.RoleAdmin && newRole != model.RoleUser && newRole != model.RoleModerator {
		return errors.New("invalid role specified")
	}

	return s.userRepo.UpdateUserRole(ctx, userID, string(newRole))
}
