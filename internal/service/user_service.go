package service

import (
	"context"
	"strings"

	"quorum/internal/models"
	"quorum/internal/repository"
	"quorum/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
}

// UpdateProfileInput carries the fields supplied by the client. Nil pointers
// mean "leave unchanged"; an explicit empty Bio clears it.
type UpdateProfileInput struct {
	UserID   uint
	Username *string
	Email    *string
	Bio      *string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetPublicProfile returns the profile fields any visitor may see.
func (s *UserService) GetPublicProfile(ctx context.Context, username string) (*models.PublicProfile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundMessage("User " + username + " not found")
	}

	profile := user.Public()
	return &profile, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if err := validation.ValidateUsername(username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if username != user.Username {
			existing, err := s.userRepo.GetByUsername(ctx, username)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, models.NewConflictError("Username or email already exists.")
			}
		}
		user.Username = username
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if err := validation.ValidateEmail(email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if email != user.Email {
			existing, err := s.userRepo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, models.NewConflictError("Username or email already exists.")
			}
		}
		user.Email = email
	}
	if in.Bio != nil {
		if len(*in.Bio) > models.MaxBioLength {
			return nil, models.NewValidationError("Bio too long (max 150 characters)")
		}
		user.Bio = *in.Bio
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
