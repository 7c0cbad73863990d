package services

import (
	"context"
	"errors"
	"log"

	"smart-elib/internal/adapters/persistence/models"
	"smart-elib/internal/adapters/persistence/repositories"
	"smart-elib/internal/core/domain"

	"gorm.io/gorm"
)

// User management errors
var (
	ErrCannotDeleteSelf  = errors.New("cannot delete own account")
	ErrCannotDemoteAdmin = errors.New("user is already an admin")
	ErrUserHasOpenLoans  = errors.New("user still has books issued")
)

// UserService handles user management business logic
type UserService struct {
	userRepo repositories.UserRepository
	loanRepo repositories.LoanRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, loanRepo repositories.LoanRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		loanRepo: loanRepo,
	}
}

// ListUsers lists users with pagination (admin)
func (s *UserService) ListUsers(ctx context.Context, offset, limit int) ([]*models.UserResponse, int64, error) {
	users, total, err := s.userRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.ToResponse())
	}

	return responses, total, nil
}

// DeleteUser removes a user account (admin)
// A user with books still issued cannot be deleted.
func (s *UserService) DeleteUser(ctx context.Context, actorID, targetID uint) error {
	if actorID == targetID {
		return ErrCannotDeleteSelf
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	_, open, err := s.loanRepo.CountByUser(ctx, targetID)
	if err != nil {
		return err
	}
	if open > 0 {
		return ErrUserHasOpenLoans
	}

	if err := s.userRepo.Delete(ctx, targetID); err != nil {
		return err
	}

	log.Printf("✅ User deleted: %s (StudentID: %s)", user.Email, user.StudentID)
	return nil
}

// PromoteUser grants the admin role to a user (admin)
func (s *UserService) PromoteUser(ctx context.Context, targetID uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.IsAdmin() {
		return nil, ErrCannotDemoteAdmin
	}

	user.Role = string(domain.RoleAdmin)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User promoted to admin: %s", user.Email)
	return user.ToResponse(), nil
}
