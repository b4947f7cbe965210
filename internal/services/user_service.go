package services

import (
	"context"
	"time"

	"mysre-api/internal/config"
	"mysre-api/internal/models"
	"mysre-api/internal/pkg/errors"
	"mysre-api/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context, page, pageSize int) ([]models.User, int64, error)
	CreateUser(ctx context.Context, email, password, name string, role models.UserRole, tier models.SubscriptionTier) (*models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, name string, role models.UserRole, tier models.SubscriptionTier) (*models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	userRepo   repository.UserRepository
	tierLimits *config.TierLimitConfig
}

func NewUserService(userRepo repository.UserRepository, tierLimits *config.TierLimitConfig) UserService {
	return &userService{
		userRepo:   userRepo,
		tierLimits: tierLimits,
	}
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context, page, pageSize int) ([]models.User, int64, error) {
	return s.userRepo.List(ctx, page, pageSize)
}

// CreateUser provisions an account with an explicit role and tier; the
// admin console uses it for accounts that should not go through public
// registration. The starting balance is the tier's full monthly allowance.
func (s *userService) CreateUser(ctx context.Context, email, password, name string, role models.UserRole, tier models.SubscriptionTier) (*models.User, error) {
	if email == "" || password == "" {
		return nil, errors.ErrInvalidInput
	}

	if role == "" {
		role = models.MemberRole
	}
	if role != models.AdminRole && role != models.MemberRole {
		return nil, errors.ErrInvalidInput
	}

	if tier == "" {
		tier = models.BasicTier
	}
	if _, err := CostPerToken(tier); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	limit := s.tierLimits.TokenLimits[tier]

	user := &models.User{
		ID:                uuid.New(),
		Email:             email,
		Name:              name,
		PasswordHash:      string(hash),
		Role:              role,
		Tier:              tier,
		TokenBalance:      limit,
		MonthlyTokenLimit: limit,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateUser applies profile changes. A tier change also moves the monthly
// token allowance to the new tier's limit; the current balance is left
// alone until the next reset.
func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, name string, role models.UserRole, tier models.SubscriptionTier) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if role != "" {
		if role != models.AdminRole && role != models.MemberRole {
			return nil, errors.ErrInvalidInput
		}
		// Demoting the only admin would lock everyone out, same rule as delete
		if user.Role == models.AdminRole && role != models.AdminRole {
			admins, err := s.userRepo.CountAdmins(ctx)
			if err != nil {
				return nil, err
			}
			if admins <= 1 {
				return nil, errors.ErrLastAdmin
			}
		}
		user.Role = role
	}
	if tier != "" {
		if _, err := CostPerToken(tier); err != nil {
			return nil, err
		}
		user.Tier = tier
		user.MonthlyTokenLimit = s.tierLimits.TokenLimits[tier]
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteUser refuses to remove the last remaining admin.
func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if user.Role == models.AdminRole {
		admins, err := s.userRepo.CountAdmins(ctx)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return errors.ErrLastAdmin
		}
	}

	return s.userRepo.Delete(ctx, id)
}
