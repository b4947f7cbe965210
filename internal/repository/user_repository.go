package repository

import (
	"context"
	"mysre-api/internal/models"
	"mysre-api/internal/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, page, pageSize int) ([]models.User, int64, error)
	ListAll(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountAdmins(ctx context.Context) (int64, error)
	DebitBalance(ctx context.Context, tx *gorm.DB, id uuid.UUID, tokens int64) (bool, error)
	CreditBalance(ctx context.Context, id uuid.UUID, tokens int64) error
	SetBalance(ctx context.Context, id uuid.UUID, balance int64) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to create user")
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "id = ?", id)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, errors.Wrap(result.Error, "failed to get user by ID")
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "email = ?", email)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, errors.Wrap(result.Error, "failed to get user by email")
	}

	return &user, nil
}

func (r *userRepository) List(ctx context.Context, page, pageSize int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count users")
	}

	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&users).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list users")
	}

	return users, total, nil
}

// ListAll returns every user without pagination. Fleet-wide billing
// aggregates use it so no account is silently dropped past a page bound.
func (r *userRepository) ListAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"email":               user.Email,
		"name":                user.Name,
		"role":                user.Role,
		"tier":                user.Tier,
		"monthly_token_limit": user.MonthlyTokenLimit,
		"updated_at":          user.UpdatedAt,
	})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update user")
	}

	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}

	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete user")
	}

	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}

	return nil
}

func (r *userRepository) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", models.AdminRole).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to count admins")
	}
	return count, nil
}

// DebitBalance applies a server-side conditional decrement so that the
// balance check and the write are one atomic statement. Returns false when
// the balance was insufficient (no row matched). Runs on the supplied
// transaction handle so the caller can pair it with the usage event insert.
func (r *userRepository) DebitBalance(ctx context.Context, tx *gorm.DB, id uuid.UUID, tokens int64) (bool, error) {
	result := tx.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND token_balance >= ?", id, tokens).
		UpdateColumn("token_balance", gorm.Expr("token_balance - ?", tokens))

	if result.Error != nil {
		return false, errors.Wrap(result.Error, "failed to debit balance")
	}

	return result.RowsAffected > 0, nil
}

func (r *userRepository) CreditBalance(ctx context.Context, id uuid.UUID, tokens int64) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("token_balance", gorm.Expr("token_balance + ?", tokens))

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to credit balance")
	}

	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}

	return nil
}

func (r *userRepository) SetBalance(ctx context.Context, id uuid.UUID, balance int64) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("token_balance", balance)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to set balance")
	}

	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}

	return nil
}
