package services

import (
	"context"
	"time"

	"mysre-api/internal/config"
	"mysre-api/internal/logger"
	"mysre-api/internal/models"
	"mysre-api/internal/pkg/errors"
	"mysre-api/internal/repository"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const UserContextKey contextKey = "user"

// WithUserContext installs the authenticated user on the request context.
// The session lives for exactly one request: set after token verification,
// gone when the request context is torn down.
func WithUserContext(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	return user, ok
}

type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	VerifyToken(token string) (*models.User, error)
	VerifyTokenAdmin(token string) (*models.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	tierLimits *config.TierLimitConfig
	email      EmailService
	jwtSecret  string
}

func NewAuthService(
	userRepo repository.UserRepository,
	tierLimits *config.TierLimitConfig,
	email EmailService,
	jwtSecret string,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		tierLimits: tierLimits,
		email:      email,
		jwtSecret:  jwtSecret,
	}
}

// Register creates a basic-tier account with the tier's full monthly token
// allowance as the starting balance.
func (s *authService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, errors.ErrInvalidInput
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	limit := s.tierLimits.TokenLimits[models.BasicTier]

	user := &models.User{
		ID:                uuid.New(),
		Email:             email,
		Name:              name,
		PasswordHash:      string(hashedPassword),
		Role:              models.MemberRole,
		Tier:              models.BasicTier,
		TokenBalance:      limit,
		MonthlyTokenLimit: limit,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	go func() {
		if err := s.email.SendWelcomeEmail(user); err != nil {
			logger.LogEvent(logrus.WarnLevel, "Failed to send welcome email", logrus.Fields{
				"user_id": user.ID,
				"error":   err.Error(),
			})
		}
	}()

	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", errors.ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID.String(),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})

	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) VerifyToken(tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.ErrInvalidCredentials
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.ErrInvalidCredentials
	}

	idStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.ErrInvalidCredentials
	}

	userID, err := uuid.Parse(idStr)
	if err != nil {
		return nil, errors.ErrInvalidCredentials
	}

	return s.userRepo.GetByID(context.Background(), userID)
}

func (s *authService) VerifyTokenAdmin(tokenString string) (*models.User, error) {
	user, err := s.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}
	if user.Role != models.AdminRole {
		return nil, errors.ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
