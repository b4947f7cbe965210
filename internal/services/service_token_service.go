package services

import (
	"mysre-api/internal/pkg/errors"
	"mysre-api/internal/repository"

	"github.com/google/uuid"
)

// ServiceTokenService issues and checks the bearer tokens the external
// billing-cycle job uses to call reset and settlement endpoints.
type ServiceTokenService interface {
	IssueToken() (string, error)
	EnsureToken(token string) error
	VerifyToken(token string) bool
}

type serviceTokenService struct {
	repo repository.ServiceTokenRepository
}

func NewServiceTokenService(repo repository.ServiceTokenRepository) ServiceTokenService {
	return &serviceTokenService{repo: repo}
}

func (s *serviceTokenService) IssueToken() (string, error) {
	token := uuid.NewString()
	if err := s.repo.CreateToken(token); err != nil {
		return "", err
	}
	_ = s.repo.DeleteOldTokens()
	return token, nil
}

// EnsureToken registers a deploy-time credential (SERVICE_TOKEN) so the
// billing-cycle job can authenticate from the first request. Re-seeding an
// existing token is a no-op.
func (s *serviceTokenService) EnsureToken(token string) error {
	if token == "" {
		return errors.ErrInvalidInput
	}
	if st, err := s.repo.GetByToken(token); err == nil && st != nil {
		return nil
	}
	return s.repo.CreateToken(token)
}

func (s *serviceTokenService) VerifyToken(token string) bool {
	if token == "" {
		return false
	}
	st, err := s.repo.GetByToken(token)
	return err == nil && st != nil
}
