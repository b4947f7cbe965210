package services

import (
	"context"
	"strings"
	"time"

	"mysre-api/internal/models"
	"mysre-api/internal/pkg/errors"
	"mysre-api/internal/repository"

	"github.com/google/uuid"
)

type WriterService interface {
	GetSession(ctx context.Context, userID, id uuid.UUID) (*models.WriterSession, error)
	ListSessions(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]models.WriterSession, error)
	CreateSession(ctx context.Context, userID uuid.UUID, title, content string) (*models.WriterSession, error)
	UpdateSession(ctx context.Context, userID, id uuid.UUID, title, content string, status models.WriterSessionStatus) (*models.WriterSession, error)
	DeleteSession(ctx context.Context, userID, id uuid.UUID) error
}

type writerService struct {
	sessionRepo repository.WriterSessionRepository
}

func NewWriterService(sessionRepo repository.WriterSessionRepository) WriterService {
	return &writerService{sessionRepo: sessionRepo}
}

func (s *writerService) GetSession(ctx context.Context, userID, id uuid.UUID) (*models.WriterSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != userID {
		return nil, errors.ErrNotFound
	}
	return session, nil
}

func (s *writerService) ListSessions(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]models.WriterSession, error) {
	offset := (page - 1) * pageSize
	return s.sessionRepo.ListByUser(ctx, userID, pageSize, offset)
}

func (s *writerService) CreateSession(ctx context.Context, userID uuid.UUID, title, content string) (*models.WriterSession, error) {
	session := &models.WriterSession{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		WordCount: countWords(content),
		Status:    models.WriterDraft,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *writerService) UpdateSession(ctx context.Context, userID, id uuid.UUID, title, content string, status models.WriterSessionStatus) (*models.WriterSession, error) {
	session, err := s.GetSession(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if title != "" {
		session.Title = title
	}
	session.Content = content
	session.WordCount = countWords(content)
	if status != "" {
		session.Status = status
	}
	session.UpdatedAt = time.Now()

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *writerService) DeleteSession(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.GetSession(ctx, userID, id); err != nil {
		return err
	}
	return s.sessionRepo.Delete(ctx, id)
}

func countWords(content string) int {
	return len(strings.Fields(content))
}
