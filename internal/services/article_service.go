package services

import (
	"context"
	"time"

	"mysre-api/internal/logger"
	"mysre-api/internal/models"
	"mysre-api/internal/pkg/errors"
	"mysre-api/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ArticleService interface {
	GetArticle(ctx context.Context, id uuid.UUID) (*models.Article, error)
	GetArticlesWithFilters(ctx context.Context, page, perPage int, searchTerm, category string) ([]models.Article, int64, error)
	CreateArticle(ctx context.Context, article *models.Article) error
	UpdateArticle(ctx context.Context, article *models.Article) error
	DeleteArticle(ctx context.Context, id uuid.UUID) error
}

type articleService struct {
	articleRepo repository.ArticleRepository
	storage     StorageService
}

func NewArticleService(articleRepo repository.ArticleRepository, storage StorageService) ArticleService {
	return &articleService{
		articleRepo: articleRepo,
		storage:     storage,
	}
}

func (s *articleService) GetArticle(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	return s.articleRepo.GetByID(ctx, id)
}

func (s *articleService) GetArticlesWithFilters(ctx context.Context, page, perPage int, searchTerm, category string) ([]models.Article, int64, error) {
	return s.articleRepo.ListWithFilters(ctx, page, perPage, searchTerm, category)
}

func (s *articleService) CreateArticle(ctx context.Context, article *models.Article) error {
	return s.articleRepo.Create(ctx, article)
}

func (s *articleService) UpdateArticle(ctx context.Context, article *models.Article) error {
	article.UpdatedAt = time.Now()
	return s.articleRepo.Update(ctx, article)
}

// DeleteArticle removes the row and then its stored file. A storage failure
// is logged and swallowed; the delete itself has already succeeded.
func (s *articleService) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if article == nil {
		return errors.ErrNotFound
	}

	if err := s.articleRepo.Delete(ctx, id); err != nil {
		return err
	}

	if article.FilePath != "" && s.storage != nil {
		if err := s.storage.Delete(DocumentsBucket, article.FilePath); err != nil {
			logger.LogEvent(logrus.WarnLevel, "Failed to delete article file", logrus.Fields{
				"article_id": id,
				"file_path":  article.FilePath,
				"error":      err.Error(),
			})
		}
	}

	return nil
}
