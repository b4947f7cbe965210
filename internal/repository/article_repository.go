package repository

import (
	"context"
	"errors"
	"mysre-api/internal/models"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ArticleRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Article, error)
	ListWithFilters(ctx context.Context, page, perPage int, searchTerm, category string) ([]models.Article, int64, error)
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	var article models.Article

	err := r.db.WithContext(ctx).First(&article, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &article, err
}

// ListWithFilters searches case-insensitively across title, abstract and
// keywords. LOWER(...) LIKE instead of ILIKE so the query also runs on the
// sqlite driver used in tests.
func (r *articleRepository) ListWithFilters(ctx context.Context, page, perPage int, searchTerm, category string) ([]models.Article, int64, error) {
	var articles []models.Article
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Article{})

	if searchTerm != "" {
		pattern := "%" + strings.ToLower(searchTerm) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(abstract) LIKE ? OR LOWER(keywords) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(perPage).
		Find(&articles).Error

	return articles, total, err
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

func (r *articleRepository) Update(ctx context.Context, article *models.Article) error {
	result := r.db.WithContext(ctx).Model(&models.Article{}).
		Where("id = ?", article.ID).
		Updates(map[string]interface{}{
			"title":      article.Title,
			"abstract":   article.Abstract,
			"authors":    article.Authors,
			"keywords":   article.Keywords,
			"category":   article.Category,
			"journal":    article.Journal,
			"year":       article.Year,
			"file_path":  article.FilePath,
			"file_size":  article.FileSize,
			"status":     article.Status,
			"updated_at": article.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *articleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Article{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
