package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ArticleStatus string

const (
	ArticleDraft     ArticleStatus = "draft"
	ArticlePublished ArticleStatus = "published"
	ArticleArchived  ArticleStatus = "archived"
)

type Article struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string         `gorm:"type:varchar(500);not null" json:"title"`
	Abstract  string         `gorm:"type:text" json:"abstract"`
	Authors   string         `gorm:"type:varchar(500)" json:"authors"`
	Keywords  string         `gorm:"type:varchar(500)" json:"keywords"`
	Category  string         `gorm:"type:varchar(100);index" json:"category"`
	Journal   string         `gorm:"type:varchar(255)" json:"journal"`
	Year      int            `json:"year"`
	FilePath  string         `gorm:"type:varchar(500)" json:"file_path,omitempty"`
	FileSize  int64          `json:"file_size,omitempty"`
	Status    ArticleStatus  `gorm:"type:varchar(20);not null;default:'published'" json:"status"`
	CreatedBy uuid.UUID      `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}

	return nil
}

func (a *Article) BeforeUpdate(tx *gorm.DB) error {
	a.UpdatedAt = time.Now()
	return nil
}

func (Article) TableName() string {
	return "articles"
}
