package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WriterSessionStatus string

const (
	WriterDraft WriterSessionStatus = "draft"
	WriterFinal WriterSessionStatus = "final"
)

// WriterSession holds one user-owned writing draft.
type WriterSession struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID           `gorm:"type:uuid;not null;index" json:"user_id"`
	Title     string              `gorm:"type:varchar(500)" json:"title"`
	Content   string              `gorm:"type:text" json:"content"`
	WordCount int                 `json:"word_count"`
	Status    WriterSessionStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	CreatedAt time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt      `gorm:"index" json:"-"`
}

func (s *WriterSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}

	return nil
}

func (s *WriterSession) BeforeUpdate(tx *gorm.DB) error {
	s.UpdatedAt = time.Now()
	return nil
}

func (WriterSession) TableName() string {
	return "writer_sessions"
}
