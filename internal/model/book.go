package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Book struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title     string    `gorm:"not null;index"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Author    Author    `gorm:"foreignKey:AuthorID"`
	Summary   string    `gorm:"not null"`
	ISBN      string    `gorm:"column:isbn;not null"`
	Genres    []Genre   `gorm:"many2many:book_genres;"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b *Book) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

func (b Book) URL() string {
	return "/catalog/book/" + b.ID.String()
}

// GenreIDs returns the ids of the referenced genres in stored order.
func (b Book) GenreIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(b.Genres))
	for _, g := range b.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}
