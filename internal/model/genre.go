package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Genre names are unique by convention only: handlers check before writing.
type Genre struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:100;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (g *Genre) BeforeCreate(tx *gorm.DB) (err error) {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return
}

func (g Genre) URL() string {
	return "/catalog/genre/" + g.ID.String()
}
