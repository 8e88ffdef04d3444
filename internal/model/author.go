package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Author struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FirstName   string     `gorm:"size:100;not null"`
	FamilyName  string     `gorm:"size:100;not null;index"`
	DateOfBirth *time.Time `gorm:"type:date"`
	DateOfDeath *time.Time `gorm:"type:date"`
	Books       []Book     `gorm:"foreignKey:AuthorID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (a *Author) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

// Name is "First, Family", or empty when either part is missing.
func (a Author) Name() string {
	if a.FirstName == "" || a.FamilyName == "" {
		return ""
	}
	return a.FirstName + ", " + a.FamilyName
}

func (a Author) Lifespan() string {
	if a.DateOfBirth == nil {
		return ""
	}
	s := FormatMedium(a.DateOfBirth)
	if a.DateOfDeath != nil {
		s += " : " + FormatMedium(a.DateOfDeath)
	}
	return s
}

func (a Author) BirthFormatted() string {
	return FormatISO(a.DateOfBirth)
}

func (a Author) DeathFormatted() string {
	return FormatISO(a.DateOfDeath)
}

func (a Author) URL() string {
	return "/catalog/author/" + a.ID.String()
}
