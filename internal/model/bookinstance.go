package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusAvailable   Status = "Available"
	StatusMaintenance Status = "Maintenance"
	StatusLoaned      Status = "Loaned"
	StatusReserved    Status = "Reserved"
)

// Statuses lists every status in the order forms present them.
var Statuses = []Status{
	StatusAvailable,
	StatusMaintenance,
	StatusLoaned,
	StatusReserved,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

type BookInstance struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	BookID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Book      Book       `gorm:"foreignKey:BookID"`
	Imprint   string     `gorm:"not null"`
	Status    Status     `gorm:"size:20;not null;default:Maintenance;index"`
	DueBack   *time.Time `gorm:"type:date"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (bi *BookInstance) BeforeCreate(tx *gorm.DB) (err error) {
	if bi.ID == uuid.Nil {
		bi.ID = uuid.New()
	}
	if bi.Status == "" {
		bi.Status = StatusMaintenance
	}
	return
}

func (bi BookInstance) URL() string {
	return "/catalog/bookinstance/" + bi.ID.String()
}

func (bi BookInstance) DueBackFormatted() string {
	return FormatMedium(bi.DueBack)
}

func (bi BookInstance) DueBackISO() string {
	return FormatISO(bi.DueBack)
}
