package models

import "time"

type Supplier struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"size:200;not null"`
	ContactPerson string `gorm:"size:100"`
	Phone         string `gorm:"size:50"`
	Email         string `gorm:"size:100"`
	Address       string `gorm:"size:255"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
