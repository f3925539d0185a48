package models

import "time"

type Category struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null;unique"`
	Description string `gorm:"size:255"` // Açıklama (opsiyonel)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
