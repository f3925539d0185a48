package models

import "time"

// Status - Şube ürünlerinin satış durumu (ör: "Aktif", "Satışa Kapalı", "Sezonluk")
type Status struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null;unique"`
	Description string `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
