package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:200;not null"`
	SKU        string `gorm:"size:50;index"` // Stok kodu
	CategoryID uint   `gorm:"index;not null"`
	Category   Category
	SupplierID uint `gorm:"index;not null"`
	Supplier   Supplier
	Remarks    string `gorm:"size:500"`
	CreatedAt  time.Time
	CreatedBy  string `gorm:"size:100"`
	UpdatedAt  time.Time
	UpdatedBy  *string `gorm:"size:100"`

	// Soft delete: kayıt silinmez, deleted_at damgalanır
	DeletedAt gorm.DeletedAt `gorm:"index"`
	DeletedBy *string        `gorm:"size:100"`
}
