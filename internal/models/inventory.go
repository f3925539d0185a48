package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InventoryType string

const (
	InventoryTypeWeekly  InventoryType = "weekly"
	InventoryTypeMonthly InventoryType = "monthly"
)

// Inventory - Fiziksel sayım anlık görüntüsü. SystemQuantity sayım anındaki
// sistem stoğudur, ActualQuantity rafta sayılan miktar.
type Inventory struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	BranchID  uint `gorm:"index:idx_inventories_key" json:"branch_id"`
	ProductID uint `gorm:"index:idx_inventories_key" json:"product_id"`

	InventoryDate time.Time     `gorm:"index;not null" json:"inventory_date"`
	Year          int           `gorm:"not null" json:"year"`
	Month         int           `gorm:"not null" json:"month"`
	Week          int           `gorm:"not null" json:"week"` // 1-4 (7/14/21/28 kuralı)
	Type          InventoryType `gorm:"size:20;not null" json:"type"`

	// Tamamlanan sayımın normalizasyon kayıtları artık değiştirilemez
	IsCompleted bool `gorm:"default:false" json:"is_completed"`

	ActualQuantity   decimal.Decimal `gorm:"type:numeric(18,2)" json:"actual_quantity"`
	SystemQuantity   decimal.Decimal `gorm:"type:numeric(18,2)" json:"system_quantity"`
	CostPrice        decimal.Decimal `gorm:"type:numeric(18,2)" json:"cost_price"`
	Discrepancy      decimal.Decimal `gorm:"type:numeric(18,2)" json:"discrepancy"`
	DiscrepancyValue decimal.Decimal `gorm:"type:numeric(18,2)" json:"discrepancy_value"`

	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `gorm:"size:100" json:"created_by"`

	Normalizations []InventoryNormalization `gorm:"foreignKey:InventoryID" json:"-"`
}

// WeekOfDate - Ayın 7/14/21/28'i kuralına göre hafta numarası
func WeekOfDate(d time.Time) int {
	switch {
	case d.Day() <= 7:
		return 1
	case d.Day() <= 14:
		return 2
	case d.Day() <= 21:
		return 3
	default:
		return 4
	}
}
