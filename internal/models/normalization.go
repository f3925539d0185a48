package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryNormalization - Sayım mutabakat kaydı.
// AdjustedQuantity = ActualQuantity - SystemQuantity
// DiscrepancyValue = AdjustedQuantity * CostPrice
type InventoryNormalization struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	InventoryID uint      `gorm:"index;not null" json:"inventory_id"`
	Inventory   Inventory `gorm:"foreignKey:InventoryID" json:"-"`

	AdjustedQuantity decimal.Decimal `gorm:"type:numeric(18,2)" json:"adjusted_quantity"`
	SystemQuantity   decimal.Decimal `gorm:"type:numeric(18,2)" json:"system_quantity"`
	ActualQuantity   decimal.Decimal `gorm:"type:numeric(18,2)" json:"actual_quantity"`
	DiscrepancyValue decimal.Decimal `gorm:"type:numeric(18,2)" json:"discrepancy_value"`
	CostPrice        decimal.Decimal `gorm:"type:numeric(18,2)" json:"cost_price"`

	NormalizationDate time.Time `gorm:"not null" json:"normalization_date"`
	Remarks           string    `gorm:"size:500" json:"remarks"`
	CreatedBy         string    `gorm:"size:100" json:"created_by"`
	CreatedAt         time.Time `json:"created_at"`
}
