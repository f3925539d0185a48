package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BranchProduct - Şube-ürün ilişkisi: bir ürünün o şubedeki fiyatı, stok miktarı
// ve eşik değerleri. Bileşik anahtar (branch_id, product_id): aynı çift için
// ikinci kayıt veritabanı seviyesinde engellenir, yarış durumunda kaybeden
// taraf duplicate hatası alır.
type BranchProduct struct {
	BranchID  uint `gorm:"primaryKey;autoIncrement:false" json:"branch_id"`
	ProductID uint `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	Branch    Branch  `gorm:"foreignKey:BranchID" json:"-"`
	Product   Product `gorm:"foreignKey:ProductID" json:"-"`

	StatusID uint   `gorm:"not null" json:"status_id"`
	Status   Status `gorm:"foreignKey:StatusID" json:"-"`

	CostPrice     decimal.Decimal `gorm:"type:numeric(18,2)" json:"cost_price"`
	RetailPrice   decimal.Decimal `gorm:"type:numeric(18,2)" json:"retail_price"`
	StockQuantity decimal.Decimal `gorm:"type:numeric(18,2)" json:"stock_quantity"`
	ReorderLevel  int             `json:"reorder_level"`
	MinStockLevel int             `json:"min_stock_level"`
	Remarks       string          `gorm:"size:500" json:"remarks"`

	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `gorm:"size:100" json:"created_by"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy *string   `gorm:"size:100" json:"updated_by"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	DeletedBy *string        `gorm:"size:100" json:"-"`
}
