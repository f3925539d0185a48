package branchproduct

import (
	"context"
	"errors"
	"time"

	"magaza-backend/internal/apperr"
	"magaza-backend/internal/audit"
	"magaza-backend/internal/database"
	"magaza-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service - Şube-ürün kayıtlarının sahibi. Tüm durum değişiklikleri tek
// transaction içinde denetim kaydıyla birlikte yazılır.
type Service struct {
	db       *gorm.DB
	recorder *audit.Recorder
	now      func() time.Time
}

func NewService(db *gorm.DB, recorder *audit.Recorder) *Service {
	return &Service{db: db, recorder: recorder, now: time.Now}
}

// NewServiceWithClock - Testlerde sabit saat vermek için
func NewServiceWithClock(db *gorm.DB, recorder *audit.Recorder, now func() time.Time) *Service {
	return &Service{db: db, recorder: recorder, now: now}
}

type CreateInput struct {
	BranchID      uint
	ProductID     uint
	StatusID      uint
	CostPrice     decimal.Decimal
	RetailPrice   decimal.Decimal
	StockQuantity decimal.Decimal
	ReorderLevel  int
	MinStockLevel int
	Remarks       string
	CreatedBy     string
}

// Create - Tek şube-ürün ilişkisi ekler. Referans doğrulaması yazmadan önce
// yapılır; aynı anahtar için eşzamanlı iki Create'ten yalnız biri kazanır,
// kaybeden bileşik anahtar ihlaliyle DuplicateAssociation alır.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.BranchProduct, error) {
	if err := validateQuantities(in.CostPrice, in.RetailPrice, in.StockQuantity); err != nil {
		return nil, err
	}

	var created models.BranchProduct
	err := database.RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		if err := validateAssociation(tx, in.BranchID, in.ProductID, in.StatusID); err != nil {
			return err
		}

		bp := s.buildRecord(in)
		if err := tx.Create(&bp).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.DuplicateAssociation("ürün %d zaten şube %d ile ilişkili", in.ProductID, in.BranchID)
			}
			return err
		}

		if err := s.recorder.BranchProduct(tx, bp.BranchID, bp.ProductID, audit.Entry{
			Action:   models.AuditActionCreated,
			ActionBy: in.CreatedBy,
			New:      bp,
			Remarks:  in.Remarks,
		}); err != nil {
			return err
		}

		created = bp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

type UpdateInput struct {
	StatusID      uint
	CostPrice     decimal.Decimal
	RetailPrice   decimal.Decimal
	StockQuantity decimal.Decimal
	ReorderLevel  int
	MinStockLevel int
	Remarks       string
	UpdatedBy     string
}

// Update - Canlı kaydı günceller. Ön hal (pre-image) denetim kaydına JSON
// olarak yazılır. Güncelleme koşullu UPDATE ile yapılır: kayıt bu arada
// silindiyse 0 satır etkilenir ve NotFound döner, sessiz ezme olmaz.
func (s *Service) Update(ctx context.Context, branchID, productID uint, in UpdateInput) (*models.BranchProduct, error) {
	if err := validateQuantities(in.CostPrice, in.RetailPrice, in.StockQuantity); err != nil {
		return nil, err
	}

	var after models.BranchProduct
	err := database.RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		var before models.BranchProduct
		err := tx.Where("branch_id = ? AND product_id = ?", branchID, productID).First(&before).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("şube %d / ürün %d ilişkisi bulunamadı", branchID, productID)
			}
			return err
		}

		now := s.now()
		updatedBy := in.UpdatedBy
		res := tx.Model(&models.BranchProduct{}).
			Where("branch_id = ? AND product_id = ?", branchID, productID).
			Updates(map[string]any{
				"status_id":       in.StatusID,
				"cost_price":      in.CostPrice,
				"retail_price":    in.RetailPrice,
				"stock_quantity":  in.StockQuantity,
				"reorder_level":   in.ReorderLevel,
				"min_stock_level": in.MinStockLevel,
				"remarks":         in.Remarks,
				"updated_at":      now,
				"updated_by":      updatedBy,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("şube %d / ürün %d ilişkisi bulunamadı", branchID, productID)
		}

		after = before
		after.StatusID = in.StatusID
		after.CostPrice = in.CostPrice
		after.RetailPrice = in.RetailPrice
		after.StockQuantity = in.StockQuantity
		after.ReorderLevel = in.ReorderLevel
		after.MinStockLevel = in.MinStockLevel
		after.Remarks = in.Remarks
		after.UpdatedAt = now
		after.UpdatedBy = &updatedBy

		return s.recorder.BranchProduct(tx, branchID, productID, audit.Entry{
			Action:   models.AuditActionUpdated,
			ActionBy: in.UpdatedBy,
			Old:      before,
			New:      after,
			Remarks:  in.Remarks,
		})
	})
	if err != nil {
		return nil, err
	}
	return &after, nil
}

// ListRow - Listeleme/filtre sorgularının görüntüleme satırı
type ListRow struct {
	BranchID      uint            `json:"branch_id"`
	BranchName    string          `json:"branch_name"`
	ProductID     uint            `json:"product_id"`
	ProductName   string          `json:"product_name"`
	SKU           string          `json:"sku"`
	CategoryID    uint            `json:"category_id"`
	CategoryName  string          `json:"category_name"`
	SupplierID    uint            `json:"supplier_id"`
	SupplierName  string          `json:"supplier_name"`
	StatusID      uint            `json:"status_id"`
	StatusName    string          `json:"status_name"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	RetailPrice   decimal.Decimal `json:"retail_price"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	ReorderLevel  int             `json:"reorder_level"`
	MinStockLevel int             `json:"min_stock_level"`
	Remarks       string          `json:"remarks"`
}

// ListByBranch - Şubenin canlı kayıtları; salt okunur
func (s *Service) ListByBranch(ctx context.Context, branchID uint) ([]ListRow, error) {
	var bps []models.BranchProduct
	err := s.preloaded(ctx).
		Where("branch_id = ?", branchID).
		Find(&bps).Error
	if err != nil {
		return nil, apperr.OperationFailed(err)
	}
	return toRows(bps), nil
}

type FilterInput struct {
	BranchID     uint
	CategoryName string
	SKU          string
	ProductName  string
}

// Filter - Kategori adı / SKU / ürün adı içerme filtreleriyle listeler
func (s *Service) Filter(ctx context.Context, f FilterInput) ([]ListRow, error) {
	q := s.preloaded(ctx).
		Joins("JOIN products ON products.id = branch_products.product_id AND products.deleted_at IS NULL").
		Where("branch_products.branch_id = ?", f.BranchID)

	if f.SKU != "" {
		q = q.Where("products.sku LIKE ?", "%"+f.SKU+"%")
	}
	if f.ProductName != "" {
		q = q.Where("products.name LIKE ?", "%"+f.ProductName+"%")
	}
	if f.CategoryName != "" {
		q = q.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.name LIKE ?", "%"+f.CategoryName+"%")
	}

	var bps []models.BranchProduct
	if err := q.Find(&bps).Error; err != nil {
		return nil, apperr.OperationFailed(err)
	}
	return toRows(bps), nil
}

// ListDeleted - Silinmiş ilişkiler (restore ekranı için)
func (s *Service) ListDeleted(ctx context.Context) ([]models.BranchProduct, error) {
	var bps []models.BranchProduct
	err := s.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL").
		Find(&bps).Error
	if err != nil {
		return nil, apperr.OperationFailed(err)
	}
	return bps, nil
}

func (s *Service) preloaded(ctx context.Context) *gorm.DB {
	// Ürün silinmiş olsa da görüntüleme alanları dolsun diye preload'lar
	// soft delete filtresiz yapılır
	return s.db.WithContext(ctx).Model(&models.BranchProduct{}).
		Preload("Branch").
		Preload("Status").
		Preload("Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Product.Category").
		Preload("Product.Supplier")
}

func (s *Service) buildRecord(in CreateInput) models.BranchProduct {
	now := s.now()
	return models.BranchProduct{
		BranchID:      in.BranchID,
		ProductID:     in.ProductID,
		StatusID:      in.StatusID,
		CostPrice:     in.CostPrice,
		RetailPrice:   in.RetailPrice,
		StockQuantity: in.StockQuantity,
		ReorderLevel:  in.ReorderLevel,
		MinStockLevel: in.MinStockLevel,
		Remarks:       in.Remarks,
		CreatedAt:     now,
		CreatedBy:     in.CreatedBy,
		UpdatedAt:     now,
	}
}

// validateAssociation - Yazmadan önce referans ve teklik kontrolleri.
// Sıra: ürün → durum → mevcut ilişki.
func validateAssociation(tx *gorm.DB, branchID, productID, statusID uint) error {
	var n int64

	if err := tx.Model(&models.Branch{}).Where("id = ?", branchID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return apperr.InvalidReference("şube %d bulunamadı", branchID)
	}

	// Ürün sorgusu varsayılan kapsamda: silinmiş ürün yok sayılır
	if err := tx.Model(&models.Product{}).Where("id = ?", productID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return apperr.InvalidReference("ürün %d mevcut değil veya silinmiş", productID)
	}

	if err := tx.Model(&models.Status{}).Where("id = ?", statusID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return apperr.InvalidReference("durum %d tanımlı değil", statusID)
	}

	// Çift kontrolü Unscoped: bileşik anahtar silinmiş satırla da dolu, silinmiş
	// çift için yeni ekleme de reddedilir (geri dönüş yolu Restore)
	if err := tx.Unscoped().Model(&models.BranchProduct{}).
		Where("branch_id = ? AND product_id = ?", branchID, productID).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return apperr.DuplicateAssociation("ürün %d zaten şube %d ile ilişkili", productID, branchID)
	}

	return nil
}

func validateQuantities(cost, retail, stock decimal.Decimal) error {
	if cost.IsNegative() || retail.IsNegative() {
		return apperr.InvalidArgument("fiyat negatif olamaz")
	}
	if stock.IsNegative() {
		return apperr.InvalidArgument("stok miktarı negatif olamaz")
	}
	return nil
}

func toRows(bps []models.BranchProduct) []ListRow {
	rows := make([]ListRow, 0, len(bps))
	for _, bp := range bps {
		rows = append(rows, ListRow{
			BranchID:      bp.BranchID,
			BranchName:    bp.Branch.Name,
			ProductID:     bp.ProductID,
			ProductName:   bp.Product.Name,
			SKU:           bp.Product.SKU,
			CategoryID:    bp.Product.CategoryID,
			CategoryName:  bp.Product.Category.Name,
			SupplierID:    bp.Product.SupplierID,
			SupplierName:  bp.Product.Supplier.Name,
			StatusID:      bp.StatusID,
			StatusName:    bp.Status.Name,
			CostPrice:     bp.CostPrice,
			RetailPrice:   bp.RetailPrice,
			StockQuantity: bp.StockQuantity,
			ReorderLevel:  bp.ReorderLevel,
			MinStockLevel: bp.MinStockLevel,
			Remarks:       bp.Remarks,
		})
	}
	return rows
}
