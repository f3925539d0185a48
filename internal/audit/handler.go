package audit

import (
	"fmt"

	"magaza-backend/internal/models"
	"magaza-backend/internal/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GET /api/audit/branch-products?branch_id=1&product_id=5
// Denetim izi konu kaydın soft delete durumundan bağımsızdır: silinmiş
// ilişkinin izi de burada görünür.
func BranchProductTrailHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := queryUint(c, "branch_id")
		if err != nil {
			return err
		}
		productID, err := queryUint(c, "product_id")
		if err != nil {
			return err
		}

		var trails []models.BranchProductAuditTrail
		err = db.WithContext(c.UserContext()).
			Where("branch_id = ? AND product_id = ?", branchID, productID).
			Order("id ASC").
			Find(&trails).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Denetim kayıtları listelenemedi")
		}

		if len(trails) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Bu şube ve ürün için denetim kaydı bulunamadı")
		}

		return c.JSON(response.OKCount("Denetim kayıtları getirildi", trails, len(trails)))
	}
}

// GET /api/audit/products/:id
func ProductTrailHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var productID uint
		if _, err := fmt.Sscan(c.Params("id"), &productID); err != nil || productID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün ID")
		}

		var trails []models.ProductAuditTrail
		err := db.WithContext(c.UserContext()).
			Where("product_id = ?", productID).
			Order("id ASC").
			Find(&trails).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Denetim kayıtları listelenemedi")
		}

		if len(trails) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Bu ürün için denetim kaydı bulunamadı")
		}

		return c.JSON(response.OKCount("Denetim kayıtları getirildi", trails, len(trails)))
	}
}

func queryUint(c *fiber.Ctx, key string) (uint, error) {
	var v uint
	s := c.Query(key)
	if s == "" {
		return 0, fiber.NewError(fiber.StatusBadRequest, key+" parametresi zorunlu")
	}
	if _, err := fmt.Sscan(s, &v); err != nil || v == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, key+" parametresi geçersiz")
	}
	return v, nil
}
