package branchproduct

import (
	"fmt"

	"magaza-backend/internal/auth"
	"magaza-backend/internal/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateBranchProductRequest struct {
	BranchID      uint            `json:"branch_id"`
	ProductID     uint            `json:"product_id"`
	StatusID      uint            `json:"status_id"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	RetailPrice   decimal.Decimal `json:"retail_price"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	ReorderLevel  int             `json:"reorder_level"`
	MinStockLevel int             `json:"min_stock_level"`
	Remarks       string          `json:"remarks"`
}

type UpdateBranchProductRequest struct {
	StatusID      uint            `json:"status_id"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	RetailPrice   decimal.Decimal `json:"retail_price"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	ReorderLevel  int             `json:"reorder_level"`
	MinStockLevel int             `json:"min_stock_level"`
	Remarks       string          `json:"remarks"`
}

type RestoreRequest struct {
	BranchIDs  []uint `json:"branch_ids"`
	ProductIDs []uint `json:"product_ids"`
	Remarks    string `json:"remarks"`
}

// POST /api/branch-products
func CreateHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBranchProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.BranchID == 0 || body.ProductID == 0 || body.StatusID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "branch_id, product_id ve status_id zorunlu")
		}

		userName, err := auth.CurrentUserName(c)
		if err != nil {
			return err
		}

		bp, err := svc.Create(c.UserContext(), CreateInput{
			BranchID:      body.BranchID,
			ProductID:     body.ProductID,
			StatusID:      body.StatusID,
			CostPrice:     body.CostPrice,
			RetailPrice:   body.RetailPrice,
			StockQuantity: body.StockQuantity,
			ReorderLevel:  body.ReorderLevel,
			MinStockLevel: body.MinStockLevel,
			Remarks:       body.Remarks,
			CreatedBy:     userName,
		})
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(response.OK("Şube-ürün ilişkisi eklendi", bp))
	}
}

// POST /api/branch-products/batch
func CreateBatchHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body []CreateBranchProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		userName, err := auth.CurrentUserName(c)
		if err != nil {
			return err
		}

		candidates := make([]CreateInput, 0, len(body))
		for _, r := range body {
			candidates = append(candidates, CreateInput{
				BranchID:      r.BranchID,
				ProductID:     r.ProductID,
				StatusID:      r.StatusID,
				CostPrice:     r.CostPrice,
				RetailPrice:   r.RetailPrice,
				StockQuantity: r.StockQuantity,
				ReorderLevel:  r.ReorderLevel,
				MinStockLevel: r.MinStockLevel,
				Remarks:       r.Remarks,
				CreatedBy:     userName,
			})
		}

		created, err := svc.CreateBatch(c.UserContext(), candidates)
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(response.OKCount("Tüm kayıtlar eklendi", created, len(created)))
	}
}

// PUT /api/branch-products/:branchID/:productID
func UpdateHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, productID, err := paramKey(c)
		if err != nil {
			return err
		}

		var body UpdateBranchProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.StatusID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "status_id zorunlu")
		}

		userName, err := auth.CurrentUserName(c)
		if err != nil {
			return err
		}

		bp, err := svc.Update(c.UserContext(), branchID, productID, UpdateInput{
			StatusID:      body.StatusID,
			CostPrice:     body.CostPrice,
			RetailPrice:   body.RetailPrice,
			StockQuantity: body.StockQuantity,
			ReorderLevel:  body.ReorderLevel,
			MinStockLevel: body.MinStockLevel,
			Remarks:       body.Remarks,
			UpdatedBy:     userName,
		})
		if err != nil {
			return err
		}

		return c.JSON(response.OK("Şube-ürün kaydı güncellendi", bp))
	}
}

// GET /api/branch-products?branch_id=1
func ListByBranchHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var branchID uint
		if _, err := fmt.Sscan(c.Query("branch_id"), &branchID); err != nil || branchID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "branch_id parametresi zorunlu")
		}

		rows, err := svc.ListByBranch(c.UserContext(), branchID)
		if err != nil {
			return err
		}

		return c.JSON(response.OKCount("Şube ürünleri getirildi", rows, len(rows)))
	}
}

// GET /api/branch-products/filter?branch_id=1&category=&sku=&name=
func FilterHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var branchID uint
		if _, err := fmt.Sscan(c.Query("branch_id"), &branchID); err != nil || branchID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "branch_id parametresi zorunlu")
		}

		rows, err := svc.Filter(c.UserContext(), FilterInput{
			BranchID:     branchID,
			CategoryName: c.Query("category"),
			SKU:          c.Query("sku"),
			ProductName:  c.Query("name"),
		})
		if err != nil {
			return err
		}

		return c.JSON(response.OKCount("Filtrelenmiş ürünler getirildi", rows, len(rows)))
	}
}

// GET /api/branch-products/deleted
func ListDeletedHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bps, err := svc.ListDeleted(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(response.OKCount("Silinmiş kayıtlar getirildi", bps, len(bps)))
	}
}

// DELETE /api/branch-products/:branchID/:productID
func SoftDeleteHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, productID, err := paramKey(c)
		if err != nil {
			return err
		}

		userName, err := auth.CurrentUserName(c)
		if err != nil {
			return err
		}

		if err := svc.SoftDelete(c.UserContext(), branchID, productID, userName); err != nil {
			return err
		}

		return c.JSON(response.OK("Şube-ürün kaydı pasife alındı", true))
	}
}

// POST /api/branch-products/restore
func RestoreHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RestoreRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		userName, err := auth.CurrentUserName(c)
		if err != nil {
			return err
		}

		restored, err := svc.Restore(c.UserContext(), RestoreInput{
			BranchIDs:  body.BranchIDs,
			ProductIDs: body.ProductIDs,
			RestoredBy: userName,
			Remarks:    body.Remarks,
		})
		if err != nil {
			return err
		}

		msg := fmt.Sprintf("%d kayıt geri alındı", len(restored))
		return c.JSON(response.OKCount(msg, restored, len(restored)))
	}
}

func paramKey(c *fiber.Ctx) (uint, uint, error) {
	var branchID, productID uint
	if _, err := fmt.Sscan(c.Params("branchID"), &branchID); err != nil || branchID == 0 {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "Geçersiz şube ID")
	}
	if _, err := fmt.Sscan(c.Params("productID"), &productID); err != nil || productID == 0 {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün ID")
	}
	return branchID, productID, nil
}
