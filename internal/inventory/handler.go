package inventory

import (
	"fmt"
	"time"

	"magaza-backend/internal/auth"
	"magaza-backend/internal/models"
	"magaza-backend/internal/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateCountRequest struct {
	BranchID       uint            `json:"branch_id"`
	ProductID      uint            `json:"product_id"`
	Date           string          `json:"date"` // "2025-12-09"
	Type           string          `json:"type"` // weekly / monthly
	ActualQuantity decimal.Decimal `json:"actual_quantity"`
}

type CreateNormalizationRequest struct {
	InventoryID       uint            `json:"inventory_id"`
	ActualQuantity    decimal.Decimal `json:"actual_quantity"`
	SystemQuantity    decimal.Decimal `json:"system_quantity"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	NormalizationDate string          `json:"normalization_date"`
	Remarks           string          `json:"remarks"`
}

type UpdateNormalizationRequest struct {
	ActualQuantity    decimal.Decimal `json:"actual_quantity"`
	SystemQuantity    decimal.Decimal `json:"system_quantity"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	NormalizationDate string          `json:"normalization_date"`
	Remarks           string          `json:"remarks"`
}

// POST /api/inventories
func CreateCountHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.BranchID == 0 || body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "branch_id ve product_id zorunlu")
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		userName, err := auth.CurrentUserName(c)
		if err != nil {
			return err
		}

		inv, err := svc.CreateCount(c.UserContext(), CreateCountInput{
			BranchID:       body.BranchID,
			ProductID:      body.ProductID,
			InventoryDate:  d,
			Type:           models.InventoryType(body.Type),
			ActualQuantity: body.ActualQuantity,
			CreatedBy:      userName,
		})
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(response.OK("Sayım kaydı oluşturuldu", inv))
	}
}

// GET /api/inventories/weekly?branch_id=1&year=2025&month=12&week=2&product_id=
func FilterWeeklyHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := queryUint(c, "branch_id")
		if err != nil {
			return err
		}

		var year, month, week int
		if _, err := fmt.Sscan(c.Query("year"), &year); err != nil || year == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "year parametresi geçersiz")
		}
		if _, err := fmt.Sscan(c.Query("month"), &month); err != nil || month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month parametresi geçersiz")
		}
		if _, err := fmt.Sscan(c.Query("week"), &week); err != nil || week < 1 || week > 4 {
			return fiber.NewError(fiber.StatusBadRequest, "week parametresi geçersiz (1-4)")
		}

		f := FilterWeeklyInput{BranchID: branchID, Year: year, Month: month, Week: week}
		if pidStr := c.Query("product_id"); pidStr != "" {
			var pid uint
			if _, err := fmt.Sscan(pidStr, &pid); err == nil && pid > 0 {
				f.ProductID = &pid
			}
		}

		invs, err := svc.FilterWeekly(c.UserContext(), f)
		if err != nil {
			return err
		}

		return c.JSON(response.OKCount("Sayımlar getirildi", invs, len(invs)))
	}
}

// PUT /api/inventories/:id/complete
func CompleteHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}

		inv, err := svc.Complete(c.UserContext(), id)
		if err != nil {
			return err
		}

		return c.JSON(response.OK("Sayım tamamlandı olarak işaretlendi", inv))
	}
}

// POST /api/normalizations
func CreateNormalizationHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateNormalizationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.InventoryID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "inventory_id zorunlu")
		}

		d, err := time.Parse("2006-01-02", body.NormalizationDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		userName, err := auth.CurrentUserName(c)
		if err != nil {
			return err
		}

		norm, err := svc.CreateNormalization(c.UserContext(), CreateNormalizationInput{
			InventoryID:       body.InventoryID,
			ActualQuantity:    body.ActualQuantity,
			SystemQuantity:    body.SystemQuantity,
			CostPrice:         body.CostPrice,
			NormalizationDate: d,
			Remarks:           body.Remarks,
			CreatedBy:         userName,
		})
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(response.OK("Normalizasyon kaydı oluşturuldu", norm))
	}
}

// GET /api/normalizations
func ListNormalizationsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		norms, err := svc.GetNormalizations(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(response.OKCount("Normalizasyon kayıtları getirildi", norms, len(norms)))
	}
}

// GET /api/normalizations/:id
func GetNormalizationHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}

		norm, err := svc.GetNormalization(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(response.OK("Normalizasyon kaydı getirildi", norm))
	}
}

// PUT /api/normalizations/:id
func UpdateNormalizationHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}

		var body UpdateNormalizationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		d, err := time.Parse("2006-01-02", body.NormalizationDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		norm, err := svc.UpdateNormalization(c.UserContext(), id, UpdateNormalizationInput{
			ActualQuantity:    body.ActualQuantity,
			SystemQuantity:    body.SystemQuantity,
			CostPrice:         body.CostPrice,
			NormalizationDate: d,
			Remarks:           body.Remarks,
		})
		if err != nil {
			return err
		}

		return c.JSON(response.OK("Normalizasyon kaydı güncellendi", norm))
	}
}

// DELETE /api/normalizations/:id
func DeleteNormalizationHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}

		if err := svc.DeleteNormalization(c.UserContext(), id); err != nil {
			return err
		}
		return c.JSON(response.OK("Normalizasyon kaydı silindi", true))
	}
}

// GET /api/normalizations/view?branch_id=1&month=12&year=2025&category_id=&supplier_id=&sku=
func ViewNormalizationHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := parseViewFilter(c)
		if err != nil {
			return err
		}

		rows, err := svc.ViewNormalization(c.UserContext(), *f)
		if err != nil {
			return err
		}

		return c.JSON(response.OKCount("Normalizasyon görünümü getirildi", rows, len(rows)))
	}
}

func parseViewFilter(c *fiber.Ctx) (*ViewFilter, error) {
	branchID, err := queryUint(c, "branch_id")
	if err != nil {
		return nil, err
	}

	var month, year int
	if _, err := fmt.Sscan(c.Query("month"), &month); err != nil || month < 1 || month > 12 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "month parametresi geçersiz")
	}
	if _, err := fmt.Sscan(c.Query("year"), &year); err != nil || year == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "year parametresi geçersiz")
	}

	f := &ViewFilter{BranchID: branchID, Month: month, Year: year, SKU: c.Query("sku")}
	if s := c.Query("category_id"); s != "" {
		var id uint
		if _, err := fmt.Sscan(s, &id); err == nil && id > 0 {
			f.CategoryID = &id
		}
	}
	if s := c.Query("supplier_id"); s != "" {
		var id uint
		if _, err := fmt.Sscan(s, &id); err == nil && id > 0 {
			f.SupplierID = &id
		}
	}
	return f, nil
}

func queryUint(c *fiber.Ctx, key string) (uint, error) {
	var v uint
	if _, err := fmt.Sscan(c.Query(key), &v); err != nil || v == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, key+" parametresi zorunlu")
	}
	return v, nil
}

func paramID(c *fiber.Ctx) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Geçersiz ID")
	}
	return id, nil
}
