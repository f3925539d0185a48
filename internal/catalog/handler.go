package catalog

import (
	"fmt"
	"strings"

	"magaza-backend/internal/auth"
	"magaza-backend/internal/models"
	"magaza-backend/internal/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProductRequest struct {
	Name       string `json:"name"`
	SKU        string `json:"sku"`
	CategoryID uint   `json:"category_id"`
	SupplierID uint   `json:"supplier_id"`
	Remarks    string `json:"remarks"`
}

type NameRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type SupplierRequest struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
}

// POST /api/products  (tek veya çoklu ekleme, ya hep ya hiç)
func CreateProductsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body []ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		userName, err := auth.CurrentUserName(c)
		if err != nil {
			return err
		}

		inputs := make([]ProductInput, 0, len(body))
		for _, r := range body {
			inputs = append(inputs, ProductInput{
				Name:       strings.TrimSpace(r.Name),
				SKU:        strings.TrimSpace(r.SKU),
				CategoryID: r.CategoryID,
				SupplierID: r.SupplierID,
				Remarks:    r.Remarks,
				CreatedBy:  userName,
			})
		}

		created, err := svc.CreateProducts(c.UserContext(), inputs)
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(response.OKCount("Ürünler eklendi", created, len(created)))
	}
}

// PUT /api/products/:id
func UpdateProductHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}

		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		userName, err := auth.CurrentUserName(c)
		if err != nil {
			return err
		}

		p, err := svc.UpdateProduct(c.UserContext(), id, UpdateProductInput{
			Name:       strings.TrimSpace(body.Name),
			SKU:        strings.TrimSpace(body.SKU),
			CategoryID: body.CategoryID,
			SupplierID: body.SupplierID,
			Remarks:    body.Remarks,
			UpdatedBy:  userName,
		})
		if err != nil {
			return err
		}

		return c.JSON(response.OK("Ürün güncellendi", p))
	}
}

// GET /api/products
func ListProductsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		products, err := svc.ListProducts(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(response.OKCount("Ürünler getirildi", products, len(products)))
	}
}

// DELETE /api/products/:id
func SoftDeleteProductHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}

		userName, err := auth.CurrentUserName(c)
		if err != nil {
			return err
		}

		if err := svc.SoftDeleteProduct(c.UserContext(), id, userName); err != nil {
			return err
		}
		return c.JSON(response.OK("Ürün pasife alındı", true))
	}
}

// ----------------------------------------
// Referans veri: kategori / tedarikçi / durum
// ----------------------------------------

// GET /api/categories
func ListCategoriesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var categories []models.Category
		if err := db.WithContext(c.UserContext()).Order("name ASC").Find(&categories).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategoriler listelenemedi")
		}
		return c.JSON(response.OKCount("Kategoriler getirildi", categories, len(categories)))
	}
}

// POST /api/categories
func CreateCategoryHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body NameRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Kategori adı boş olamaz")
		}

		category := models.Category{Name: body.Name, Description: body.Description}
		if err := db.WithContext(c.UserContext()).Create(&category).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Kategori oluşturulamadı (ad benzersiz olmalı)")
		}

		return c.Status(fiber.StatusCreated).JSON(response.OK("Kategori oluşturuldu", category))
	}
}

// GET /api/suppliers
func ListSuppliersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var suppliers []models.Supplier
		if err := db.WithContext(c.UserContext()).Order("name ASC").Find(&suppliers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tedarikçiler listelenemedi")
		}
		return c.JSON(response.OKCount("Tedarikçiler getirildi", suppliers, len(suppliers)))
	}
}

// POST /api/suppliers
func CreateSupplierHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Tedarikçi adı boş olamaz")
		}

		supplier := models.Supplier{
			Name:          body.Name,
			ContactPerson: body.ContactPerson,
			Phone:         body.Phone,
			Email:         body.Email,
			Address:       body.Address,
		}
		if err := db.WithContext(c.UserContext()).Create(&supplier).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tedarikçi oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(response.OK("Tedarikçi oluşturuldu", supplier))
	}
}

// GET /api/statuses
func ListStatusesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var statuses []models.Status
		if err := db.WithContext(c.UserContext()).Order("id ASC").Find(&statuses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Durumlar listelenemedi")
		}
		return c.JSON(response.OKCount("Durumlar getirildi", statuses, len(statuses)))
	}
}

// POST /api/statuses
func CreateStatusHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body NameRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Durum adı boş olamaz")
		}

		status := models.Status{Name: body.Name, Description: body.Description}
		if err := db.WithContext(c.UserContext()).Create(&status).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Durum oluşturulamadı (ad benzersiz olmalı)")
		}

		return c.Status(fiber.StatusCreated).JSON(response.OK("Durum oluşturuldu", status))
	}
}

func paramID(c *fiber.Ctx) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Geçersiz ID")
	}
	return id, nil
}
