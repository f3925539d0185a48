package admin

import (
	"errors"
	"fmt"
	"strings"

	"magaza-backend/internal/models"
	"magaza-backend/internal/response"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type BranchRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type BranchAdminRequest struct {
	BranchID uint   `json:"branch_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/admin/branches
func CreateBranchHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body BranchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Şube adı boş olamaz")
		}

		branch := models.Branch{Name: body.Name, Address: body.Address, Phone: body.Phone}
		if err := db.WithContext(c.UserContext()).Create(&branch).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "Bu isimde bir şube zaten var")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Şube oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(response.OK("Şube oluşturuldu", branch))
	}
}

// GET /api/admin/branches
func ListBranchesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var branches []models.Branch
		if err := db.WithContext(c.UserContext()).Order("id ASC").Find(&branches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şubeler listelenemedi")
		}
		return c.JSON(response.OKCount("Şubeler getirildi", branches, len(branches)))
	}
}

// GET /api/admin/branches/:id
func GetBranchHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz şube ID")
		}

		var branch models.Branch
		if err := db.WithContext(c.UserContext()).Preload("Users").First(&branch, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Şube bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Şube okunamadı")
		}
		return c.JSON(response.OK("Şube getirildi", branch))
	}
}

// DELETE /api/admin/branches/:id
// Şubeye bağlı kullanıcı veya stok kaydı varsa silinemez
func DeleteBranchHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz şube ID")
		}

		var n int64
		if err := db.WithContext(c.UserContext()).Model(&models.User{}).Where("branch_id = ?", id).Count(&n).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şube kontrol edilemedi")
		}
		if n > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Şubeye bağlı kullanıcılar var, önce onlar taşınmalı")
		}
		if err := db.WithContext(c.UserContext()).Unscoped().Model(&models.BranchProduct{}).Where("branch_id = ?", id).Count(&n).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şube kontrol edilemedi")
		}
		if n > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Şubeye bağlı stok kayıtları var, şube silinemez")
		}

		res := db.WithContext(c.UserContext()).Delete(&models.Branch{}, "id = ?", id)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şube silinemedi")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Şube bulunamadı")
		}
		return c.JSON(response.OK("Şube silindi", true))
	}
}

// PUT /api/admin/branches/:id
func UpdateBranchHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz şube ID")
		}

		var body BranchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Şube adı boş olamaz")
		}

		res := db.WithContext(c.UserContext()).Model(&models.Branch{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"name":    body.Name,
				"address": body.Address,
				"phone":   body.Phone,
			})
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "Bu isimde bir şube zaten var")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Şube güncellenemedi")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Şube bulunamadı")
		}

		var branch models.Branch
		if err := db.WithContext(c.UserContext()).First(&branch, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şube okunamadı")
		}
		return c.JSON(response.OK("Şube güncellendi", branch))
	}
}

// POST /api/admin/branch-admins
// Şubeye bağlı branch_admin kullanıcısı açar
func CreateBranchAdminHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body BranchAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.BranchID == 0 || body.Name == "" || body.Email == "" || len(body.Password) < 6 {
			return fiber.NewError(fiber.StatusBadRequest, "branch_id, name, email zorunlu; şifre en az 6 karakter olmalı")
		}

		var n int64
		if err := db.WithContext(c.UserContext()).Model(&models.Branch{}).Where("id = ?", body.BranchID).Count(&n).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şube kontrol edilemedi")
		}
		if n == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Şube bulunamadı")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre işlenemedi")
		}

		user := models.User{
			BranchID:     &body.BranchID,
			Name:         body.Name,
			Email:        strings.ToLower(strings.TrimSpace(body.Email)),
			PasswordHash: string(hash),
			Role:         models.RoleBranchAdmin,
		}
		if err := db.WithContext(c.UserContext()).Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "Bu e-posta ile kayıtlı kullanıcı var")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı oluşturulamadı")
		}

		user.PasswordHash = "" // Yanıta hash sızmaz
		return c.Status(fiber.StatusCreated).JSON(response.OK("Şube yöneticisi oluşturuldu", user))
	}
}
