package main

import (
	"log"
	"strings"

	"magaza-backend/internal/admin"
	"magaza-backend/internal/audit"
	"magaza-backend/internal/auth"
	"magaza-backend/internal/branchproduct"
	"magaza-backend/internal/catalog"
	"magaza-backend/internal/config"
	"magaza-backend/internal/database"
	"magaza-backend/internal/inventory"
	"magaza-backend/internal/models"
	"magaza-backend/internal/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()

	db, err := database.Init(cfg)
	if err != nil {
		log.Fatal(err)
	}

	recorder := audit.NewRecorder()
	bpService := branchproduct.NewService(db, recorder)
	catalogService := catalog.NewService(db, recorder)
	invService := inventory.NewService(db)

	app := fiber.New(fiber.Config{
		ErrorHandler: response.ErrorHandler,
	})

	// CORS origins'i virgülle ayrılmış string'den temizleyerek geçir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-super-admin", auth.RegisterSuperAdminHandler(db, cfg))
	api.Post("/auth/login", auth.LoginHandler(db, cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(db))

	// Super admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleSuperAdmin))

	// Şube yönetimi
	adminRoutes.Post("/branches", admin.CreateBranchHandler(db))
	adminRoutes.Get("/branches", admin.ListBranchesHandler(db))
	adminRoutes.Get("/branches/:id", admin.GetBranchHandler(db))
	adminRoutes.Put("/branches/:id", admin.UpdateBranchHandler(db))
	adminRoutes.Delete("/branches/:id", admin.DeleteBranchHandler(db))
	adminRoutes.Post("/branch-admins", admin.CreateBranchAdminHandler(db))

	// Katalog yönetimi (sadece super admin yazar)
	adminRoutes.Post("/products", catalog.CreateProductsHandler(catalogService))
	adminRoutes.Put("/products/:id", catalog.UpdateProductHandler(catalogService))
	adminRoutes.Delete("/products/:id", catalog.SoftDeleteProductHandler(catalogService))
	adminRoutes.Post("/categories", catalog.CreateCategoryHandler(db))
	adminRoutes.Post("/suppliers", catalog.CreateSupplierHandler(db))
	adminRoutes.Post("/statuses", catalog.CreateStatusHandler(db))

	// Referans veriler (auth gerektiren ortak okuma)
	protected.Get("/products", catalog.ListProductsHandler(catalogService))
	protected.Get("/categories", catalog.ListCategoriesHandler(db))
	protected.Get("/suppliers", catalog.ListSuppliersHandler(db))
	protected.Get("/statuses", catalog.ListStatusesHandler(db))

	// Şube-ürün stok kayıtları
	protected.Post("/branch-products", branchproduct.CreateHandler(bpService))
	protected.Post("/branch-products/batch", branchproduct.CreateBatchHandler(bpService))
	protected.Get("/branch-products", branchproduct.ListByBranchHandler(bpService))
	protected.Get("/branch-products/filter", branchproduct.FilterHandler(bpService))
	protected.Get("/branch-products/deleted", branchproduct.ListDeletedHandler(bpService))
	protected.Post("/branch-products/restore", branchproduct.RestoreHandler(bpService))
	protected.Put("/branch-products/:branchID/:productID", branchproduct.UpdateHandler(bpService))
	protected.Delete("/branch-products/:branchID/:productID", branchproduct.SoftDeleteHandler(bpService))

	// Denetim izleri
	protected.Get("/audit/branch-products", audit.BranchProductTrailHandler(db))
	protected.Get("/audit/products/:id", audit.ProductTrailHandler(db))

	// Sayım & normalizasyon
	protected.Post("/inventories", inventory.CreateCountHandler(invService))
	protected.Get("/inventories/weekly", inventory.FilterWeeklyHandler(invService))
	protected.Put("/inventories/:id/complete", inventory.CompleteHandler(invService))
	protected.Post("/normalizations", inventory.CreateNormalizationHandler(invService))
	protected.Get("/normalizations", inventory.ListNormalizationsHandler(invService))
	protected.Get("/normalizations/view", inventory.ViewNormalizationHandler(invService))
	protected.Get("/normalizations/export", inventory.ExportNormalizationHandler(invService))
	protected.Get("/normalizations/:id", inventory.GetNormalizationHandler(invService))
	protected.Put("/normalizations/:id", inventory.UpdateNormalizationHandler(invService))
	protected.Delete("/normalizations/:id", inventory.DeleteNormalizationHandler(invService))

	log.Println("Sunucu dinliyor:", cfg.HTTPPort)
	log.Fatal(app.Listen(":" + cfg.HTTPPort))
}
