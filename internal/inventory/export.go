package inventory

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/normalizations/export?branch_id=1&month=12&year=2025
// Normalizasyon görünümünü XLSX olarak indirir
func ExportNormalizationHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := parseViewFilter(c)
		if err != nil {
			return err
		}

		rows, err := svc.ViewNormalization(c.UserContext(), *f)
		if err != nil {
			return err
		}

		file := excelize.NewFile()
		defer file.Close()

		const sheet = "Normalizasyon"
		file.SetSheetName("Sheet1", sheet)

		headers := []string{
			"Şube", "Ürün", "Ürün Adı", "SKU", "Kategori", "Tedarikçi",
			"Tarih", "Sayılan", "Sistem", "Fark", "Fark Tutarı", "Maliyet", "Not", "Kaydeden",
		}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			file.SetCellValue(sheet, cell, h)
		}

		for r, row := range rows {
			values := []any{
				row.BranchID,
				row.ProductID,
				row.ProductName,
				row.SKU,
				row.CategoryName,
				row.SupplierName,
				row.NormalizationDate.Format("2006-01-02"),
				// Decimal değerler string yazılır, float'a çevrilip
				// yuvarlama kaybı yaşanmaz
				row.ActualQuantity.String(),
				row.SystemQuantity.String(),
				row.AdjustedQuantity.String(),
				row.DiscrepancyValue.String(),
				row.CostPrice.String(),
				row.Remarks,
				row.CreatedBy,
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
				file.SetCellValue(sheet, cell, v)
			}
		}

		buf, err := file.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
		}

		fileName := fmt.Sprintf("normalizasyon_%d_%d_%d.xlsx", f.BranchID, f.Year, f.Month)
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
		return c.Send(buf.Bytes())
	}
}
