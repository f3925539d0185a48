package branchproduct

import (
	"context"

	"magaza-backend/internal/apperr"
	"magaza-backend/internal/audit"
	"magaza-backend/internal/database"
	"magaza-backend/internal/models"

	"gorm.io/gorm"
)

// Yaşam döngüsü: Aktif -> (SoftDelete) -> Silinmiş -> (Restore) -> Aktif.
// Geçişler koşullu UPDATE ile yapılır; aynı anahtar üzerindeki eşzamanlı
// işlemlerden kaybeden 0 satır etkiler ve NotFound alır.

// SoftDelete - Kaydı pasife alır: deleted_at/deleted_by damgalanır, kayıt
// varsayılan sorgulardan düşer ama tabloda ve denetim izinde kalır.
// Zaten silinmiş ya da hiç olmayan kayıt için NotFound.
func (s *Service) SoftDelete(ctx context.Context, branchID, productID uint, deletedBy string) error {
	return database.RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		// Varsayılan kapsam deleted_at IS NULL koşulunu ekler: ikinci
		// SoftDelete çağrısı 0 satır etkiler
		res := tx.Model(&models.BranchProduct{}).
			Where("branch_id = ? AND product_id = ?", branchID, productID).
			Updates(map[string]any{
				"deleted_at": s.now(),
				"deleted_by": deletedBy,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("şube %d / ürün %d ilişkisi bulunamadı veya zaten silinmiş", branchID, productID)
		}

		// Değer diff'i gerekmez, sadece silme olayı kaydedilir
		return s.recorder.BranchProduct(tx, branchID, productID, audit.Entry{
			Action:   models.AuditActionSoftDeleted,
			ActionBy: deletedBy,
			Remarks:  "Kayıt pasife alındı",
		})
	})
}

type RestoreInput struct {
	BranchIDs  []uint
	ProductIDs []uint
	RestoredBy string
	Remarks    string
}

// Restore - Silinmiş ilişkileri toplu geri alır. ID listelerinden biri boşsa
// hiçbir okuma yapılmadan InvalidArgument; eşleşen silinmiş kayıt yoksa
// NotFound. Eşleşenlerin tamamı tek transaction'da geri alınır, her biri için
// Restored denetim kaydı yazılır. Kısmi geri alma yoktur.
func (s *Service) Restore(ctx context.Context, in RestoreInput) ([]uint, error) {
	if len(in.BranchIDs) == 0 || len(in.ProductIDs) == 0 {
		return nil, apperr.InvalidArgument("ürün ve şube ID listeleri boş olamaz")
	}
	if in.RestoredBy == "" {
		return nil, apperr.InvalidArgument("işlemi yapan kullanıcı belirtilmeli")
	}

	var restored []uint
	err := database.RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		restored = restored[:0]

		var targets []models.BranchProduct
		err := tx.Unscoped().
			Where("branch_id IN ? AND product_id IN ? AND deleted_at IS NOT NULL", in.BranchIDs, in.ProductIDs).
			Find(&targets).Error
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			return apperr.NotFound("verilen ID'ler için silinmiş kayıt bulunamadı")
		}

		for _, bp := range targets {
			res := tx.Unscoped().Model(&models.BranchProduct{}).
				Where("branch_id = ? AND product_id = ? AND deleted_at IS NOT NULL", bp.BranchID, bp.ProductID).
				Updates(map[string]any{
					"deleted_at": nil,
					"deleted_by": nil,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperr.NotFound("şube %d / ürün %d kaydı bu arada geri alınmış", bp.BranchID, bp.ProductID)
			}

			err := s.recorder.BranchProduct(tx, bp.BranchID, bp.ProductID, audit.Entry{
				Action:   models.AuditActionRestored,
				ActionBy: in.RestoredBy,
				New:      map[string]uint{"branch_id": bp.BranchID, "product_id": bp.ProductID},
				Remarks:  in.Remarks,
			})
			if err != nil {
				return err
			}

			restored = append(restored, bp.ProductID)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return restored, nil
}
