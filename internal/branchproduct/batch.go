package branchproduct

import (
	"context"
	"errors"
	"fmt"

	"magaza-backend/internal/apperr"
	"magaza-backend/internal/audit"
	"magaza-backend/internal/database"
	"magaza-backend/internal/models"

	"gorm.io/gorm"
)

// CreateBatch - Toplu şube-ürün ekleme, ya hep ya hiç. Önce TÜM adaylar
// doğrulanır (ilk hatada durulmaz, hatalar aday bazında toplanır); tek aday
// bile geçersizse hiçbir kayıt ve hiçbir denetim satırı yazılmadan BatchError
// döner. Tamamı geçerliyse kayıtlar ve Created denetim satırları tek
// transaction'da commit edilir.
func (s *Service) CreateBatch(ctx context.Context, candidates []CreateInput) ([]models.BranchProduct, error) {
	if len(candidates) == 0 {
		return nil, apperr.InvalidArgument("eklenecek kayıt listesi boş")
	}

	var created []models.BranchProduct
	err := database.RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		created = created[:0]

		// 1. faz: sadece SELECT'lerle doğrulama. Insert denemeden toplanır
		// ki Postgres transaction'ı yarıda iptal olmasın.
		var cerrs []apperr.CandidateError
		seen := map[[2]uint]bool{}
		for i, in := range candidates {
			key := [2]uint{in.BranchID, in.ProductID}
			if seen[key] {
				cerrs = append(cerrs, candidateError(i, in, fmt.Sprintf("aynı şube-ürün çifti listede birden fazla: şube %d, ürün %d", in.BranchID, in.ProductID)))
				continue
			}
			seen[key] = true

			if err := validateQuantities(in.CostPrice, in.RetailPrice, in.StockQuantity); err != nil {
				cerrs = append(cerrs, candidateError(i, in, err.Error()))
				continue
			}
			if err := validateAssociation(tx, in.BranchID, in.ProductID, in.StatusID); err != nil {
				if isValidationError(err) {
					cerrs = append(cerrs, candidateError(i, in, err.Error()))
					continue
				}
				return err
			}
		}
		if len(cerrs) > 0 {
			return &apperr.BatchError{Candidates: cerrs}
		}

		// 2. faz: tamamı geçerli, hepsini yaz
		for _, in := range candidates {
			bp := s.buildRecord(in)
			if err := tx.Create(&bp).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					// Doğrulama ile insert arasında başka bir istemci aynı
					// çifti eklemiş; toplu işlemin tamamı geri alınır
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

			created = append(created, bp)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func candidateError(index int, in CreateInput, msg string) apperr.CandidateError {
	return apperr.CandidateError{
		Index:     index,
		BranchID:  in.BranchID,
		ProductID: in.ProductID,
		Message:   msg,
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, apperr.ErrInvalidReference) ||
		errors.Is(err, apperr.ErrDuplicateAssociation) ||
		errors.Is(err, apperr.ErrInvalidArgument)
}
