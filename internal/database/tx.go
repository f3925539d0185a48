package database

import (
	"context"
	"errors"

	"magaza-backend/internal/apperr"

	"gorm.io/gorm"
)

// RunInTx - Atomik iş birimi. fn içindeki tüm yazmalar ya birlikte görünür
// olur ya da hiç olmaz; context iptali de geri almayı tetikler. Taksonomi
// hataları olduğu gibi dışarı çıkar, beklenmeyen hatalar OperationFailed
// olarak sarılır (asıl sebep log için korunur).
func RunInTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	err := db.WithContext(ctx).Transaction(fn)
	if err == nil {
		return nil
	}
	if isDomainError(err) {
		return err
	}
	return apperr.OperationFailed(err)
}

func isDomainError(err error) bool {
	return errors.Is(err, apperr.ErrNotFound) ||
		errors.Is(err, apperr.ErrDuplicateAssociation) ||
		errors.Is(err, apperr.ErrInvalidReference) ||
		errors.Is(err, apperr.ErrInvalidArgument)
}
