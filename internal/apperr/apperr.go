package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Hata taksonomisi: servisler bu sentinel'leri (veya bunları %w ile saran
// hataları) döner, handler katmanı HTTP status + zarfa çevirir.
var (
	ErrNotFound             = errors.New("kayıt bulunamadı")
	ErrDuplicateAssociation = errors.New("şube-ürün ilişkisi zaten mevcut")
	ErrInvalidReference     = errors.New("referans verilen kayıt mevcut değil")
	ErrInvalidArgument      = errors.New("geçersiz istek")
	ErrOperationFailed      = errors.New("işlem tamamlanamadı")
)

func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func DuplicateAssociation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDuplicateAssociation, fmt.Sprintf(format, args...))
}

func InvalidReference(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidReference, fmt.Sprintf(format, args...))
}

func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// OperationFailed - Beklenmeyen depolama/transaction hatası. Asıl sebep log
// için sarılır, istemciye olduğu gibi gösterilmez.
func OperationFailed(cause error) error {
	return fmt.Errorf("%w: %v", ErrOperationFailed, cause)
}

// CandidateError - Toplu işlemde tek bir adayın doğrulama hatası
type CandidateError struct {
	Index     int    `json:"index"`
	BranchID  uint   `json:"branch_id"`
	ProductID uint   `json:"product_id"`
	Message   string `json:"message"`
}

// BatchError - Toplu işlemin toplanmış doğrulama hataları. Tek aday bile
// geçersizse işlemin tamamı geri alınır.
type BatchError struct {
	Candidates []CandidateError
}

func (e *BatchError) Error() string {
	msgs := make([]string, 0, len(e.Candidates))
	for _, c := range e.Candidates {
		msgs = append(msgs, fmt.Sprintf("aday %d (şube %d, ürün %d): %s", c.Index, c.BranchID, c.ProductID, c.Message))
	}
	return "toplu ekleme doğrulama hataları: " + strings.Join(msgs, "; ")
}

func (e *BatchError) Unwrap() error { return ErrInvalidArgument }
