package response

import (
	"errors"
	"log"

	"magaza-backend/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// Envelope - Tüm uç noktaların ortak cevap zarfı
type Envelope struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
	TotalCount *int   `json:"total_count,omitempty"`
}

func OK(message string, data any) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

func OKCount(message string, data any, total int) Envelope {
	return Envelope{Success: true, Message: message, Data: data, TotalCount: &total}
}

// StatusOf - Taksonomi hatasını HTTP status koduna çevirir
func StatusOf(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperr.ErrDuplicateAssociation):
		return fiber.StatusConflict
	case errors.Is(err, apperr.ErrInvalidReference),
		errors.Is(err, apperr.ErrInvalidArgument):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler - Fiber'in merkezi hata işleyicisi: sentinel'leri zarfa çevirir.
// Beklenmeyen hataların sebebi sadece sunucu loguna yazılır.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var be *apperr.BatchError
	if errors.As(err, &be) {
		return c.Status(fiber.StatusBadRequest).JSON(Envelope{
			Success: false,
			Message: "Bazı kayıtlar eklenemedi, işlem geri alındı",
			Data:    be.Candidates,
		})
	}

	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(Envelope{Success: false, Message: e.Message})
	}

	status := StatusOf(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Println("Beklenmeyen hata:", err)
		msg = apperr.ErrOperationFailed.Error()
	}
	return c.Status(status).JSON(Envelope{Success: false, Message: msg})
}
