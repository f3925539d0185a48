package response

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"magaza-backend/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

func newTestApp(h fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/t", h)
	return app
}

func doRequest(t *testing.T, app *fiber.App) (int, Envelope) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/t", nil))
	if err != nil {
		t.Fatalf("istek çalıştırılamadı: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("gövde okunamadı: %v", err)
	}
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("zarf çözümlenemedi: %v (%s)", err, body)
	}
	return resp.StatusCode, env
}

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.NotFound("kayıt yok"), fiber.StatusNotFound},
		{apperr.DuplicateAssociation("zaten var"), fiber.StatusConflict},
		{apperr.InvalidReference("referans yok"), fiber.StatusBadRequest},
		{apperr.InvalidArgument("negatif"), fiber.StatusBadRequest},
		{apperr.OperationFailed(io.ErrUnexpectedEOF), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := StatusOf(tc.err); got != tc.want {
			t.Fatalf("%v için beklenen status %d, gelen %d", tc.err, tc.want, got)
		}
	}
}

func TestErrorHandlerTaxonomy(t *testing.T) {
	app := newTestApp(func(c *fiber.Ctx) error {
		return apperr.NotFound("şube 1 / ürün 2 ilişkisi bulunamadı")
	})
	status, env := doRequest(t, app)
	if status != fiber.StatusNotFound {
		t.Fatalf("beklenen 404, gelen %d", status)
	}
	if env.Success {
		t.Fatal("hata zarfında success=false olmalı")
	}
	if env.Message == "" {
		t.Fatal("hata zarfında mesaj dolu olmalı")
	}
}

func TestErrorHandlerHidesInternalCause(t *testing.T) {
	app := newTestApp(func(c *fiber.Ctx) error {
		return apperr.OperationFailed(io.ErrUnexpectedEOF)
	})
	status, env := doRequest(t, app)
	if status != fiber.StatusInternalServerError {
		t.Fatalf("beklenen 500, gelen %d", status)
	}
	// Asıl sebep istemciye sızmaz
	if env.Message != apperr.ErrOperationFailed.Error() {
		t.Fatalf("iç hata mesajı gizlenmeli, gelen %q", env.Message)
	}
}

func TestErrorHandlerBatchError(t *testing.T) {
	app := newTestApp(func(c *fiber.Ctx) error {
		return &apperr.BatchError{Candidates: []apperr.CandidateError{
			{Index: 1, BranchID: 1, ProductID: 999, Message: "ürün 999 mevcut değil"},
		}}
	})
	status, env := doRequest(t, app)
	if status != fiber.StatusBadRequest {
		t.Fatalf("beklenen 400, gelen %d", status)
	}
	if env.Success {
		t.Fatal("toplu hata zarfında success=false olmalı")
	}
	candidates, ok := env.Data.([]any)
	if !ok || len(candidates) != 1 {
		t.Fatalf("data aday listesi olmalı: %v", env.Data)
	}
}

func TestOKCountEnvelope(t *testing.T) {
	app := newTestApp(func(c *fiber.Ctx) error {
		return c.JSON(OKCount("kayıtlar getirildi", []int{1, 2, 3}, 3))
	})
	status, env := doRequest(t, app)
	if status != fiber.StatusOK {
		t.Fatalf("beklenen 200, gelen %d", status)
	}
	if !env.Success || env.TotalCount == nil || *env.TotalCount != 3 {
		t.Fatalf("zarf alanları yanlış: %+v", env)
	}
}
