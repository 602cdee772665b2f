package apperr

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("Email Input Error", "Email address cannot be empty"), http.StatusBadRequest},
		{SessionExpired(), http.StatusUnauthorized},
		{New(ErrAuth, "Authentication Error", "bad"), http.StatusUnauthorized},
		{Malformed("missing field %q", "id"), http.StatusBadGateway},
		{Network(errors.New("timeout")), http.StatusBadGateway},
		{New(ErrImageUpload, "Image Upload Error", "denied"), http.StatusBadGateway},
		{fiber.NewError(http.StatusNotFound, "nope"), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := Status(tc.err); got != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, got)
		}
	}
}

func TestErrorHandlerRendersDialog(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	app.Get("/expired", func(*fiber.Ctx) error { return SessionExpired() })
	app.Get("/boom", func(*fiber.Ctx) error { return errors.New("boom") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/expired", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	var d Dialog
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.Title != "Session Expired" || d.Message != "Please login again to continue." {
		t.Fatalf("unexpected dialog: %+v", d)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	d = Dialog{}
	_ = json.NewDecoder(resp.Body).Decode(&d)
	if d.Message != MsgInternal {
		t.Fatalf("internal error text leaked: %+v", d)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
