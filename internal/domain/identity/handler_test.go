package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/meditrack/api/internal/platform/auth"
)

func newHandlerFixture(t *testing.T) (*Handler, *Service) {
	t.Helper()
	svc := newTestService(newMockUserRepo())
	return NewHandler(svc), svc
}

func doJSON(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandlerRegister(t *testing.T) {
	h, _ := newHandlerFixture(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodPost, "/api/v1/auth/register",
		`{"name":"Asha Rao","email":"asha@example.com","password":"secret123"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var resp struct {
		Summary
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token in the response")
	}
	if resp.Role != auth.RolePatient {
		t.Errorf("role = %q, want patient", resp.Role)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response leaks password material")
	}
}

func TestHandlerRegisterDuplicateEmail(t *testing.T) {
	h, _ := newHandlerFixture(t)
	e := echo.New()
	body := `{"name":"Asha Rao","email":"asha@example.com","password":"secret123"}`

	c, _ := doJSON(e, http.MethodPost, "/api/v1/auth/register", body)
	if err := h.Register(c); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	c, _ = doJSON(e, http.MethodPost, "/api/v1/auth/register", body)
	err := h.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusConflict {
		t.Fatalf("err = %v, want 409", err)
	}
}

func TestHandlerLoginInvalidCredentials(t *testing.T) {
	h, _ := newHandlerFixture(t)
	e := echo.New()

	c, _ := doJSON(e, http.MethodPost, "/api/v1/auth/login",
		`{"email":"nobody@example.com","password":"whatever"}`)
	err := h.Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401", err)
	}
}

func TestHandlerLogin(t *testing.T) {
	h, svc := newHandlerFixture(t)
	e := echo.New()

	if _, _, err := svc.Register(context.Background(), RegisterInput{
		Name: "Asha Rao", Email: "asha@example.com", Password: "secret123",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	c, rec := doJSON(e, http.MethodPost, "/api/v1/auth/login",
		`{"email":"asha@example.com","password":"secret123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestHandlerUpdateProfile(t *testing.T) {
	h, svc := newHandlerFixture(t)
	e := echo.New()

	u, _, err := svc.Register(context.Background(), RegisterInput{
		Name: "Asha Rao", Email: "asha@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	c, rec := doJSON(e, http.MethodPut, "/api/v1/auth/profile", `{"phone":"555-0101"}`)
	ctx := auth.WithPrincipal(c.Request().Context(), &auth.Principal{ID: u.ID, Role: u.Role})
	c.SetRequest(c.Request().WithContext(ctx))

	if err := h.UpdateProfile(c); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Summary
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Phone == nil || *resp.Phone != "555-0101" {
		t.Errorf("phone = %v, want 555-0101", resp.Phone)
	}
	if resp.Token == "" {
		t.Error("expected a re-issued token")
	}
}

func TestHandlerChangePassword(t *testing.T) {
	h, svc := newHandlerFixture(t)
	e := echo.New()

	u, _, err := svc.Register(context.Background(), RegisterInput{
		Name: "Asha Rao", Email: "asha@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	c, _ := doJSON(e, http.MethodPut, "/api/v1/auth/password",
		`{"current_password":"wrong","new_password":"newpass"}`)
	ctx := auth.WithPrincipal(c.Request().Context(), &auth.Principal{ID: u.ID, Role: u.Role})
	c.SetRequest(c.Request().WithContext(ctx))

	err = h.ChangePassword(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401 for wrong current password", err)
	}
}
