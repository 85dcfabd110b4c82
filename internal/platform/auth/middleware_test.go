package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type mapResolver struct {
	principals map[uuid.UUID]*Principal
}

func (m *mapResolver) Resolve(_ context.Context, id uuid.UUID) (*Principal, error) {
	p, ok := m.principals[id]
	if !ok {
		return nil, ErrInvalidToken
	}
	return p, nil
}

func authFixture() (*TokenIssuer, *mapResolver, *Principal) {
	issuer := NewTokenIssuer([]byte("test-secret"), time.Hour)
	p := &Principal{ID: uuid.New(), Name: "Asha Rao", Role: RolePatient}
	resolver := &mapResolver{principals: map[uuid.UUID]*Principal{p.ID: p}}
	return issuer, resolver, p
}

func TestMiddleware_ValidToken(t *testing.T) {
	issuer, resolver, p := authFixture()
	token, err := issuer.Issue(p.ID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		got := PrincipalFromContext(c.Request().Context())
		if got == nil || got.ID != p.ID {
			t.Errorf("principal = %+v, want %+v", got, p)
		}
		return c.String(http.StatusOK, "ok")
	}

	if err := Middleware(issuer, resolver)(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMiddleware_MissingHeader(t *testing.T) {
	issuer, resolver, _ := authFixture()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := Middleware(issuer, resolver)(func(c echo.Context) error {
		t.Fatal("handler should not run")
		return nil
	})(c)

	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestMiddleware_MalformedHeader(t *testing.T) {
	issuer, resolver, _ := authFixture()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := Middleware(issuer, resolver)(func(c echo.Context) error { return nil })(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestMiddleware_UnknownSubject(t *testing.T) {
	issuer, resolver, _ := authFixture()
	// Valid signature but the subject was removed from the store.
	token, err := issuer.Issue(uuid.New())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err = Middleware(issuer, resolver)(func(c echo.Context) error { return nil })(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	run := func(p *Principal, roles ...string) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if p != nil {
			req = req.WithContext(WithPrincipal(req.Context(), p))
		}
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		return RequireRole(roles...)(func(c echo.Context) error {
			return c.String(http.StatusOK, "ok")
		})(c)
	}

	if err := run(&Principal{Role: RoleDoctor}, RoleDoctor); err != nil {
		t.Errorf("matching role rejected: %v", err)
	}

	err := run(&Principal{Role: RolePatient}, RoleDoctor)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403 for role mismatch, got %v", err)
	}

	err = run(nil, RoleDoctor)
	httpErr, ok = err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without principal, got %v", err)
	}
}
