package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/meditrack/api/internal/domain/identity"
	"github.com/meditrack/api/internal/platform/auth"
)

type mockLister struct {
	users []*identity.User
}

func (m *mockLister) ListByRole(_ context.Context, role string, limit, offset int) ([]*identity.User, int, error) {
	var matched []*identity.User
	for _, u := range m.users {
		if u.Role == role {
			matched = append(matched, u)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	total := len(matched)
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func testUsers() []*identity.User {
	dept := "Cardiology"
	return []*identity.User{
		{ID: uuid.New(), Name: "Dr. Mehta", Email: "mehta@example.com", Role: auth.RoleDoctor,
			Department: &dept, Bio: "Cardiologist", Experience: 10, Fees: 800, Rating: 4.9, ReviewCount: 200},
		{ID: uuid.New(), Name: "Dr. Bose", Email: "bose@example.com", Role: auth.RoleDoctor},
		{ID: uuid.New(), Name: "Asha Rao", Email: "asha@example.com", Role: auth.RolePatient,
			PasswordHash: "$2a$10$secret"},
	}
}

func TestListDoctorsExcludesPatients(t *testing.T) {
	svc := NewService(&mockLister{users: testUsers()})

	doctors, total, err := svc.ListDoctors(context.Background(), 20, 0)
	if err != nil {
		t.Fatalf("ListDoctors: %v", err)
	}
	if total != 2 || len(doctors) != 2 {
		t.Fatalf("total = %d, len = %d, want 2 each", total, len(doctors))
	}
	for _, d := range doctors {
		if d.Name == "Asha Rao" {
			t.Error("patient leaked into the doctor roster")
		}
	}
}

func TestListDoctorsProjection(t *testing.T) {
	svc := NewService(&mockLister{users: testUsers()})

	doctors, _, err := svc.ListDoctors(context.Background(), 20, 0)
	if err != nil {
		t.Fatalf("ListDoctors: %v", err)
	}

	var mehta *Doctor
	for i := range doctors {
		if doctors[i].Name == "Dr. Mehta" {
			mehta = &doctors[i]
		}
	}
	if mehta == nil {
		t.Fatal("Dr. Mehta missing from roster")
	}
	if mehta.Department != "Cardiology" || mehta.Fees != 800 {
		t.Errorf("projection = %+v, want department and fees carried over", mehta)
	}
}

func TestListDoctorsHandlerNeverLeaksSecrets(t *testing.T) {
	svc := NewService(&mockLister{users: testUsers()})
	h := NewHandler(svc)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListDoctors(c); err != nil {
		t.Fatalf("ListDoctors: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret") || strings.Contains(rec.Body.String(), "password") {
		t.Error("response leaks credential material")
	}

	var resp struct {
		Data  []Doctor `json:"data"`
		Total int      `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Total)
	}
}
