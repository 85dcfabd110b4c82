// Package directory exposes the doctor roster as a read-only projection over
// stored identities. It never surfaces credential material.
package directory

import (
	"context"

	"github.com/google/uuid"

	"github.com/meditrack/api/internal/domain/identity"
	"github.com/meditrack/api/internal/platform/auth"
)

// Lister provides role-scoped identity listing. The identity repository
// satisfies it.
type Lister interface {
	ListByRole(ctx context.Context, role string, limit, offset int) ([]*identity.User, int, error)
}

// Doctor is the directory projection of a doctor identity.
type Doctor struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Department  string    `json:"department"`
	Bio         string    `json:"bio"`
	Experience  int       `json:"experience"`
	Fees        int       `json:"fees"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"review_count"`
}

type Service struct {
	users Lister
}

func NewService(users Lister) *Service {
	return &Service{users: users}
}

// ListDoctors returns the doctor roster ordered by name.
func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]Doctor, int, error) {
	users, total, err := s.users.ListByRole(ctx, auth.RoleDoctor, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	doctors := make([]Doctor, 0, len(users))
	for _, u := range users {
		d := Doctor{
			ID:          u.ID,
			Name:        u.Name,
			Email:       u.Email,
			Bio:         u.Bio,
			Experience:  u.Experience,
			Fees:        u.Fees,
			Rating:      u.Rating,
			ReviewCount: u.ReviewCount,
		}
		if u.Department != nil {
			d.Department = *u.Department
		}
		doctors = append(doctors, d)
	}
	return doctors, total, nil
}
