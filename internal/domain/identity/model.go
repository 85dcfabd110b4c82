package identity

import (
	"time"

	"github.com/google/uuid"
)

// Defaults applied to doctor display attributes at registration. They are
// informational only; no core operation mutates them.
const (
	defaultBio         = "Experienced medical professional dedicated to patient care."
	defaultExperience  = 5
	defaultFees        = 500
	defaultRating      = 4.8
	defaultReviewCount = 120
)

// User maps to the users table. It covers both roles: department and the
// display attributes are only meaningful when Role is "doctor".
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	Department   *string   `db:"department" json:"department,omitempty"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	Address      *string   `db:"address" json:"address,omitempty"`
	Bio          string    `db:"bio" json:"bio"`
	Experience   int       `db:"experience" json:"experience"`
	Fees         int       `db:"fees" json:"fees"`
	Rating       float64   `db:"rating" json:"rating"`
	ReviewCount  int       `db:"review_count" json:"review_count"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Summary is the identity projection returned by auth endpoints: the fields a
// client needs to render the session, never the password hash.
type Summary struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department *string   `json:"department,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	Address    *string   `json:"address,omitempty"`
}

func (u *User) Summary() Summary {
	return Summary{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		Phone:      u.Phone,
		Address:    u.Address,
	}
}
