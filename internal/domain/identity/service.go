package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/meditrack/api/internal/platform/auth"
)

type Service struct {
	users  UserRepository
	tokens *auth.TokenIssuer
}

func NewService(users UserRepository, tokens *auth.TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens}
}

// RegisterInput carries the fields accepted at registration. Role defaults to
// patient when empty; Department is kept only for doctors.
type RegisterInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

// ProfilePatch updates profile fields. A nil field leaves the stored value
// untouched.
type ProfilePatch struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// Register creates a new identity with an irreversibly hashed password and
// returns it together with a fresh token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, string, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, "", ErrValidation
	}

	role := in.Role
	if role == "" {
		role = auth.RolePatient
	}
	if role != auth.RolePatient && role != auth.RoleDoctor {
		return nil, "", ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		Bio:          defaultBio,
		Experience:   defaultExperience,
		Fees:         defaultFees,
		Rating:       defaultRating,
		ReviewCount:  defaultReviewCount,
	}
	if role == auth.RoleDoctor && in.Department != "" {
		dept := in.Department
		u.Department = &dept
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login verifies the credentials and returns the identity with a fresh token.
// The failure is uniform: an unknown email and a wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// UpdateProfile applies the patch to the caller's own identity and returns the
// updated identity with a re-issued token.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (*User, string, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, "", ErrValidation
		}
		u.Name = *patch.Name
	}
	if patch.Phone != nil {
		u.Phone = patch.Phone
	}
	if patch.Address != nil {
		u.Address = patch.Address
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// ChangePassword replaces the caller's password after verifying the current
// one. The failure does not disclose whether the identity exists.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, current, newPassword string) error {
	if newPassword == "" {
		return ErrValidation
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, id, string(hash))
}

// Resolve implements auth.Resolver: it maps a token subject back to the live
// identity record, so every request sees current role and name.
func (s *Service) Resolve(ctx context.Context, id uuid.UUID) (*auth.Principal, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := &auth.Principal{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
	if u.Department != nil {
		p.Department = *u.Department
	}
	return p, nil
}

// GetDoctor returns the identity with the given id if, and only if, it is a
// doctor. Used when booking to resolve the stable doctor reference.
func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role != auth.RoleDoctor {
		return nil, ErrNotFound
	}
	return u, nil
}
