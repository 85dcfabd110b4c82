package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/meditrack/api/internal/domain/identity"
	"github.com/meditrack/api/internal/platform/auth"
)

// DoctorLookup resolves the stable doctor reference at booking time. The
// identity service satisfies it.
type DoctorLookup interface {
	GetDoctor(ctx context.Context, id uuid.UUID) (*identity.User, error)
}

type Service struct {
	repo    Repository
	doctors DoctorLookup
}

func NewService(repo Repository, doctors DoctorLookup) *Service {
	return &Service{repo: repo, doctors: doctors}
}

// BookInput carries the fields a patient supplies when booking. The patient
// snapshot is always taken from the authenticated caller, never from input.
type BookInput struct {
	Department string    `json:"department"`
	DoctorID   uuid.UUID `json:"doctor_id"`
	Date       string    `json:"date"`
	TimeSlot   string    `json:"time_slot"`
}

// ClinicalPatch updates clinical free-text fields. A nil field leaves the
// stored value untouched; a non-nil empty string clears it.
type ClinicalPatch struct {
	Diagnosis   *string `json:"diagnosis"`
	Medications *string `json:"medications"`
	Notes       *string `json:"notes"`
}

// Book creates a pending appointment owned by the calling patient. The doctor
// reference is resolved and its display name snapshotted.
func (s *Service) Book(ctx context.Context, caller *auth.Principal, in BookInput) (*Appointment, error) {
	if caller.Role != auth.RolePatient {
		return nil, ErrForbidden
	}
	if in.Department == "" || in.DoctorID == uuid.Nil || in.Date == "" || in.TimeSlot == "" {
		return nil, ErrValidation
	}

	doctor, err := s.doctors.GetDoctor(ctx, in.DoctorID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	a := &Appointment{
		Department:  in.Department,
		DoctorID:    doctor.ID,
		DoctorName:  doctor.Name,
		PatientID:   caller.ID,
		PatientName: caller.Name,
		Date:        in.Date,
		TimeSlot:    in.TimeSlot,
		Status:      StatusPending,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ListFor returns the caller's appointments: a patient sees the appointments
// they booked, a doctor sees the appointments booked with them.
func (s *Service) ListFor(ctx context.Context, caller *auth.Principal, limit, offset int) ([]*Appointment, int, error) {
	switch caller.Role {
	case auth.RolePatient:
		return s.repo.ListByPatient(ctx, caller.ID, limit, offset)
	case auth.RoleDoctor:
		return s.repo.ListByDoctor(ctx, caller.ID, limit, offset)
	}
	return nil, 0, ErrForbidden
}

// SetStatus applies a doctor-driven status change. Only the owning doctor may
// call it, and only transitions defined by the lifecycle succeed.
func (s *Service) SetStatus(ctx context.Context, caller *auth.Principal, id uuid.UUID, newStatus string) (*Appointment, error) {
	if newStatus != StatusApproved && newStatus != StatusRejected && newStatus != StatusCompleted {
		return nil, ErrValidation
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.Role != auth.RoleDoctor || a.DoctorID != caller.ID {
		return nil, ErrForbidden
	}
	if !canTransition(a.Status, newStatus) {
		return nil, ErrInvalidTransition
	}

	a.Status = newStatus
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Cancel moves a pending appointment to cancelled. Only the owning patient may
// call it; cancelled appointments report a distinct error on repeat attempts.
func (s *Service) Cancel(ctx context.Context, caller *auth.Principal, id uuid.UUID) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.Role != auth.RolePatient || a.PatientID != caller.ID {
		return nil, ErrForbidden
	}
	if a.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if a.Status != StatusPending {
		return nil, ErrInvalidTransition
	}

	a.Status = StatusCancelled
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// SetClinical applies a partial update to the clinical fields. Only the owning
// doctor may call it, and not once the appointment is completed.
func (s *Service) SetClinical(ctx context.Context, caller *auth.Principal, id uuid.UUID, patch ClinicalPatch) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.Role != auth.RoleDoctor || a.DoctorID != caller.ID {
		return nil, ErrForbidden
	}
	if a.Status == StatusCompleted {
		return nil, ErrInvalidTransition
	}

	if patch.Diagnosis != nil {
		a.Diagnosis = patch.Diagnosis
	}
	if patch.Medications != nil {
		a.Medications = patch.Medications
	}
	if patch.Notes != nil {
		a.Notes = patch.Notes
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}
