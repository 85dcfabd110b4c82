package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. Pending is the initial state; rejected, completed and
// cancelled are terminal.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Appointment maps to the appointments table. Ownership is keyed by DoctorID
// and PatientID; DoctorName and PatientName are display snapshots taken at
// booking time and never used for authorization.
type Appointment struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Department  string    `db:"department" json:"department"`
	DoctorID    uuid.UUID `db:"doctor_id" json:"doctor_id"`
	DoctorName  string    `db:"doctor_name" json:"doctor_name"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	PatientName string    `db:"patient_name" json:"patient_name"`
	Date        string    `db:"date" json:"date"`
	TimeSlot    string    `db:"time_slot" json:"time_slot"`
	Status      string    `db:"status" json:"status"`
	Diagnosis   *string   `db:"diagnosis" json:"diagnosis,omitempty"`
	Medications *string   `db:"medications" json:"medications,omitempty"`
	Notes       *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
