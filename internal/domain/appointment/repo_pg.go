package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const apptCols = `id, department, doctor_id, doctor_name, patient_id, patient_name,
	date, time_slot, status, diagnosis, medications, notes, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.Department, &a.DoctorID, &a.DoctorName, &a.PatientID,
		&a.PatientName, &a.Date, &a.TimeSlot, &a.Status, &a.Diagnosis, &a.Medications,
		&a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointments (id, department, doctor_id, doctor_name, patient_id,
			patient_name, date, time_slot, status, diagnosis, medications, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		a.ID, a.Department, a.DoctorID, a.DoctorName, a.PatientID, a.PatientName,
		a.Date, a.TimeSlot, a.Status, a.Diagnosis, a.Medications, a.Notes)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.pool.QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, `patient_id`, patientID, limit, offset)
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, `doctor_id`, doctorID, limit, offset)
}

func (r *repoPG) list(ctx context.Context, ownerCol string, ownerID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE `+ownerCol+` = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+apptCols+` FROM appointments
		WHERE `+ownerCol+` = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		ownerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET status=$2, diagnosis=$3, medications=$4, notes=$5, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.Status, a.Diagnosis, a.Medications, a.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
