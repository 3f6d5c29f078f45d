package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const apptCols = `id, patient_id, status, is_referred, is_lab_requested, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.Status, &a.IsReferred, &a.IsLabRequested,
		&a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, status, is_referred, is_lab_requested)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.Status, a.IsReferred, a.IsLabRequested).
		Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.pool.QueryRow(ctx, `SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments SET status=$2, is_referred=$3, is_lab_requested=$4, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.Status, a.IsReferred, a.IsLabRequested)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, patientID *uuid.UUID, limit, offset int) ([]*WithPatient, int, error) {
	where := ""
	var args []interface{}
	idx := 1
	if patientID != nil {
		where = fmt.Sprintf(" WHERE a.patient_id = $%d", idx)
		args = append(args, *patientID)
		idx++
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM appointments a` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT a.id, a.patient_id, a.status, a.is_referred, a.is_lab_requested,
		       a.created_at, a.updated_at,
		       p.full_name, p.age, p.gender
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id%s
		ORDER BY a.created_at DESC LIMIT $%d OFFSET $%d`, where, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*WithPatient
	for rows.Next() {
		var w WithPatient
		if err := rows.Scan(&w.ID, &w.PatientID, &w.Status, &w.IsReferred, &w.IsLabRequested,
			&w.CreatedAt, &w.UpdatedAt,
			&w.PatientName, &w.PatientAge, &w.PatientGender); err != nil {
			return nil, 0, err
		}
		items = append(items, &w)
	}
	return items, total, rows.Err()
}
