package labrequest

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

const lrCols = `id, appointment_id, patient_id, nurse_id, doctor_id, test_type, reason,
	status, result, completed_at, created_at, updated_at`

func scanLabRequest(row pgx.Row) (*LabRequest, error) {
	var lr LabRequest
	err := row.Scan(&lr.ID, &lr.AppointmentID, &lr.PatientID, &lr.NurseID, &lr.DoctorID,
		&lr.TestType, &lr.Reason, &lr.Status, &lr.Result, &lr.CompletedAt,
		&lr.CreatedAt, &lr.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &lr, err
}

func (r *repoPG) Create(ctx context.Context, lr *LabRequest) error {
	lr.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO lab_requests (id, appointment_id, patient_id, nurse_id, doctor_id,
			test_type, reason, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		lr.ID, lr.AppointmentID, lr.PatientID, lr.NurseID, lr.DoctorID,
		lr.TestType, lr.Reason, lr.Status).
		Scan(&lr.CreatedAt, &lr.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*LabRequest, error) {
	return scanLabRequest(r.pool.QueryRow(ctx, `SELECT `+lrCols+` FROM lab_requests WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, lr *LabRequest) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE lab_requests SET status=$2, result=$3, completed_at=$4, updated_at=NOW()
		WHERE id = $1`,
		lr.ID, lr.Status, lr.Result, lr.CompletedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, patientID *uuid.UUID, limit, offset int) ([]*WithNames, int, error) {
	where := ""
	var args []interface{}
	idx := 1
	if patientID != nil {
		where = fmt.Sprintf(" WHERE lr.patient_id = $%d", idx)
		args = append(args, *patientID)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM lab_requests lr`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT lr.id, lr.appointment_id, lr.patient_id, lr.nurse_id, lr.doctor_id,
		       lr.test_type, lr.reason, lr.status, lr.result, lr.completed_at,
		       lr.created_at, lr.updated_at,
		       p.full_name,
		       n.first_name || ' ' || n.last_name,
		       d.first_name || ' ' || d.last_name
		FROM lab_requests lr
		JOIN patients p ON p.id = lr.patient_id
		JOIN users n ON n.id = lr.nurse_id
		JOIN users d ON d.id = lr.doctor_id%s
		ORDER BY lr.created_at DESC LIMIT $%d OFFSET $%d`, where, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*WithNames
	for rows.Next() {
		var w WithNames
		if err := rows.Scan(&w.ID, &w.AppointmentID, &w.PatientID, &w.NurseID, &w.DoctorID,
			&w.TestType, &w.Reason, &w.Status, &w.Result, &w.CompletedAt,
			&w.CreatedAt, &w.UpdatedAt,
			&w.PatientName, &w.NurseName, &w.DoctorName); err != nil {
			return nil, 0, err
		}
		items = append(items, &w)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'completed'),
		       COUNT(*) FILTER (WHERE status = 'completed' AND completed_at >= date_trunc('day', NOW()))
		FROM lab_requests`).
		Scan(&s.Total, &s.Pending, &s.Completed, &s.CompletedToday)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
