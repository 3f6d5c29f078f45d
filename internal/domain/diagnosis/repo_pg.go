package diagnosis

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

const mdCols = `id, patient_id, appointment_id, doctor_id, description, notes, prescriptions, created_at`

func scanDescription(row pgx.Row) (*MedicalDescription, error) {
	var md MedicalDescription
	err := row.Scan(&md.ID, &md.PatientID, &md.AppointmentID, &md.DoctorID,
		&md.Description, &md.Notes, &md.Prescriptions, &md.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &md, err
}

func (r *repoPG) Create(ctx context.Context, md *MedicalDescription) error {
	md.ID = uuid.New()
	if md.Prescriptions == nil {
		md.Prescriptions = []Prescription{}
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO medical_descriptions (id, patient_id, appointment_id, doctor_id,
			description, notes, prescriptions)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at`,
		md.ID, md.PatientID, md.AppointmentID, md.DoctorID,
		md.Description, md.Notes, md.Prescriptions).
		Scan(&md.CreatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*MedicalDescription, error) {
	return scanDescription(r.pool.QueryRow(ctx, `SELECT `+mdCols+` FROM medical_descriptions WHERE id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, patientID *uuid.UUID, limit, offset int) ([]*WithNames, int, error) {
	where := ""
	var args []interface{}
	idx := 1
	if patientID != nil {
		where = fmt.Sprintf(" WHERE md.patient_id = $%d", idx)
		args = append(args, *patientID)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM medical_descriptions md`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT md.id, md.patient_id, md.appointment_id, md.doctor_id,
		       md.description, md.notes, md.prescriptions, md.created_at,
		       p.full_name,
		       d.first_name || ' ' || d.last_name
		FROM medical_descriptions md
		JOIN patients p ON p.id = md.patient_id
		JOIN users d ON d.id = md.doctor_id%s
		ORDER BY md.created_at DESC LIMIT $%d OFFSET $%d`, where, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*WithNames
	for rows.Next() {
		var w WithNames
		if err := rows.Scan(&w.ID, &w.PatientID, &w.AppointmentID, &w.DoctorID,
			&w.Description, &w.Notes, &w.Prescriptions, &w.CreatedAt,
			&w.PatientName, &w.DoctorName); err != nil {
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
		       COUNT(*) FILTER (WHERE created_at >= date_trunc('week', NOW()))
		FROM medical_descriptions`).
		Scan(&s.Total, &s.ThisWeek)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
