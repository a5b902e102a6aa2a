package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/barberlink-app/barberlink/libs/db"
	"github.com/barberlink-app/barberlink/services/booking-service/internal/model"
)

const appointmentColumns = `id, client_id, client_name, client_phone, service_id, service_name,
		professional_id, professional_name, date, start_time, end_time, price, status, created_at`

type AppointmentRepository struct {
	pool *db.Pool
}

func NewAppointmentRepository(pool *db.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

func (r *AppointmentRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// Create inserts inside the caller's transaction so the outbox row commits
// with the appointment. The partial unique index on (professional_id, date,
// start_time) WHERE status <> 'CANCELADO' is the double-booking guard;
// callers detect it via IsConflict. The predicate keeps the index in
// agreement with ListOccupied: a canceled appointment frees its slot.
func (r *AppointmentRepository) Create(ctx context.Context, tx pgx.Tx, appt *model.Appointment) (string, error) {
	var id string
	err := tx.QueryRow(ctx, `
		INSERT INTO appointments
			(client_id, client_name, client_phone, service_id, service_name,
			 professional_id, professional_name, date, start_time, end_time, price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`, appt.ClientID, appt.ClientName, appt.ClientPhone, appt.ServiceID, appt.ServiceName,
		appt.ProfessionalID, appt.ProfessionalName, appt.Date, appt.StartTime, appt.EndTime,
		appt.Price, appt.Status).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *AppointmentRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (model.Appointment, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
		FOR UPDATE
	`, id)
	return scanAppointment(row)
}

func (r *AppointmentRepository) Get(ctx context.Context, id string) (model.Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id, status string) error {
	tag, err := tx.Exec(ctx, `
		UPDATE appointments SET status = $2 WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *AppointmentRepository) Reschedule(ctx context.Context, tx pgx.Tx, id, date, start, end, status string) error {
	tag, err := tx.Exec(ctx, `
		UPDATE appointments
		SET date = $2, start_time = $3, end_time = $4, status = $5
		WHERE id = $1
	`, id, date, start, end, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListByDay matches the stored date string exactly. A query for "2024-6-10"
// finds nothing even when 2024-06-10 rows exist; normalization is the
// caller's problem, not the repository's.
func (r *AppointmentRepository) ListByDay(ctx context.Context, date string) ([]model.Appointment, error) {
	return r.list(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE date = $1
		ORDER BY date ASC, start_time ASC
	`, date)
}

func (r *AppointmentRepository) ListByMonth(ctx context.Context, month string) ([]model.Appointment, error) {
	return r.list(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE date LIKE $1 || '%'
		ORDER BY date ASC, start_time ASC
	`, month)
}

func (r *AppointmentRepository) ListAll(ctx context.Context, limit int) ([]model.Appointment, error) {
	if limit <= 0 {
		limit = 200
	}
	return r.list(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		ORDER BY date DESC, start_time DESC
		LIMIT $1
	`, limit)
}

// ListOccupied returns the non-cancelled appointments of one professional on
// one day, for slot availability checks.
func (r *AppointmentRepository) ListOccupied(ctx context.Context, professionalID, date string) ([]model.Appointment, error) {
	return r.list(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE professional_id = $1
			AND date = $2
			AND status <> 'CANCELADO'
		ORDER BY start_time ASC
	`, professionalID, date)
}

func (r *AppointmentRepository) list(ctx context.Context, query string, args ...any) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []model.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, appt)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return appts, nil
}

func scanAppointment(row pgx.Row) (model.Appointment, error) {
	var appt model.Appointment
	err := row.Scan(
		&appt.ID,
		&appt.ClientID,
		&appt.ClientName,
		&appt.ClientPhone,
		&appt.ServiceID,
		&appt.ServiceName,
		&appt.ProfessionalID,
		&appt.ProfessionalName,
		&appt.Date,
		&appt.StartTime,
		&appt.EndTime,
		&appt.Price,
		&appt.Status,
		&appt.CreatedAt,
	)
	if err != nil {
		return model.Appointment{}, err
	}
	return appt, nil
}

func IsConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
