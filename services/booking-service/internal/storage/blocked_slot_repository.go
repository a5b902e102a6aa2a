package storage

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/barberlink-app/barberlink/libs/db"
	"github.com/barberlink-app/barberlink/services/booking-service/internal/model"
)

type BlockedSlotRepository struct {
	pool *db.Pool
}

func NewBlockedSlotRepository(pool *db.Pool) *BlockedSlotRepository {
	return &BlockedSlotRepository{pool: pool}
}

func (r *BlockedSlotRepository) Create(ctx context.Context, slot *model.BlockedSlot) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO blocked_slots
			(professional_id, date, start_time, end_time, reason, recurring, weekdays)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7)
		RETURNING id
	`, slot.ProfessionalID, slot.Date, slot.StartTime, slot.EndTime, slot.Reason,
		slot.Recurring, slot.Weekdays).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *BlockedSlotRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blocked_slots WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *BlockedSlotRepository) List(ctx context.Context) ([]model.BlockedSlot, error) {
	return r.list(ctx, `
		SELECT id, professional_id, COALESCE(date, ''), start_time, end_time,
			COALESCE(reason, ''), recurring, COALESCE(weekdays, '{}'), created_at
		FROM blocked_slots
		ORDER BY created_at DESC
	`)
}

// ListForDay returns one-off blocks on the given date plus every recurring
// block; weekday filtering happens in the slot package, which knows the
// date's weekday.
func (r *BlockedSlotRepository) ListForDay(ctx context.Context, professionalID, date string) ([]model.BlockedSlot, error) {
	return r.list(ctx, `
		SELECT id, professional_id, COALESCE(date, ''), start_time, end_time,
			COALESCE(reason, ''), recurring, COALESCE(weekdays, '{}'), created_at
		FROM blocked_slots
		WHERE professional_id = $1 AND (date = $2 OR recurring)
		ORDER BY start_time ASC
	`, professionalID, date)
}

func (r *BlockedSlotRepository) list(ctx context.Context, query string, args ...any) ([]model.BlockedSlot, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []model.BlockedSlot
	for rows.Next() {
		var slot model.BlockedSlot
		if err := rows.Scan(
			&slot.ID,
			&slot.ProfessionalID,
			&slot.Date,
			&slot.StartTime,
			&slot.EndTime,
			&slot.Reason,
			&slot.Recurring,
			&slot.Weekdays,
			&slot.CreatedAt,
		); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return slots, nil
}
