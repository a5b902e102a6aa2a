package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/barberlink-app/barberlink/libs/db"
	"github.com/barberlink-app/barberlink/services/campaign-service/internal/model"
)

type Repository struct {
	pool *db.Pool
}

func NewRepository(pool *db.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func (r *Repository) CreateCampaign(ctx context.Context, c *model.Campaign) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO campaigns (name, threshold_days, template, discount, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, c.Name, c.ThresholdDays, c.Template, c.Discount, c.Active).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repository) UpdateCampaign(ctx context.Context, c *model.Campaign) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE campaigns
		SET name = $2, threshold_days = $3, template = $4, discount = $5, active = $6
		WHERE id = $1
	`, c.ID, c.Name, c.ThresholdDays, c.Template, c.Discount, c.Active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *Repository) DeleteCampaign(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *Repository) GetCampaign(ctx context.Context, id string) (model.Campaign, error) {
	var c model.Campaign
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, threshold_days, template, COALESCE(discount, ''), active, created_at
		FROM campaigns
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.ThresholdDays, &c.Template, &c.Discount, &c.Active, &c.CreatedAt)
	if err != nil {
		return model.Campaign{}, err
	}
	return c, nil
}

func (r *Repository) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, threshold_days, template, COALESCE(discount, ''), active, created_at
		FROM campaigns
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []model.Campaign
	for rows.Next() {
		var c model.Campaign
		if err := rows.Scan(&c.ID, &c.Name, &c.ThresholdDays, &c.Template, &c.Discount, &c.Active, &c.CreatedAt); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return campaigns, nil
}

// UpsertClient lands the auth registration event in the projection. The
// event id dedupe upstream makes the conflict path a pure safety net.
func (r *Repository) UpsertClient(ctx context.Context, tx pgx.Tx, c model.Client) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO clients (id, name, phone, email, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()))
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email
	`, c.ID, c.Name, c.Phone, c.Email, nullableTime(c.CreatedAt))
	return err
}

// TouchLastPaid moves the activity marker, creating the projection row on
// the fly for clients that predate the event stream.
func (r *Repository) TouchLastPaid(ctx context.Context, tx pgx.Tx, clientID, name, phone string, paidAt time.Time) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO clients (id, name, phone, last_paid_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			last_paid_at = GREATEST(COALESCE(clients.last_paid_at, 'epoch'::timestamptz), EXCLUDED.last_paid_at)
	`, clientID, name, phone, paidAt)
	return err
}

func (r *Repository) ListClients(ctx context.Context) ([]model.Client, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, COALESCE(phone, ''), COALESCE(email, ''),
			COALESCE(last_paid_at, 'epoch'::timestamptz), created_at
		FROM clients
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []model.Client
	for rows.Next() {
		var c model.Client
		var lastPaid time.Time
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &lastPaid, &c.CreatedAt); err != nil {
			return nil, err
		}
		if lastPaid.Year() > 1970 {
			c.LastPaidAt = lastPaid
		}
		clients = append(clients, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return clients, nil
}

func (r *Repository) InsertNotification(ctx context.Context, n *model.Notification) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (kind, title, body)
		VALUES ($1, $2, $3)
		RETURNING id
	`, n.Kind, n.Title, n.Body).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListNotifications returns the feed newest first; limit 1 is the bell's
// "latest" view.
func (r *Repository) ListNotifications(ctx context.Context, limit int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, kind, title, body, created_at
		FROM notifications
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.Kind, &n.Title, &n.Body, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return items, nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
