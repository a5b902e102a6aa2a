package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/barberlink-app/barberlink/libs/db"
	"github.com/barberlink-app/barberlink/services/billing-service/internal/model"
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

func (r *Repository) CreatePlan(ctx context.Context, p *model.Plan) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO plans (name, price, usage_limit, duration_days, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, p.Name, p.Price, p.UsageLimit, p.DurationDays, p.ImageURL).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repository) UpdatePlan(ctx context.Context, p *model.Plan) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE plans
		SET name = $2, price = $3, usage_limit = $4, duration_days = $5, image_url = $6
		WHERE id = $1
	`, p.ID, p.Name, p.Price, p.UsageLimit, p.DurationDays, p.ImageURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *Repository) DeletePlan(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *Repository) GetPlan(ctx context.Context, id string) (model.Plan, error) {
	var p model.Plan
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, price, usage_limit, duration_days, COALESCE(image_url, ''), created_at
		FROM plans
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Price, &p.UsageLimit, &p.DurationDays, &p.ImageURL, &p.CreatedAt)
	if err != nil {
		return model.Plan{}, err
	}
	return p, nil
}

func (r *Repository) ListPlans(ctx context.Context) ([]model.Plan, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, price, usage_limit, duration_days, COALESCE(image_url, ''), created_at
		FROM plans
		ORDER BY price ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []model.Plan
	for rows.Next() {
		var p model.Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.UsageLimit, &p.DurationDays, &p.ImageURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return plans, nil
}

const subscriptionColumns = `id, client_id, client_name, plan_id, plan_name, price, usage_limit,
		start_date, end_date, canceled, usage_count, created_at`

func (r *Repository) CreateSubscription(ctx context.Context, tx pgx.Tx, sub *model.Subscription) (string, error) {
	var id string
	err := tx.QueryRow(ctx, `
		INSERT INTO subscriptions
			(client_id, client_name, plan_id, plan_name, price, usage_limit, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, sub.ClientID, sub.ClientName, sub.PlanID, sub.PlanName, sub.Price, sub.UsageLimit,
		sub.StartDate, sub.EndDate).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repository) GetSubscriptionForUpdate(ctx context.Context, tx pgx.Tx, id string) (model.Subscription, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE id = $1
		FOR UPDATE
	`, id)
	return scanSubscription(row)
}

// LatestByClientForUpdate locks the client's newest subscription; paid
// appointment events increment its usage counter.
func (r *Repository) LatestByClientForUpdate(ctx context.Context, tx pgx.Tx, clientID string) (model.Subscription, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE client_id = $1 AND NOT canceled
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE
	`, clientID)
	return scanSubscription(row)
}

func (r *Repository) GetSubscription(ctx context.Context, id string) (model.Subscription, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE id = $1
	`, id)
	return scanSubscription(row)
}

func (r *Repository) ListSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []model.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return subs, nil
}

func (r *Repository) MarkCanceled(ctx context.Context, tx pgx.Tx, id string) error {
	tag, err := tx.Exec(ctx, `UPDATE subscriptions SET canceled = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Renew pushes the end date forward and resets the monthly usage counter.
func (r *Repository) Renew(ctx context.Context, tx pgx.Tx, id, newEndDate string) error {
	tag, err := tx.Exec(ctx, `
		UPDATE subscriptions
		SET end_date = $2, canceled = FALSE, usage_count = 0
		WHERE id = $1
	`, id, newEndDate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *Repository) IncrementUsage(ctx context.Context, tx pgx.Tx, id string) error {
	_, err := tx.Exec(ctx, `UPDATE subscriptions SET usage_count = usage_count + 1 WHERE id = $1`, id)
	return err
}

func (r *Repository) InsertPayment(ctx context.Context, tx pgx.Tx, p *model.PaymentRecord) (string, error) {
	var id string
	err := tx.QueryRow(ctx, `
		INSERT INTO subscription_payments (subscription_id, amount, date, note)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, p.SubscriptionID, p.Amount, p.Date, p.Note).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repository) ListPayments(ctx context.Context, subscriptionID string) ([]model.PaymentRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, subscription_id, amount, date, COALESCE(note, ''), created_at
		FROM subscription_payments
		WHERE subscription_id = $1
		ORDER BY created_at DESC
	`, subscriptionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []model.PaymentRecord
	for rows.Next() {
		var p model.PaymentRecord
		if err := rows.Scan(&p.ID, &p.SubscriptionID, &p.Amount, &p.Date, &p.Note, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return payments, nil
}

func scanSubscription(row pgx.Row) (model.Subscription, error) {
	var sub model.Subscription
	err := row.Scan(
		&sub.ID,
		&sub.ClientID,
		&sub.ClientName,
		&sub.PlanID,
		&sub.PlanName,
		&sub.Price,
		&sub.UsageLimit,
		&sub.StartDate,
		&sub.EndDate,
		&sub.Canceled,
		&sub.UsageCount,
		&sub.CreatedAt,
	)
	if err != nil {
		return model.Subscription{}, err
	}
	return sub, nil
}

func (r *Repository) CreateEntry(ctx context.Context, tx pgx.Tx, e *model.FinancialEntry) (string, error) {
	var id string
	err := tx.QueryRow(ctx, `
		INSERT INTO financial_entries (kind, description, amount, date, appointment_id)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING id
	`, e.Kind, e.Description, e.Amount, e.Date, e.AppointmentID).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repository) UpdateEntry(ctx context.Context, e *model.FinancialEntry) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE financial_entries
		SET kind = $2, description = $3, amount = $4, date = $5
		WHERE id = $1
	`, e.ID, e.Kind, e.Description, e.Amount, e.Date)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *Repository) DeleteEntry(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM financial_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *Repository) GetEntry(ctx context.Context, id string) (model.FinancialEntry, error) {
	var e model.FinancialEntry
	err := r.pool.QueryRow(ctx, `
		SELECT id, kind, description, amount, date, COALESCE(appointment_id::text, ''), created_at
		FROM financial_entries
		WHERE id = $1
	`, id).Scan(&e.ID, &e.Kind, &e.Description, &e.Amount, &e.Date, &e.AppointmentID, &e.CreatedAt)
	if err != nil {
		return model.FinancialEntry{}, err
	}
	return e, nil
}

// ListEntries filters by YYYY-MM prefix when month is non-empty.
func (r *Repository) ListEntries(ctx context.Context, month string) ([]model.FinancialEntry, error) {
	query := `
		SELECT id, kind, description, amount, date, COALESCE(appointment_id::text, ''), created_at
		FROM financial_entries
		ORDER BY date DESC, created_at DESC
	`
	args := []any{}
	if month != "" {
		query = `
		SELECT id, kind, description, amount, date, COALESCE(appointment_id::text, ''), created_at
		FROM financial_entries
		WHERE date LIKE $1 || '%'
		ORDER BY date DESC, created_at DESC
	`
		args = append(args, month)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.FinancialEntry
	for rows.Next() {
		var e model.FinancialEntry
		if err := rows.Scan(&e.ID, &e.Kind, &e.Description, &e.Amount, &e.Date, &e.AppointmentID, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return entries, nil
}

type MonthlySummary struct {
	Month   string
	Revenue float64
	Expense float64
}

func (r *Repository) SummaryForMonth(ctx context.Context, month string) (MonthlySummary, error) {
	sum := MonthlySummary{Month: month}
	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE kind = 'receita'), 0),
			COALESCE(SUM(amount) FILTER (WHERE kind = 'despesa'), 0)
		FROM financial_entries
		WHERE date LIKE $1 || '%'
	`, month).Scan(&sum.Revenue, &sum.Expense)
	if err != nil {
		return MonthlySummary{}, err
	}
	return sum, nil
}
