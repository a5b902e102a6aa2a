package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// VIPEntitlements is the locally cached view of a client's subscription,
// replicated from billing events so booking decisions never block on the
// billing service.
type VIPEntitlements struct {
	ClientID    string
	PlanName    string
	ServiceCap  int
	EndDate     string
	Active      bool
	UpdatedAt   time.Time
}

func (r *AppointmentRepository) UpsertVIPEntitlements(ctx context.Context, tx pgx.Tx, ent VIPEntitlements) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO vip_entitlements (client_id, plan_name, service_cap, end_date, active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (client_id)
		DO UPDATE SET plan_name = EXCLUDED.plan_name,
		              service_cap = EXCLUDED.service_cap,
		              end_date = EXCLUDED.end_date,
		              active = EXCLUDED.active,
		              updated_at = now()
	`, ent.ClientID, ent.PlanName, ent.ServiceCap, ent.EndDate, ent.Active)
	return err
}

func (r *AppointmentRepository) GetVIPEntitlements(ctx context.Context, clientID string) (VIPEntitlements, bool, error) {
	var ent VIPEntitlements
	err := r.pool.QueryRow(ctx, `
		SELECT client_id::text, plan_name, service_cap, COALESCE(end_date, ''), active, updated_at
		FROM vip_entitlements
		WHERE client_id = $1
	`, clientID).Scan(&ent.ClientID, &ent.PlanName, &ent.ServiceCap, &ent.EndDate, &ent.Active, &ent.UpdatedAt)
	if err != nil {
		if IsNotFound(err) {
			return VIPEntitlements{}, false, nil
		}
		return VIPEntitlements{}, false, err
	}
	return ent, true, nil
}

// CountPaidInMonth counts a client's paid appointments whose date carries the
// YYYY-MM prefix, for plan usage display.
func (r *AppointmentRepository) CountPaidInMonth(ctx context.Context, clientID, month string) (int, error) {
	var cnt int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM appointments
		WHERE client_id = $1
		  AND status = 'CONCLUIDO_PAGO'
		  AND date LIKE $2 || '%'
	`, clientID, month).Scan(&cnt)
	return cnt, err
}
