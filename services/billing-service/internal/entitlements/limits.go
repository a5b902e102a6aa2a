package entitlements

import (
	"time"

	"github.com/barberlink-app/barberlink/services/billing-service/internal/model"
	"github.com/barberlink-app/barberlink/services/billing-service/internal/subscriptions"
)

// Limits is the entitlement view other services consume. Keep it small and
// stable: booking enforces ServiceCap at the public booking path.
type Limits struct {
	PlanName   string `json:"plan_name"`
	ServiceCap int32  `json:"service_cap"`
	EndDate    string `json:"end_date"`
	Active     bool   `json:"active"`
}

// FromSubscription reduces a membership to its limits. Anything not
// computed-ATIVA collapses to the no-plan default.
func FromSubscription(sub model.Subscription, today time.Time) Limits {
	if subscriptions.ComputedStatus(sub, today) != subscriptions.StatusAtiva {
		return None()
	}
	return Limits{
		PlanName:   sub.PlanName,
		ServiceCap: int32(sub.UsageLimit),
		EndDate:    sub.EndDate,
		Active:     true,
	}
}

func None() Limits {
	return Limits{}
}
