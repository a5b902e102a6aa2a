package model

import "time"

// Plan is a VIP membership product. UsageLimit is services per month, zero
// meaning unlimited. DurationDays drives the subscription end date.
type Plan struct {
	ID           string
	Name         string
	Price        float64
	UsageLimit   int
	DurationDays int
	ImageURL     string
	CreatedAt    time.Time
}

// Subscription snapshots the plan at purchase time (name, price, limit) so
// later plan edits never change a running membership. StartDate and EndDate
// are YYYY-MM-DD; ATIVA/VENCIDA is computed against today and never stored.
type Subscription struct {
	ID         string
	ClientID   string
	ClientName string
	PlanID     string
	PlanName   string
	Price      float64
	UsageLimit int
	StartDate  string
	EndDate    string
	Canceled   bool
	UsageCount int
	CreatedAt  time.Time
}

type PaymentRecord struct {
	ID             string
	SubscriptionID string
	Amount         float64
	Date           string
	Note           string
	CreatedAt      time.Time
}

// FinancialEntry is one ledger line. Kind is "receita" or "despesa";
// AppointmentID is set when billing wrote the line from a paid event.
type FinancialEntry struct {
	ID            string
	Kind          string
	Description   string
	Amount        float64
	Date          string
	AppointmentID string
	CreatedAt     time.Time
}

const (
	KindReceita = "receita"
	KindDespesa = "despesa"
)
