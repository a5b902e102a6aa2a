package subscriptions

import (
	"math"
	"time"

	"github.com/barberlink-app/barberlink/services/billing-service/internal/model"
)

const (
	StatusAtiva     = "ATIVA"
	StatusVencida   = "VENCIDA"
	StatusCancelada = "CANCELADA"
)

// ComputedStatus derives the displayed status from (subscription, today).
// VENCIDA only when the end date is strictly before today: a membership
// ending today is still usable. Cancellation wins over dates.
func ComputedStatus(sub model.Subscription, today time.Time) string {
	if sub.Canceled {
		return StatusCancelada
	}
	end, err := time.Parse("2006-01-02", sub.EndDate)
	if err != nil {
		return StatusVencida
	}
	todayMidnight := midnight(today)
	if end.Before(todayMidnight) {
		return StatusVencida
	}
	return StatusAtiva
}

// DaysLeft is a ceiling division so a membership expiring tomorrow morning
// still reads "1 day". Expired memberships read 0, never negative.
func DaysLeft(endDate string, now time.Time) int {
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return 0
	}
	// The membership runs through the whole end day.
	endOfDay := end.AddDate(0, 0, 1)
	diff := endOfDay.Sub(now.UTC())
	if diff <= 0 {
		return 0
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// UsagePercent reports how much of the monthly cap was used, capped at 100.
// A zero limit means the plan is unmetered and the second return is false.
func UsagePercent(count, limit int) (int, bool) {
	if limit <= 0 {
		return 0, false
	}
	pct := int(math.Round(float64(count) / float64(limit) * 100))
	if pct > 100 {
		pct = 100
	}
	return pct, true
}

// MRR sums the prices of the subscriptions whose computed status is ATIVA.
func MRR(subs []model.Subscription, today time.Time) float64 {
	var total float64
	for _, sub := range subs {
		if ComputedStatus(sub, today) == StatusAtiva {
			total += sub.Price
		}
	}
	return total
}

func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
