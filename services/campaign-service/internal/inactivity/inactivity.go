// Package inactivity decides which clients a win-back campaign targets.
package inactivity

import (
	"time"

	"github.com/barberlink-app/barberlink/services/campaign-service/internal/model"
)

// DefaultThresholdDays is the fallback when a campaign does not set one.
const DefaultThresholdDays = 30

// ReferenceTime is the moment inactivity is measured from: the last paid
// appointment, or registration when the client never paid.
func ReferenceTime(c model.Client) time.Time {
	if !c.LastPaidAt.IsZero() {
		return c.LastPaidAt
	}
	return c.CreatedAt
}

// DaysInactive counts whole calendar days between the reference time and
// now. Both sides are normalized to midnight first, so "29 days and 23
// hours ago" is 29 days, not 30, regardless of the time of day either
// event happened.
func DaysInactive(c model.Client, now time.Time) int {
	ref := midnight(ReferenceTime(c))
	today := midnight(now)
	if !ref.Before(today) {
		return 0
	}
	return int(today.Sub(ref).Hours() / 24)
}

// IsInactive applies the threshold inclusively: a client exactly at the
// boundary (30 days for the default) is targeted.
func IsInactive(c model.Client, now time.Time, thresholdDays int) bool {
	if thresholdDays <= 0 {
		thresholdDays = DefaultThresholdDays
	}
	return DaysInactive(c, now) >= thresholdDays
}

// Filter keeps the clients inactive at the threshold.
func Filter(clients []model.Client, now time.Time, thresholdDays int) []model.Client {
	out := make([]model.Client, 0, len(clients))
	for _, c := range clients {
		if IsInactive(c, now, thresholdDays) {
			out = append(out, c)
		}
	}
	return out
}

func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
