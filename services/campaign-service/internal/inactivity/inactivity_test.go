package inactivity

import (
	"testing"
	"time"

	"github.com/barberlink-app/barberlink/services/campaign-service/internal/model"
)

func at(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, time.UTC)
}

func TestDaysInactive_MidnightNormalization(t *testing.T) {
	// Paid late on June 1st, checked early on July 1st: 30 whole days,
	// whatever the clock said either time.
	c := model.Client{LastPaidAt: at(2024, 6, 1, 23, 30, 0)}
	if got := DaysInactive(c, at(2024, 7, 1, 0, 15, 0)); got != 30 {
		t.Fatalf("DaysInactive = %d, want 30", got)
	}
	if got := DaysInactive(c, at(2024, 7, 1, 23, 59, 59)); got != 30 {
		t.Fatalf("time of day must not matter, got %d", got)
	}
}

func TestIsInactive_BoundaryInclusive(t *testing.T) {
	now := at(2024, 7, 1, 12, 0, 0)
	exactly30 := model.Client{LastPaidAt: at(2024, 6, 1, 8, 0, 0)}
	if !IsInactive(exactly30, now, 30) {
		t.Fatal("client at exactly 30 days must be targeted")
	}
	only29 := model.Client{LastPaidAt: at(2024, 6, 2, 8, 0, 0)}
	if IsInactive(only29, now, 30) {
		t.Fatal("client at 29 days must not be targeted")
	}
}

func TestReferenceTime_FallsBackToRegistration(t *testing.T) {
	created := at(2024, 5, 1, 10, 0, 0)
	c := model.Client{CreatedAt: created}
	if got := ReferenceTime(c); !got.Equal(created) {
		t.Fatalf("never-paid client must use created_at, got %v", got)
	}
	paid := at(2024, 6, 1, 10, 0, 0)
	c.LastPaidAt = paid
	if got := ReferenceTime(c); !got.Equal(paid) {
		t.Fatalf("paid client must use last_paid_at, got %v", got)
	}
}

func TestFilter_DefaultThreshold(t *testing.T) {
	now := at(2024, 7, 1, 12, 0, 0)
	clients := []model.Client{
		{ID: "old", LastPaidAt: at(2024, 5, 1, 0, 0, 0)},
		{ID: "fresh", LastPaidAt: at(2024, 6, 25, 0, 0, 0)},
	}
	got := Filter(clients, now, 0)
	if len(got) != 1 || got[0].ID != "old" {
		t.Fatalf("expected only the old client, got %+v", got)
	}
}
