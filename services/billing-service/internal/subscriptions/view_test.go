package subscriptions

import (
	"testing"
	"time"

	"github.com/barberlink-app/barberlink/services/billing-service/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputedStatus_EndDateTodayIsStillActive(t *testing.T) {
	sub := model.Subscription{EndDate: "2024-06-10"}
	if got := ComputedStatus(sub, date(2024, 6, 10)); got != StatusAtiva {
		t.Fatalf("endDate == today must stay ATIVA, got %s", got)
	}
	if got := ComputedStatus(sub, date(2024, 6, 11)); got != StatusVencida {
		t.Fatalf("endDate < today must be VENCIDA, got %s", got)
	}
	// ...even with a time of day well into today.
	if got := ComputedStatus(sub, time.Date(2024, 6, 10, 23, 59, 0, 0, time.UTC)); got != StatusAtiva {
		t.Fatalf("late on the end day must stay ATIVA, got %s", got)
	}
}

func TestComputedStatus_CanceledWins(t *testing.T) {
	sub := model.Subscription{EndDate: "2099-01-01", Canceled: true}
	if got := ComputedStatus(sub, date(2024, 6, 10)); got != StatusCancelada {
		t.Fatalf("canceled subscription must read CANCELADA, got %s", got)
	}
}

func TestDaysLeft(t *testing.T) {
	cases := []struct {
		name    string
		endDate string
		now     time.Time
		want    int
	}{
		{"ends today at midnight", "2024-06-10", date(2024, 6, 10), 1},
		{"ends today, late evening", "2024-06-10", time.Date(2024, 6, 10, 22, 0, 0, 0, time.UTC), 1},
		{"ends tomorrow", "2024-06-11", date(2024, 6, 10), 2},
		{"already expired", "2024-06-09", date(2024, 6, 10), 0},
		{"garbage date", "10/06/2024", date(2024, 6, 10), 0},
	}
	for _, tc := range cases {
		if got := DaysLeft(tc.endDate, tc.now); got != tc.want {
			t.Errorf("%s: DaysLeft(%q) = %d, want %d", tc.name, tc.endDate, got, tc.want)
		}
	}
}

func TestUsagePercent(t *testing.T) {
	if pct, ok := UsagePercent(3, 8); !ok || pct != 38 {
		t.Fatalf("3/8 = %d (metered=%v), want 38", pct, ok)
	}
	if pct, ok := UsagePercent(12, 8); !ok || pct != 100 {
		t.Fatalf("overuse must cap at 100, got %d (metered=%v)", pct, ok)
	}
	if _, ok := UsagePercent(5, 0); ok {
		t.Fatal("limit 0 means unmetered")
	}
}

func TestMRR_SumsOnlyActive(t *testing.T) {
	today := date(2024, 6, 10)
	subs := []model.Subscription{
		{EndDate: "2024-06-10", Price: 99.90},
		{EndDate: "2024-07-01", Price: 149.90},
		{EndDate: "2024-06-09", Price: 59.90},
		{EndDate: "2024-12-31", Price: 79.90, Canceled: true},
	}
	got := MRR(subs, today)
	want := 99.90 + 149.90
	if diff := got - want; diff > 0.001 || diff < -0.001 {
		t.Fatalf("MRR = %.2f, want %.2f", got, want)
	}
}
