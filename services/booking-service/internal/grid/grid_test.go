package grid

import (
	"testing"

	"github.com/barberlink-app/barberlink/services/booking-service/internal/model"
)

func TestBuild_PlacesByProfessionalAndLabel(t *testing.T) {
	pros := []model.Professional{
		{ID: "p1", Name: "Carlos"},
		{ID: "p2", Name: "Rafa"},
	}
	labels := []string{"09:00", "09:30"}
	appts := []model.Appointment{
		{ID: "a1", ProfessionalID: "p1", StartTime: "09:00"},
		{ID: "a2", ProfessionalID: "p2", StartTime: "09:30"},
	}

	rows := Build(pros, labels, appts)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Cells[0].Appointment == nil || rows[0].Cells[0].Appointment.ID != "a1" {
		t.Fatalf("expected a1 at p1/09:00, got %+v", rows[0].Cells[0].Appointment)
	}
	if rows[0].Cells[1].Appointment != nil {
		t.Fatal("expected empty cell at p1/09:30")
	}
	if rows[1].Cells[1].Appointment == nil || rows[1].Cells[1].Appointment.ID != "a2" {
		t.Fatalf("expected a2 at p2/09:30, got %+v", rows[1].Cells[1].Appointment)
	}
}

// Two appointments sharing a slot: only the first is rendered, the second
// is silently hidden. Documented display-level collision behavior.
func TestBuild_CollisionShowsFirstOnly(t *testing.T) {
	pros := []model.Professional{{ID: "p1", Name: "Carlos"}}
	labels := []string{"09:00"}
	appts := []model.Appointment{
		{ID: "first", ProfessionalID: "p1", StartTime: "09:00"},
		{ID: "second", ProfessionalID: "p1", StartTime: "09:00"},
	}

	rows := Build(pros, labels, appts)
	got := rows[0].Cells[0].Appointment
	if got == nil || got.ID != "first" {
		t.Fatalf("expected first appointment to win the cell, got %+v", got)
	}
}

func TestBuild_IgnoresOtherProfessionals(t *testing.T) {
	pros := []model.Professional{{ID: "p1", Name: "Carlos"}}
	labels := []string{"10:00"}
	appts := []model.Appointment{
		{ID: "a1", ProfessionalID: "p2", StartTime: "10:00"},
	}
	rows := Build(pros, labels, appts)
	if rows[0].Cells[0].Appointment != nil {
		t.Fatal("appointment of another professional must not appear in the row")
	}
}
