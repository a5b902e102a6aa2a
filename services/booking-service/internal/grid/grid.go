// Package grid builds the professional-by-hour day view the admin dashboard
// renders.
package grid

import "github.com/barberlink-app/barberlink/services/booking-service/internal/model"

// Cell is one (professional, slot label) coordinate. Appointment is nil for
// a free slot.
type Cell struct {
	ProfessionalID string
	Label          string
	Appointment    *model.Appointment
}

type Row struct {
	ProfessionalID   string
	ProfessionalName string
	Cells            []Cell
}

// Build places appointments on the grid. Placement rule: a cell shows the
// first appointment whose professional matches the row and whose StartTime
// equals the cell label; appointments sharing a slot are hidden behind the
// first one. Storage rejects new collisions, but rows written before the
// uniqueness constraint still render predictably under this rule.
func Build(professionals []model.Professional, labels []string, appts []model.Appointment) []Row {
	rows := make([]Row, 0, len(professionals))
	for _, p := range professionals {
		row := Row{
			ProfessionalID:   p.ID,
			ProfessionalName: p.Name,
			Cells:            make([]Cell, 0, len(labels)),
		}
		for _, label := range labels {
			cell := Cell{ProfessionalID: p.ID, Label: label}
			for i := range appts {
				if appts[i].ProfessionalID == p.ID && appts[i].StartTime == label {
					cell.Appointment = &appts[i]
					break
				}
			}
			row.Cells = append(row.Cells, cell)
		}
		rows = append(rows, row)
	}
	return rows
}
