// Package status is the appointment state machine. The names are the ones
// the shops actually use day to day, so they are kept in Portuguese across
// storage and the API.
package status

import "fmt"

const (
	Agendado          = "AGENDADO"
	Pendente          = "PENDENTE"
	PendentePagamento = "PENDENTE_PAGAMENTO"
	ConcluidoPago     = "CONCLUIDO_PAGO"
	Reagendado        = "REAGENDADO"
	Cancelado         = "CANCELADO"
)

var all = map[string]bool{
	Agendado:          true,
	Pendente:          true,
	PendentePagamento: true,
	ConcluidoPago:     true,
	Reagendado:        true,
	Cancelado:         true,
}

func Valid(s string) bool {
	return all[s]
}

// Initial returns the status a fresh appointment gets. The public site
// books as PENDENTE (front desk confirms), the back office as AGENDADO.
func Initial(publicFlow bool) string {
	if publicFlow {
		return Pendente
	}
	return Agendado
}

// MarkPaid transitions to CONCLUIDO_PAGO from any state, including
// CANCELADO: the front desk sometimes settles a cancelled visit in cash
// after the fact, and the money view must win.
func MarkPaid(current string) (string, error) {
	if !Valid(current) {
		return "", fmt.Errorf("unknown status %q", current)
	}
	return ConcluidoPago, nil
}

// Settled reports whether the appointment already holds CONCLUIDO_PAGO.
// Paying a settled appointment is a no-op and must emit no event; a second
// paid event would carry a fresh event id past the inbox dedupe and book
// the revenue twice downstream.
func Settled(current string) bool {
	return current == ConcluidoPago
}

// Cancel transitions to CANCELADO and is idempotent.
func Cancel(current string) (string, error) {
	if !Valid(current) {
		return "", fmt.Errorf("unknown status %q", current)
	}
	return Cancelado, nil
}

// CanReschedule reports whether a new date/time may be written. CANCELADO
// is terminal for scheduling; everything else may move and lands on
// REAGENDADO.
func CanReschedule(current string) bool {
	return Valid(current) && current != Cancelado
}
