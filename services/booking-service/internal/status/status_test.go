package status

import "testing"

func TestMarkPaid_FromAnyState(t *testing.T) {
	for _, from := range []string{Agendado, Pendente, PendentePagamento, Reagendado, Cancelado, ConcluidoPago} {
		got, err := MarkPaid(from)
		if err != nil {
			t.Fatalf("MarkPaid(%s) failed: %v", from, err)
		}
		if got != ConcluidoPago {
			t.Fatalf("MarkPaid(%s): expected %s, got %s", from, ConcluidoPago, got)
		}
	}
}

func TestSettled_OnlyPaidState(t *testing.T) {
	// Settled gates the paid-event emission: replaying pay on a settled
	// appointment must be a no-op so billing sees at most one paid event
	// per appointment.
	if !Settled(ConcluidoPago) {
		t.Fatal("CONCLUIDO_PAGO must read as settled")
	}
	for _, from := range []string{Agendado, Pendente, PendentePagamento, Reagendado, Cancelado} {
		if Settled(from) {
			t.Fatalf("%s must not read as settled", from)
		}
	}
}

func TestCancel_Idempotent(t *testing.T) {
	got, err := Cancel(Agendado)
	if err != nil || got != Cancelado {
		t.Fatalf("Cancel(AGENDADO): got %s, err %v", got, err)
	}
	got, err = Cancel(got)
	if err != nil || got != Cancelado {
		t.Fatalf("second Cancel: got %s, err %v", got, err)
	}
}

func TestCancel_UnknownStatus(t *testing.T) {
	if _, err := Cancel("DELETED"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestCanReschedule(t *testing.T) {
	for _, from := range []string{Agendado, Pendente, PendentePagamento, Reagendado, ConcluidoPago} {
		if !CanReschedule(from) {
			t.Fatalf("expected %s to allow rescheduling", from)
		}
	}
	if CanReschedule(Cancelado) {
		t.Fatal("CANCELADO must not allow rescheduling")
	}
	if CanReschedule("???") {
		t.Fatal("unknown status must not allow rescheduling")
	}
}

func TestInitial(t *testing.T) {
	if Initial(true) != Pendente {
		t.Fatalf("public flow must start PENDENTE, got %s", Initial(true))
	}
	if Initial(false) != Agendado {
		t.Fatalf("admin flow must start AGENDADO, got %s", Initial(false))
	}
}
