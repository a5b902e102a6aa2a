package consumer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/segmentio/kafka-go"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error   { t.committed = true; return nil }
func (t *fakeTx) Rollback(context.Context) error { t.rolledBack = true; return nil }

type fakeDB struct {
	tx *fakeTx
}

func (f *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	f.tx = &fakeTx{}
	return f.tx, nil
}

func testMessage() kafka.Message {
	return kafka.Message{
		Topic: "booking.appointment.paid.v1",
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte("evt-1")},
			{Key: "event_type", Value: []byte("booking.appointment.paid.v1")},
		},
	}
}

func newTestConsumer(db *fakeDB, dedupe func(context.Context, pgx.Tx, string, string) (bool, error), handler Handler) *Consumer {
	return &Consumer{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		db:      db,
		dedupe:  dedupe,
		handler: handler,
	}
}

func TestProcess_CommitsDedupeWithHandler(t *testing.T) {
	db := &fakeDB{}
	var dedupeTx pgx.Tx
	var handlerTx pgx.Tx
	c := newTestConsumer(db,
		func(_ context.Context, tx pgx.Tx, eventID, _ string) (bool, error) {
			if eventID != "evt-1" {
				t.Fatalf("unexpected event id %q", eventID)
			}
			dedupeTx = tx
			return true, nil
		},
		func(_ context.Context, tx pgx.Tx, _ kafka.Message) error {
			handlerTx = tx
			return nil
		})

	if err := c.process(context.Background(), testMessage()); err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if dedupeTx != db.tx || handlerTx != db.tx {
		t.Fatal("dedupe and handler must share the consumer's transaction")
	}
	if !db.tx.committed {
		t.Fatal("expected the transaction to commit")
	}
}

func TestProcess_HandlerErrorRollsBackDedupe(t *testing.T) {
	db := &fakeDB{}
	c := newTestConsumer(db,
		func(context.Context, pgx.Tx, string, string) (bool, error) { return true, nil },
		func(context.Context, pgx.Tx, kafka.Message) error { return errors.New("transient db error") })

	if err := c.process(context.Background(), testMessage()); err == nil {
		t.Fatal("expected process to surface the handler error")
	}
	if db.tx.committed {
		t.Fatal("failed handler must not commit the dedupe row")
	}
	if !db.tx.rolledBack {
		t.Fatal("failed handler must roll back, freeing the event id for redelivery")
	}
}

func TestProcess_DuplicateSkipsHandler(t *testing.T) {
	db := &fakeDB{}
	handlerCalled := false
	c := newTestConsumer(db,
		func(context.Context, pgx.Tx, string, string) (bool, error) { return false, nil },
		func(context.Context, pgx.Tx, kafka.Message) error { handlerCalled = true; return nil })

	if err := c.process(context.Background(), testMessage()); err != nil {
		t.Fatalf("duplicate must not be an error: %v", err)
	}
	if handlerCalled {
		t.Fatal("duplicate event must not reach the handler")
	}
	if db.tx.committed {
		t.Fatal("aborted duplicate transaction must not commit")
	}
}
