package consumer

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/barberlink-app/barberlink/libs/kafkax"
	"github.com/barberlink-app/barberlink/services/booking-service/internal/inbox"
)

// Handler runs inside the transaction that claims the event id; its writes
// commit together with the inbox row or not at all.
type Handler func(ctx context.Context, tx pgx.Tx, msg kafka.Message) error

// TxBeginner is satisfied by *db.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Consumer struct {
	reader  *kafka.Reader
	logger  *slog.Logger
	db      TxBeginner
	dedupe  func(ctx context.Context, tx pgx.Tx, eventID, eventType string) (bool, error)
	handler Handler
}

type Config struct {
	Brokers string
	GroupID string
	Topics  []string
}

// New builds a consumer over one group subscription. Booking listens to both
// billing subscription topics with a single reader; the handler dispatches
// on the message topic.
func New(logger *slog.Logger, pool TxBeginner, cfg Config, handler Handler) *Consumer {
	brokers := kafkax.SplitBrokers(cfg.Brokers)
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     cfg.GroupID,
		GroupTopics: cfg.Topics,
		MinBytes:    1,
		MaxBytes:    10e6,
	})
	return &Consumer{
		reader:  reader,
		logger:  logger,
		db:      pool,
		dedupe:  inbox.Record,
		handler: handler,
	}
}

func (c *Consumer) Run(ctx context.Context) {
	defer c.reader.Close()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("kafka read error", "err", err)
			time.Sleep(1 * time.Second)
			continue
		}

		ctxMsg := kafkax.ExtractTraceContext(ctx, msg)
		ctxSpan, span := otel.Tracer("kafka").Start(ctxMsg, "kafka.consume",
			trace.WithAttributes(
				attribute.String("messaging.system", "kafka"),
				attribute.String("messaging.destination", msg.Topic),
			),
		)

		if err := c.process(ctxSpan, msg); err != nil {
			c.logger.Error("handler error", "err", err, "topic", msg.Topic)
			span.RecordError(err)
			span.End()
			// Offset not committed: the message comes back after the next
			// rebalance or restart, and the inbox row rolled back with it.
			continue
		}
		span.End()

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("offset commit failed", "err", err)
		}
	}
}

// process claims the event id and runs the handler in a single transaction.
func (c *Consumer) process(ctx context.Context, msg kafka.Message) error {
	meta := kafkax.ExtractEventMeta(msg)

	tx, err := c.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ok, err := c.dedupe(ctx, tx, meta.EventID, meta.EventType)
	if err != nil {
		return err
	}
	if !ok {
		// The unique violation aborted the transaction; nothing else ran.
		c.logger.Info("duplicate event ignored", "event_id", meta.EventID, "event_type", meta.EventType)
		return nil
	}

	if err := c.handler(ctx, tx, msg); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
