package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/barberlink-app/barberlink/libs/config"
	"github.com/barberlink-app/barberlink/libs/db"
	"github.com/barberlink-app/barberlink/libs/httpx"
	"github.com/barberlink-app/barberlink/libs/kafkax"
	otelx "github.com/barberlink-app/barberlink/libs/otel"
	"github.com/barberlink-app/barberlink/libs/runtime"
	"github.com/barberlink-app/barberlink/services/billing-service/internal/consumer"
	"github.com/barberlink-app/barberlink/services/billing-service/internal/handlers"
	"github.com/barberlink-app/barberlink/services/billing-service/internal/model"
	"github.com/barberlink-app/barberlink/services/billing-service/internal/outbox"
	"github.com/barberlink-app/barberlink/services/billing-service/internal/storage"
	"github.com/barberlink-app/barberlink/services/billing-service/internal/subscriptions"
)

func main() {
	config.LoadDotenv()

	service := config.String("SERVICE_NAME", "billing-service")
	port, err := config.Port("PORT", "8084")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	repo := storage.NewRepository(pool)
	outboxRepo := outbox.NewRepository(pool)
	subSvc := subscriptions.New(repo, outboxRepo)

	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   config.String("KAFKA_BROKERS", ""),
		PollEvery: 2 * time.Second,
		BatchSize: 50,
	})
	go outboxPublisher.Run(ctx)

	// Every paid appointment becomes a revenue ledger line, and the payer's
	// membership usage counter moves. The handler runs in the transaction
	// that claims the event id, so redelivery is harmless and a failed
	// write is retried rather than swallowed.
	type paidEvent struct {
		AppointmentID string `json:"appointmentId"`
		ClientID      string `json:"clientId"`
		ClientName    string `json:"clientName"`
		ServiceName   string `json:"serviceName"`
		Date          string `json:"date"`
		Price         string `json:"price"`
	}
	paidConsumer := consumer.New(logger, pool, consumer.Config{
		Brokers: config.String("KAFKA_BROKERS", ""),
		GroupID: config.String("KAFKA_GROUP_ID", "billing-service"),
		Topic:   config.String("KAFKA_CONSUME_TOPIC", "booking.appointment.paid.v1"),
	}, func(ctx context.Context, tx pgx.Tx, msg kafka.Message) error {
		var evt paidEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			logger.Error("invalid paid event", "err", err)
			return nil
		}
		if evt.AppointmentID == "" {
			logger.Error("paid event without appointmentId")
			return nil
		}
		amount, err := strconv.ParseFloat(evt.Price, 64)
		if err != nil {
			logger.Error("paid event with unparsable price", "price", evt.Price)
			amount = 0
		}

		if _, err := repo.CreateEntry(ctx, tx, &model.FinancialEntry{
			Kind:          model.KindReceita,
			Description:   evt.ServiceName + " - " + evt.ClientName,
			Amount:        amount,
			Date:          evt.Date,
			AppointmentID: evt.AppointmentID,
		}); err != nil {
			return err
		}

		if evt.ClientID != "" {
			sub, err := repo.LatestByClientForUpdate(ctx, tx, evt.ClientID)
			if err == nil {
				if err := repo.IncrementUsage(ctx, tx, sub.ID); err != nil {
					return err
				}
			} else if !storage.IsNotFound(err) {
				return err
			}
		}
		return nil
	})
	go paidConsumer.Run(ctx)

	h := handlers.New(repo, subSvc, logger)

	mux := runtime.NewBaseMux(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(config.String("KAFKA_BROKERS", ""))},
	)
	mux.HandleFunc("/api/v1/billing/plans", h.Plans)
	mux.HandleFunc("/api/v1/billing/plans/", h.PlanByID)
	mux.HandleFunc("/api/v1/billing/subscriptions", h.Subscriptions)
	mux.HandleFunc("/api/v1/billing/subscriptions/", h.SubscriptionByID)
	mux.HandleFunc("/api/v1/billing/mrr", h.MRR)
	mux.HandleFunc("/api/v1/billing/financial", h.FinancialEntries)
	mux.HandleFunc("/api/v1/billing/financial/", h.FinancialEntryByID)
	mux.HandleFunc("/api/v1/billing/financial-summary", h.FinancialSummary)

	handler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
	)
	handler = otelhttp.NewHandler(handler, "billing")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	if err := startGrpcServer(ctx, logger, pool); err != nil {
		logger.Error("grpc server failed to start", "err", err)
	}

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
