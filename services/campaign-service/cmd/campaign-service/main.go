package main

import (
	"context"
	"encoding/json"
	"net/http"
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
	"github.com/barberlink-app/barberlink/services/campaign-service/internal/consumer"
	"github.com/barberlink-app/barberlink/services/campaign-service/internal/handlers"
	"github.com/barberlink-app/barberlink/services/campaign-service/internal/model"
	"github.com/barberlink-app/barberlink/services/campaign-service/internal/sms"
	"github.com/barberlink-app/barberlink/services/campaign-service/internal/storage"
)

const (
	topicClientRegistered = "auth.client.registered.v1"
	topicAppointmentPaid  = "booking.appointment.paid.v1"
)

func main() {
	config.LoadDotenv()

	service := config.String("SERVICE_NAME", "campaign-service")
	port, err := config.Port("PORT", "8085")
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

	// The client projection is built entirely from upstream events: auth
	// registrations create rows, paid appointments advance last_paid_at.
	type registeredEvent struct {
		ClientID string `json:"clientId"`
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Email    string `json:"email"`
	}
	type paidEvent struct {
		ClientID   string `json:"clientId"`
		ClientName string `json:"clientName"`
		Phone      string `json:"clientPhone"`
		Date       string `json:"date"`
	}
	projectionConsumer := consumer.New(logger, pool, consumer.Config{
		Brokers: config.String("KAFKA_BROKERS", ""),
		GroupID: config.String("KAFKA_GROUP_ID", "campaign-service"),
		Topics:  []string{topicClientRegistered, topicAppointmentPaid},
	}, func(ctx context.Context, tx pgx.Tx, msg kafka.Message) error {
		switch msg.Topic {
		case topicClientRegistered:
			var evt registeredEvent
			if err := json.Unmarshal(msg.Value, &evt); err != nil {
				logger.Error("invalid registration event", "err", err)
				return nil
			}
			if evt.ClientID == "" {
				logger.Error("registration event without clientId")
				return nil
			}
			if err := repo.UpsertClient(ctx, tx, model.Client{
				ID:    evt.ClientID,
				Name:  evt.Name,
				Phone: evt.Phone,
				Email: evt.Email,
			}); err != nil {
				return err
			}
			if _, err := repo.InsertNotification(ctx, &model.Notification{
				Kind:  "cadastro",
				Title: "Novo cliente",
				Body:  evt.Name + " acabou de se cadastrar",
			}); err != nil {
				logger.Error("failed to record registration notification", "err", err)
			}
		case topicAppointmentPaid:
			var evt paidEvent
			if err := json.Unmarshal(msg.Value, &evt); err != nil {
				logger.Error("invalid paid event", "err", err)
				return nil
			}
			if evt.ClientID == "" {
				// Walk-ins without an account never enter the projection.
				return nil
			}
			paidAt := time.Now().UTC()
			if d, err := time.Parse("2006-01-02", evt.Date); err == nil {
				paidAt = d
			}
			if err := repo.TouchLastPaid(ctx, tx, evt.ClientID, evt.ClientName, evt.Phone, paidAt); err != nil {
				return err
			}
		default:
			logger.Warn("unexpected topic", "topic", msg.Topic)
		}
		return nil
	})
	go projectionConsumer.Run(ctx)

	var sender sms.Sender = sms.NewNoopSender()
	if webhookURL := config.String("SMS_WEBHOOK_URL", ""); webhookURL != "" {
		sender = sms.NewWebhookSender(webhookURL, config.String("SMS_WEBHOOK_TOKEN", ""))
	}

	campaignHandler := handlers.New(repo, sender, logger, config.String("BOOKING_LINK", ""))

	mux := runtime.NewBaseMux(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(config.String("KAFKA_BROKERS", ""))},
	)

	mux.HandleFunc("/api/v1/campaigns", campaignHandler.Campaigns)
	mux.HandleFunc("/api/v1/campaigns/", campaignHandler.CampaignByID)
	mux.HandleFunc("/api/v1/clients", campaignHandler.Clients)
	mux.HandleFunc("/api/v1/clients/inactive", campaignHandler.InactiveClients)
	mux.HandleFunc("/api/v1/notifications", campaignHandler.Notifications)

	handler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(1<<20),
	)
	handler = otelhttp.NewHandler(handler, "campaign")
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

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "err", err)
	}
	logger.Info("shutdown complete")
}
