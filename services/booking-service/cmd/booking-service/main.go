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
	"github.com/barberlink-app/barberlink/services/booking-service/internal/consumer"
	"github.com/barberlink-app/barberlink/services/booking-service/internal/handlers"
	"github.com/barberlink-app/barberlink/services/booking-service/internal/outbox"
	"github.com/barberlink-app/barberlink/services/booking-service/internal/storage"
	"github.com/barberlink-app/barberlink/services/booking-service/internal/uploads"
)

func main() {
	config.LoadDotenv()

	service := config.String("SERVICE_NAME", "booking-service")
	port, err := config.Port("PORT", "8082")
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

	apptRepo := storage.NewAppointmentRepository(pool)
	catalogRepo := storage.NewCatalogRepository(pool)
	blockedRepo := storage.NewBlockedSlotRepository(pool)
	shopRepo := storage.NewShopRepository(pool)
	outboxRepo := outbox.NewRepository(pool)

	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   config.String("KAFKA_BROKERS", ""),
		PollEvery: 2 * time.Second,
		BatchSize: 50,
	})
	go outboxPublisher.Run(ctx)

	// Replicate billing subscription events into the local entitlements
	// cache so the booking path never calls billing synchronously.
	type subscriptionEvent struct {
		ClientID   string `json:"clientId"`
		PlanName   string `json:"planName"`
		ServiceCap int    `json:"usageLimit"`
		EndDate    string `json:"endDate"`
	}
	subscriptionConsumer := consumer.New(logger, pool, consumer.Config{
		Brokers: config.String("KAFKA_BROKERS", ""),
		GroupID: config.String("KAFKA_GROUP_ID", "booking-service"),
		Topics: []string{
			"billing.subscription.activated.v1",
			"billing.subscription.canceled.v1",
		},
	}, func(ctx context.Context, tx pgx.Tx, msg kafka.Message) error {
		var evt subscriptionEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			logger.Error("invalid subscription event", "err", err)
			return nil
		}
		if evt.ClientID == "" {
			logger.Error("subscription event without clientId")
			return nil
		}

		return apptRepo.UpsertVIPEntitlements(ctx, tx, storage.VIPEntitlements{
			ClientID:   evt.ClientID,
			PlanName:   evt.PlanName,
			ServiceCap: evt.ServiceCap,
			EndDate:    evt.EndDate,
			Active:     msg.Topic == "billing.subscription.activated.v1",
		})
	})
	go subscriptionConsumer.Run(ctx)

	var uploadsClient uploads.Client = uploads.NewNoopClient()
	if uploadsURL := config.String("UPLOADS_URL", ""); uploadsURL != "" {
		uploadsClient = uploads.NewHTTPClient(uploadsURL, config.String("UPLOADS_TOKEN", ""))
	}

	apptHandler := handlers.NewAppointmentHandler(apptRepo, catalogRepo, blockedRepo, shopRepo, outboxRepo, logger)
	catalogHandler := handlers.NewCatalogHandler(catalogRepo, logger)
	shopHandler := handlers.NewShopHandler(shopRepo, blockedRepo, uploadsClient, logger)

	mux := runtime.NewBaseMux(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(config.String("KAFKA_BROKERS", ""))},
	)

	mux.HandleFunc("/api/v1/public/book", apptHandler.CreatePublic)
	mux.HandleFunc("/api/v1/public/slots", apptHandler.Slots)
	mux.HandleFunc("/api/v1/appointments", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			apptHandler.CreateAdmin(w, r)
			return
		}
		apptHandler.List(w, r)
	})
	mux.HandleFunc("/api/v1/appointments/grid", apptHandler.Grid)
	mux.HandleFunc("/api/v1/appointments/pay", apptHandler.Pay)
	mux.HandleFunc("/api/v1/appointments/cancel", apptHandler.Cancel)
	mux.HandleFunc("/api/v1/appointments/reschedule", apptHandler.Reschedule)

	mux.HandleFunc("/api/v1/services", catalogHandler.Services)
	mux.HandleFunc("/api/v1/services/", catalogHandler.ServiceByID)
	mux.HandleFunc("/api/v1/professionals", catalogHandler.Professionals)
	mux.HandleFunc("/api/v1/professionals/", catalogHandler.ProfessionalByID)

	mux.HandleFunc("/api/v1/blocked-slots", shopHandler.BlockedSlots)
	mux.HandleFunc("/api/v1/blocked-slots/", shopHandler.BlockedSlotByID)
	mux.HandleFunc("/api/v1/shop/config", shopHandler.Config)
	mux.HandleFunc("/api/v1/shop/upload", shopHandler.UploadImage)
	mux.HandleFunc("/api/v1/reviews", shopHandler.Reviews)
	mux.HandleFunc("/api/v1/suggestions", shopHandler.Suggestions)

	setupEntitlementsRoutes(ctx, mux, logger)

	handler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(5<<20),
	)
	handler = otelhttp.NewHandler(handler, "booking")
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
