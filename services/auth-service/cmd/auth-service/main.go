package main

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/barberlink-app/barberlink/libs/config"
	"github.com/barberlink-app/barberlink/libs/db"
	"github.com/barberlink-app/barberlink/libs/httpx"
	"github.com/barberlink-app/barberlink/libs/kafkax"
	otelx "github.com/barberlink-app/barberlink/libs/otel"
	"github.com/barberlink-app/barberlink/libs/runtime"
	"github.com/barberlink-app/barberlink/services/auth-service/internal/audit"
	"github.com/barberlink-app/barberlink/services/auth-service/internal/handlers"
	"github.com/barberlink-app/barberlink/services/auth-service/internal/outbox"
	"github.com/barberlink-app/barberlink/services/auth-service/internal/sessions"
	"github.com/barberlink-app/barberlink/services/auth-service/internal/storage"
)

func main() {
	config.LoadDotenv()

	service := config.String("SERVICE_NAME", "auth-service")
	port, err := config.Port("PORT", "8081")
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

	clientRepo := storage.NewClientRepository(pool)
	auditRepo := audit.NewRepository(pool)
	outboxRepo := outbox.NewRepository(pool)
	refreshRepo := sessions.NewRefreshRepository(pool)

	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   config.String("KAFKA_BROKERS", ""),
		PollEvery: 2 * time.Second,
		BatchSize: 50,
	})
	go outboxPublisher.Run(ctx)

	signer := handlers.NewHS256Signer(config.String("JWT_SECRET", "dev-secret"))

	refreshTTLHours := config.Int("REFRESH_TTL_HOURS", 720)
	if refreshTTLHours <= 0 {
		logger.Error("invalid refresh ttl hours", "value", refreshTTLHours)
		panic("invalid REFRESH_TTL_HOURS")
	}

	admin := handlers.AdminCredentials{
		Email:        config.String("ADMIN_EMAIL", ""),
		Name:         config.String("ADMIN_NAME", ""),
		PasswordHash: config.String("ADMIN_PASSWORD_HASH", ""),
	}
	if admin.Email == "" {
		logger.Warn("ADMIN_EMAIL not set, admin login disabled")
	}

	authHandler := handlers.NewAuthHandler(
		signer, pool, clientRepo, auditRepo, outboxRepo, refreshRepo,
		admin, time.Duration(refreshTTLHours)*time.Hour,
	)

	mux := runtime.NewBaseMux(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(config.String("KAFKA_BROKERS", ""))},
	)
	mux.HandleFunc("/api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("/api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("/api/v1/auth/admin/login", authHandler.AdminLogin)
	mux.HandleFunc("/api/v1/auth/refresh", authHandler.Refresh)
	mux.HandleFunc("/api/v1/auth/logout", authHandler.Logout)
	mux.HandleFunc("/api/v1/auth/me", authHandler.Me)
	mux.HandleFunc("/api/v1/auth/audit", authHandler.Audit)

	handler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(1<<20),
	)
	handler = otelhttp.NewHandler(handler, "auth")
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
