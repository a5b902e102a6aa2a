//go:build !protogen

package main

import (
	"context"
	"log/slog"
	"net/http"
)

// The entitlements debug route needs the generated gRPC stubs; builds
// without the protogen tag run on the kafka-fed cache alone.
func setupEntitlementsRoutes(_ context.Context, _ *http.ServeMux, logger *slog.Logger) {
	logger.Info("entitlements grpc client disabled (build without protogen tag)")
}
