//go:build !protogen

package main

import (
	"context"
	"log/slog"

	"github.com/barberlink-app/barberlink/libs/db"
)

// The entitlements gRPC server needs the generated stubs; builds without
// the protogen tag serve HTTP only.
func startGrpcServer(_ context.Context, logger *slog.Logger, _ *db.Pool) error {
	logger.Info("grpc server disabled (build without protogen tag)")
	return nil
}
