//go:build protogen

package entitlements

import (
	"context"
	"time"

	"google.golang.org/grpc"

	entitlementsv1 "github.com/barberlink-app/barberlink/protos/gen/entitlements/v1"
	"github.com/barberlink-app/barberlink/services/billing-service/internal/storage"
)

type server struct {
	entitlementsv1.UnimplementedEntitlementsServiceServer
	repo *storage.Repository
}

func Register(grpcServer *grpc.Server, repo *storage.Repository) {
	entitlementsv1.RegisterEntitlementsServiceServer(grpcServer, &server{repo: repo})
}

func (s *server) GetEntitlements(ctx context.Context, req *entitlementsv1.EntitlementsRequest) (*entitlementsv1.EntitlementsResponse, error) {
	limits := None()
	if s.repo != nil && req.GetClientId() != "" {
		tx, err := s.repo.Begin(ctx)
		if err == nil {
			if sub, subErr := s.repo.LatestByClientForUpdate(ctx, tx, req.GetClientId()); subErr == nil {
				limits = FromSubscription(sub, time.Now())
			}
			_ = tx.Rollback(ctx)
		}
		// repo errors keep the response stable: no plan
	}
	return &entitlementsv1.EntitlementsResponse{
		PlanName:   limits.PlanName,
		ServiceCap: uint32(limits.ServiceCap),
		EndDate:    limits.EndDate,
		Active:     limits.Active,
	}, nil
}
