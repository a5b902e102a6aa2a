//go:build protogen

package entitlements

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"

	entitlementsv1 "github.com/barberlink-app/barberlink/protos/gen/entitlements/v1"
)

type testServer struct {
	entitlementsv1.UnimplementedEntitlementsServiceServer
}

func (s *testServer) GetEntitlements(_ context.Context, _ *entitlementsv1.EntitlementsRequest) (*entitlementsv1.EntitlementsResponse, error) {
	return &entitlementsv1.EntitlementsResponse{
		PlanName:   "VIP Ouro",
		ServiceCap: 8,
		Active:     true,
	}, nil
}

func TestClient_GetEntitlements(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer lis.Close()

	srv := grpc.NewServer()
	entitlementsv1.RegisterEntitlementsServiceServer(srv, &testServer{})

	go func() {
		_ = srv.Serve(lis)
	}()
	defer srv.Stop()

	client, err := NewClient(lis.Addr().String())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	resp, err := client.GetEntitlements(ctx, "client-123")
	if err != nil {
		t.Fatalf("get entitlements: %v", err)
	}
	if resp.PlanName != "VIP Ouro" {
		t.Fatalf("unexpected plan: %s", resp.PlanName)
	}
}
