//go:build protogen

package entitlements

import (
	"context"
	"time"

	"google.golang.org/grpc"

	"github.com/barberlink-app/barberlink/libs/grpcx"
	entitlementsv1 "github.com/barberlink-app/barberlink/protos/gen/entitlements/v1"
)

// Client queries billing for a client's plan limits over gRPC. The cached
// vip_entitlements rows serve the hot path; this client backs the debug
// route and cache warmup.
type Client struct {
	conn   *grpc.ClientConn
	client entitlementsv1.EntitlementsServiceClient
}

func NewClient(addr string) (*Client, error) {
	conn, err := grpcx.Dial(context.Background(), addr, grpcx.DialOptions{
		Timeout: 5 * time.Second,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		conn:   conn,
		client: entitlementsv1.NewEntitlementsServiceClient(conn),
	}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) GetEntitlements(ctx context.Context, clientID string) (*entitlementsv1.EntitlementsResponse, error) {
	return c.client.GetEntitlements(ctx, &entitlementsv1.EntitlementsRequest{
		ClientId: clientID,
	})
}
