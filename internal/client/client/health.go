package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/resumeai/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// healthProbe asks the backend's grpc.health.v1 service whether it is serving.
type healthProbe struct {
	conn   *grpc.ClientConn
	client healthpb.HealthClient
}

func newHealthProbe(addr string) (*healthProbe, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	return &healthProbe{conn: conn, client: healthpb.NewHealthClient(conn)}, nil
}

func (p *healthProbe) Check(ctx context.Context) error {
	resp, err := p.client.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return mapHealthError(ctx, err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("ping: %w: %s", common.ErrTransport, resp.GetStatus())
	}
	return nil
}

func (p *healthProbe) Close() error {
	return p.conn.Close()
}

func mapHealthError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.DeadlineExceeded:
		return fmt.Errorf("ping: %w", common.ErrTimeout)
	case codes.Unavailable:
		return fmt.Errorf("ping: %w: %s", common.ErrTransport, st.Message())
	default:
		return fmt.Errorf("ping: %w: %v", common.ErrTransport, err)
	}
}
