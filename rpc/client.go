package rpc

import (
	"context"
	"fmt"
	"time"

	"github.com/tech-arch1tect/verifycode/services/verification"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Client calls a remote verify service. It satisfies gateway.Issuer.
type Client struct {
	conn    *grpc.ClientConn
	timeout time.Duration
}

func DefaultDialOptions() []grpc.DialOption {
	return []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	}
}

// NewClient does not connect; the first call does. A zero timeout leaves
// deadlines to the caller's context.
func NewClient(target string, timeout time.Duration, opts ...grpc.DialOption) (*Client, error) {
	conn, err := grpc.NewClient(target, append(DefaultDialOptions(), opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create grpc client for %s: %w", target, err)
	}
	return &Client{conn: conn, timeout: timeout}, nil
}

func (c *Client) GetVerifyCode(ctx context.Context, email string) (verification.Result, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	out := new(GetVerifyRsp)
	if err := c.conn.Invoke(ctx, GetVerifyCodeMethod, &GetVerifyReq{Email: email}, out); err != nil {
		return verification.Result{}, err
	}
	return verification.Result{Address: out.Email, Status: verification.Status(out.Error)}, nil
}

// Check reports whether the remote verify service is SERVING.
func (c *Client) Check(ctx context.Context) error {
	resp, err := grpc_health_v1.NewHealthClient(c.conn).Check(ctx,
		&grpc_health_v1.HealthCheckRequest{Service: ServiceName},
		grpc.CallContentSubtype("proto"))
	if err != nil {
		return err
	}
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		return fmt.Errorf("verify service status %s", resp.GetStatus())
	}
	return nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
