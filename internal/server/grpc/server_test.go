package grpc

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/ottocollect/ottocollect/internal/logging"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func startServer(t *testing.T, s *Server) (healthpb.HealthClient, context.CancelFunc, <-chan error) {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return healthpb.NewHealthClient(conn), cancel, done
}

func checkStatus(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestServe_ReportsServing(t *testing.T) {
	s := NewServer("", nil, testclock.NewClock(time.Now()), logging.Nop())
	client, _, _ := startServer(t, s)

	require.Equal(t, healthpb.HealthCheckResponse_SERVING, checkStatus(t, client, ""))
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, checkStatus(t, client, ServiceName))
}

func TestServe_FollowsProbe(t *testing.T) {
	var failing atomic.Bool
	clk := testclock.NewClock(time.Now())
	probe := func(context.Context) error {
		if failing.Load() {
			return errors.New("db unreachable")
		}
		return nil
	}
	s := NewServer("", probe, clk, logging.Nop())
	client, _, _ := startServer(t, s)

	require.Equal(t, healthpb.HealthCheckResponse_SERVING, checkStatus(t, client, ServiceName))

	failing.Store(true)
	require.NoError(t, clk.WaitAdvance(defaultProbeInterval, time.Second, 1))

	require.Eventually(t, func() bool {
		return checkStatus(t, client, ServiceName) == healthpb.HealthCheckResponse_NOT_SERVING
	}, 2*time.Second, 10*time.Millisecond)
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	s := NewServer("", nil, testclock.NewClock(time.Now()), logging.Nop())
	_, cancel, done := startServer(t, s)

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	s := NewServer("127.0.0.1:99999", nil, testclock.NewClock(time.Now()), logging.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.Error(t, s.Run(ctx))
}
