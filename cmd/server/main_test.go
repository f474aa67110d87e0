package main

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

func serveAsync(ctx context.Context, httpServer *http.Server, grpcServer *grpc.Server, grpcLis net.Listener) <-chan error {
	done := make(chan error, 1)
	go func() { done <- serve(ctx, httpServer, grpcServer, grpcLis, time.Second) }()
	return done
}

func TestServe_StopsOnCancel(t *testing.T) {
	grpcLis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := serveAsync(ctx, &http.Server{Addr: "127.0.0.1:0"}, grpc.NewServer(), grpcLis)

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("servers did not stop after cancel")
	}
}

func TestServe_HTTPFailureStopsGRPC(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	grpcLis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := serveAsync(context.Background(), &http.Server{Addr: taken.Addr().String()}, grpc.NewServer(), grpcLis)

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "http server")
	case <-time.After(5 * time.Second):
		t.Fatal("gRPC server kept running after the HTTP server failed")
	}

	_, err = net.DialTimeout("tcp", grpcLis.Addr().String(), time.Second)
	assert.Error(t, err, "gRPC listener should be closed")
}
