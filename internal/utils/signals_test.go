//go:build unix

package utils

import (
	"context"
	"syscall"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSignalContextCancelsOnSignal(t *testing.T) {
	ctx, stop := SignalContext(context.Background(), zap.NewNop())
	defer stop()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("Failed to send signal: %v", err)
	}

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context was not cancelled by SIGTERM")
	}
}

func TestSignalContextStop(t *testing.T) {
	ctx, stop := SignalContext(context.Background(), zap.NewNop())
	stop()

	select {
	case <-ctx.Done():
	default:
		t.Error("stop should cancel the context")
	}
}
