package otel_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"okinoko-gomoku/internal/otel"
)

func TestSetup_NoopWithoutEndpoint(t *testing.T) {
	shutdown, err := otel.Setup(context.Background(), "okinoko-test", "", true)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestSetup_NoopWhenDisabled(t *testing.T) {
	shutdown, err := otel.Setup(context.Background(), "okinoko-test", "http://localhost:4318", false)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestSetup_ProviderWithEndpoint(t *testing.T) {
	// non-routable; nothing is exported
	shutdown, err := otel.Setup(context.Background(), "okinoko-test", "http://192.0.2.1:4318", true)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
