package postgres

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectRejectsEmptyDSN(t *testing.T) {
	db, err := Connect(context.Background(), "   ")
	require.Error(t, err)
	require.Nil(t, db)
}

func TestConnectFromEnvWithoutDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, cleanup := ConnectFromEnv(context.Background(), logger)

	require.Nil(t, db)
	require.NotNil(t, cleanup)
	cleanup()
}
