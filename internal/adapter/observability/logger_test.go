package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/fairyhunter13/applicant-scorer/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestSetupLogger_DevAndProd(t *testing.T) {
	t.Parallel()
	dev := SetupLogger(config.Config{AppEnv: "dev", OTELServiceName: "svc"})
	assert.NotNil(t, dev)
	assert.True(t, dev.Enabled(context.Background(), slog.LevelDebug))

	prod := SetupLogger(config.Config{AppEnv: "prod", OTELServiceName: "svc"})
	assert.False(t, prod.Enabled(context.Background(), slog.LevelDebug))
}

func TestLoggerContext(t *testing.T) {
	t.Parallel()
	lg := slog.Default().With("k", "v")
	ctx := ContextWithLogger(context.Background(), lg)
	assert.Same(t, lg, LoggerFromContext(ctx))
	assert.Same(t, slog.Default(), LoggerFromContext(context.Background()))

	base := context.Background()
	assert.Equal(t, base, ContextWithLogger(base, nil))
}

func TestRequestIDContext(t *testing.T) {
	t.Parallel()
	ctx := ContextWithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "", RequestIDFromContext(context.Background()))

	base := context.Background()
	assert.Equal(t, base, ContextWithRequestID(base, ""))
}
