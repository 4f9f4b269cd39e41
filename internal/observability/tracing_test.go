package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "yatube-test"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
	assert.NotNil(t, Tracer)
}

func TestStartSpan_FinishesWithAndWithoutError(t *testing.T) {
	ctx, finish := StartSpan(context.Background(), "PostService", "Create")
	assert.NotNil(t, trace.SpanFromContext(ctx))
	finish(nil)

	_, finish = StartSpan(context.Background(), "PostService", "Edit")
	finish(errors.New("forbidden"))
}
