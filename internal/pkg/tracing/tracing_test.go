package tracing_test

import (
	"errors"
	"testing"

	"orderflow/internal/pkg/tracing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetup_WithoutEndpointIsNoop(t *testing.T) {
	shutdown, err := tracing.Setup(t.Context(), "orderflow-test", "")
	require.NoError(t, err)
	require.NoError(t, shutdown(t.Context()))
}

func TestStartEnd(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	t.Run("should record errors on the span", func(t *testing.T) {
		_, span := tracing.Start(t.Context(), "commands.ResolveCallback")
		tracing.End(span, errors.New("boom"))

		ended := recorder.Ended()
		require.NotEmpty(t, ended)
		last := ended[len(ended)-1]
		assert.Equal(t, "commands.ResolveCallback", last.Name())
		assert.Equal(t, codes.Error, last.Status().Code)
		assert.Len(t, last.Events(), 1)
	})

	t.Run("should leave successful spans unset", func(t *testing.T) {
		_, span := tracing.Start(t.Context(), "commands.CreateOrder")
		tracing.End(span, nil)

		ended := recorder.Ended()
		last := ended[len(ended)-1]
		assert.Equal(t, codes.Unset, last.Status().Code)
	})
}
