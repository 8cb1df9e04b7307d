package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

func TestNewResource_TagsEnvironments(t *testing.T) {
	cfg := NewConfig(WithEnvironment("production"), WithRegistryEnvironment("uat"))

	res, err := newResource(context.Background(), &cfg)
	require.NoError(t, err)

	set := res.Set()

	name, ok := set.Value(semconv.ServiceNameKey)
	require.True(t, ok)
	assert.Equal(t, ServiceName, name.AsString())

	env, ok := set.Value(semconv.DeploymentEnvironmentNameKey)
	require.True(t, ok)
	assert.Equal(t, "production", env.AsString())

	registry, ok := set.Value(attribute.Key("registry.environment"))
	require.True(t, ok)
	assert.Equal(t, "uat", registry.AsString())
}

func TestTransportCredentials(t *testing.T) {
	secure := NewConfig()
	assert.Equal(t, "tls", transportCredentials(&secure).Info().SecurityProtocol)

	plain := NewConfig(WithOtlpInsecure(true))
	assert.Equal(t, "insecure", transportCredentials(&plain).Info().SecurityProtocol)
}

func TestOtelService_ExposesProviders(t *testing.T) {
	ctx := context.Background()

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(ctx) })

	svc := &otelService{tracerProvider: tp}

	_, span := svc.TracerProvider().Tracer(ServiceName).Start(ctx, "registry view-course-run")
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "registry view-course-run", ended[0].Name())
}
