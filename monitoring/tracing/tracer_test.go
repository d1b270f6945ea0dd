package tracing

import (
	"context"
	"testing"

	"github.com/prysmaticlabs/lean/testing/assert"
	"github.com/prysmaticlabs/lean/testing/require"
	logTest "github.com/sirupsen/logrus/hooks/test"
	"go.opencensus.io/trace"
)

func TestSetup_Disabled(t *testing.T) {
	require.NoError(t, Setup("", "", 1, false))
	_, span := trace.StartSpan(context.Background(), "lean.test")
	defer span.End()
	assert.Equal(t, false, span.SpanContext().IsSampled())
}

func TestSetup_EmptyName(t *testing.T) {
	err := Setup("", "http://127.0.0.1:14268/api/traces", 0.2, true)
	require.ErrorIs(t, err, ErrEmptyName)
}

func TestSetup_BadFraction(t *testing.T) {
	err := Setup("lean-node", "http://127.0.0.1:14268/api/traces", 1.5, true)
	assert.ErrorContains(t, "outside [0, 1]", err)
}

func TestSetup_MissingEndpoint(t *testing.T) {
	err := Setup("lean-node", "", 0.2, true)
	assert.ErrorContains(t, "could not create jaeger exporter", err)
}

func TestSetup_Enabled(t *testing.T) {
	hook := logTest.NewGlobal()
	defer func() {
		require.NoError(t, Setup("", "", 0, false))
	}()
	require.NoError(t, Setup("lean-node", "http://127.0.0.1:14268/api/traces", 1, true))
	require.LogsContain(t, hook, "Starting jaeger span exporter")

	_, span := trace.StartSpan(context.Background(), "lean.test")
	defer span.End()
	assert.Equal(t, true, span.SpanContext().IsSampled())
}
