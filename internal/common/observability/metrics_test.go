package observability

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNew_RecordsAndTraces(t *testing.T) {
	reg := promclient.NewRegistry()
	recorder := tracetest.NewSpanRecorder()

	obs := New("serper-test", WithRegisterer(reg), WithSpanProcessor(recorder))
	defer obs.Shutdown()

	ctx, span := obs.StartSpan(context.Background(), "serper.search", attribute.String("query", "golang"))
	obs.RecordSearch(ctx, "success")
	obs.RecordSearchDuration(ctx, 12*time.Millisecond, "success")
	obs.RecordResults(ctx, 3)
	EndSpan(span, nil)

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "serper.search", ended[0].Name())
	assert.Equal(t, codes.Ok, ended[0].Status().Code)

	families, err := reg.Gather()
	require.NoError(t, err)
	found := false
	for _, mf := range families {
		if strings.HasPrefix(mf.GetName(), "searches_processed") {
			found = true
		}
	}
	assert.True(t, found, "searches counter not exported")
}

func TestEndSpan_RecordsError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	obs := New("serper-test", WithRegisterer(promclient.NewRegistry()), WithSpanProcessor(recorder))
	defer obs.Shutdown()

	_, span := obs.StartSpan(context.Background(), "serper.search")
	EndSpan(span, errors.New("HTTP 500"))

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "HTTP 500", ended[0].Status().Description)
}

func TestDisabled_IsSafe(t *testing.T) {
	obs := Disabled()

	assert.NotPanics(t, func() {
		ctx, span := obs.StartSpan(context.Background(), "noop")
		obs.RecordSearch(ctx, "error")
		obs.RecordSearchDuration(ctx, time.Second, "error")
		obs.RecordResults(ctx, 1)
		EndSpan(span, nil)
		obs.Shutdown()
	})
}
