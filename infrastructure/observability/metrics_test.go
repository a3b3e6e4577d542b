package observability

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"gamewin/config"
	"gamewin/events"
	"gamewin/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newManualProvider(t *testing.T) (*MetricsProvider, *sdkmetric.ManualReader) {
	t.Helper()
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true

	reader := sdkmetric.NewManualReader()
	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.initializeWithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return mp, reader
}

func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	want := attribute.NewSet(attrs...)
	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				if len(attrs) == 0 || dp.Attributes.Equals(&want) {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func TestMetricsProvider_DisabledIsNoop(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = false
	mp := NewMetricsProvider(cfg)

	require.NoError(t, mp.Initialize(context.Background()))
	assert.False(t, mp.isEnabled())

	assert.NotPanics(t, func() {
		mp.RecordHTTPRequest(http.MethodGet, "/api/me", http.StatusOK, time.Millisecond)
		mp.RecordEventPublished(context.Background(), "ledger_entry", nil)
		mp.RecordSchedulerRun("start_tournaments", 2, nil)
		mp.HandleEvent(context.Background(), events.LedgerEntryEvent{TransactionType: models.TransactionTypeDeposit})
	})
}

func TestMetricsProvider_NoneExporterIsNoop(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "none"
	mp := NewMetricsProvider(cfg)

	require.NoError(t, mp.Initialize(context.Background()))
	assert.NotPanics(t, func() {
		mp.RecordHTTPRequest(http.MethodGet, "/healthz", http.StatusOK, time.Millisecond)
	})
}

func TestMetricsProvider_UnknownExporter(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "carrier-pigeon"

	err := NewMetricsProvider(cfg).Initialize(context.Background())
	assert.ErrorContains(t, err, "unknown exporter type")
}

func TestMetricsProvider_CountsLedgerEntriesByType(t *testing.T) {
	mp, reader := newManualProvider(t)
	ctx := context.Background()

	mp.HandleEvent(ctx, events.LedgerEntryEvent{TransactionType: models.TransactionTypeDeposit})
	mp.HandleEvent(ctx, events.LedgerEntryEvent{TransactionType: models.TransactionTypeDeposit})
	mp.HandleEvent(ctx, events.LedgerEntryEvent{TransactionType: models.TransactionTypeEntryFee})
	mp.HandleEvent(ctx, events.UserRegisteredEvent{Username: "ignored"})

	assert.Equal(t, int64(2), collectSum(t, reader, LedgerEntriesTotal, attribute.String(LabelType, string(models.TransactionTypeDeposit))))
	assert.Equal(t, int64(3), collectSum(t, reader, LedgerEntriesTotal))
}

func TestMetricsProvider_RecordsPublishesAndRuns(t *testing.T) {
	mp, reader := newManualProvider(t)
	ctx := context.Background()

	mp.RecordEventPublished(ctx, "spin_completed", nil)
	mp.RecordEventPublished(ctx, "spin_completed", errors.New("no responders"))
	mp.RecordSchedulerRun("start_tournaments", 3, nil)
	mp.RecordSchedulerRun("start_tournaments", 0, errors.New("storage unavailable"))
	mp.RecordHTTPRequest(http.MethodPost, "/api/wallet/add-money", http.StatusOK, 12*time.Millisecond)

	assert.Equal(t, int64(1), collectSum(t, reader, NATSMessagesPublishedTotal))
	assert.Equal(t, int64(1), collectSum(t, reader, NATSPublishErrorsTotal))
	assert.Equal(t, int64(3), collectSum(t, reader, TournamentsStartedTotal))
	assert.Equal(t, int64(1), collectSum(t, reader, SchedulerRunsTotal,
		attribute.String(LabelJob, "start_tournaments"),
		attribute.String(LabelResult, ResultFailure),
	))
	assert.Equal(t, int64(1), collectSum(t, reader, HTTPRequestsTotal))
}
