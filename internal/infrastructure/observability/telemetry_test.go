package observability

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qj0r9j0vc2/calendar-status/internal/domain/entity"
)

func TestTelemetry_WriteTextfile(t *testing.T) {
	tel, err := NewTelemetry("", "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = tel.Shutdown(context.Background()) })

	ctx := context.Background()
	tel.Metrics.RecordEvents(ctx, "google", 3, 1)
	tel.Metrics.RecordRun(ctx, "google", entity.ActionSet, "in_meeting", 250*time.Millisecond, true)

	path := filepath.Join(t.TempDir(), "calendar_status.prom")
	require.NoError(t, tel.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "calendar_status_runs")
	assert.Contains(t, out, "calendar_status_run_duration")
	assert.Contains(t, out, "calendar_status_events_seen")
	assert.Contains(t, out, "calendar_status_status_writes")
	assert.Contains(t, out, `reason="in_meeting"`)
	assert.Contains(t, out, `source="google"`)
}

func TestTelemetry_NoWriteForDryRun(t *testing.T) {
	tel, err := NewTelemetry(ServiceName, "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = tel.Shutdown(context.Background()) })

	tel.Metrics.RecordRun(context.Background(), "caldav", entity.ActionDryRun, "no_meeting", time.Second, true)

	families, err := tel.Gatherer().Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "calendar_status_runs_total")
	assert.NotContains(t, names, "calendar_status_status_writes_total")
}

func TestTelemetry_WriteTextfile_BadPath(t *testing.T) {
	tel, err := NewTelemetry("", "test")
	require.NoError(t, err)

	err = tel.WriteTextfile(filepath.Join(t.TempDir(), "missing-dir", "out.prom"))
	assert.Error(t, err)
}

func TestTelemetry_Tracer(t *testing.T) {
	tel, err := NewTelemetry("", "test")
	require.NoError(t, err)

	_, span := tel.Tracer("test").Start(context.Background(), "op")
	defer span.End()
	assert.False(t, span.SpanContext().IsValid())
}
