package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewFileExporter_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "traces.jsonl")

	exporter, err := NewFileExporter(path)
	require.NoError(t, err)
	require.NoError(t, exporter.Shutdown(context.Background()))

	_, err = os.Stat(path)
	require.NoError(t, err, "trace file should exist")
}

func TestFileExporter_WritesOneRecordPerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")

	exporter, err := NewFileExporter(path)
	require.NoError(t, err)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)
	tracer := provider.Tracer("test")

	ctx, parent := tracer.Start(context.Background(), "load")
	parent.SetAttributes(attribute.Int("sources", 3))
	_, child := tracer.Start(ctx, "decode")
	child.End()
	parent.End()

	require.NoError(t, provider.Shutdown(context.Background()))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	var records []SpanRecord
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var record SpanRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &record))
		records = append(records, record)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, records, 2, "one JSON line per span")

	// Children are exported before their parents finish.
	assert.Equal(t, "decode", records[0].Name)
	assert.Equal(t, "load", records[1].Name)
	assert.Equal(t, records[1].SpanID, records[0].ParentSpanID)
	assert.Equal(t, records[0].TraceID, records[1].TraceID)
	assert.EqualValues(t, 3, records[1].Attributes["sources"])
}

func TestFileExporter_EmptyBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")

	exporter, err := NewFileExporter(path)
	require.NoError(t, err)
	defer func() { _ = exporter.Shutdown(context.Background()) }()

	require.NoError(t, exporter.ExportSpans(context.Background(), nil))
}

func TestFileExporter_ShutdownIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")

	exporter, err := NewFileExporter(path)
	require.NoError(t, err)

	require.NoError(t, exporter.Shutdown(context.Background()))
	require.NoError(t, exporter.Shutdown(context.Background()))
}
