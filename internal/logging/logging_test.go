package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, time.UTC).With("database")

	l.Log(map[string]any{"event": "db_migration_step", "status": "success"})
	l.Log(map[string]any{"event": "db_migration_failed", "status": "error"})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "database", lines[0]["component"])
	assert.NotEmpty(t, lines[0]["ts"])
	assert.Equal(t, "error", lines[1]["level"])
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, nil)

	l.Info("started", nil)
	l.Warn("slow", map[string]any{"ms": 1200})
	l.Error("upload_failed", errors.New("bucket gone"), map[string]any{"key": "a/b.pdf"})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "started", lines[0]["event"])
	assert.Equal(t, "warn", lines[1]["level"])
	assert.Equal(t, float64(1200), lines[1]["ms"])
	assert.Equal(t, "error", lines[2]["level"])
	assert.Equal(t, "bucket gone", lines[2]["error_message"])
	assert.Equal(t, "a/b.pdf", lines[2]["key"])
}

func TestLogger_ErrorValuesAreStringified(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, time.UTC).Log(map[string]any{"cause": errors.New("boom")})

	lines := decodeLines(t, &buf)
	assert.Equal(t, "boom", lines[0]["cause"])
}
