package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestActionAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "rta-test", "info")

	ctx := WithRequestID(context.Background(), "req-1")
	ForContext(ctx, l).Action("order_created").Info("created", "order_id", "ORD001")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "rta-test", lines[0]["service"])
	assert.Equal(t, "order_created", lines[0]["action"])
	assert.Equal(t, "req-1", lines[0]["request_id"])
	assert.Equal(t, "ORD001", lines[0]["order_id"])
	assert.Equal(t, "INFO", lines[0]["level"])
}

func TestErrorAddsMessage(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "rta-test", "info")

	l.Error("failed", errors.New("boom"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "boom", lines[0]["error"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "rta-test", "warn")

	l.Info("hidden")
	l.Debug("hidden")
	l.Warn("shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["msg"])
}

func TestRequestIDMissing(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
}
