package events

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/specialistvlad/slidegridgo/internal/ctxlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failing struct{ err error }

func (f failing) Publish(context.Context, Event) error { return f.err }

func TestEvent_Payload(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("step event", func(t *testing.T) {
		p := Event{Type: StepFailed, ProcessID: "p", Wave: 2, StepID: "e1", Error: "boom", Time: at}.Payload()
		assert.Equal(t, map[string]any{
			"type":      "step_failed",
			"processId": "p",
			"time":      "2025-03-01T12:00:00Z",
			"wave":      2,
			"stepId":    "e1",
			"error":     "boom",
		}, p)
	})

	t.Run("wave event omits empty fields", func(t *testing.T) {
		p := Event{Type: WaveStarted, ProcessID: "p", Wave: 1, Steps: []string{"a", "b"}, Time: at}.Payload()
		assert.Equal(t, []any{"a", "b"}, p["steps"])
		assert.NotContains(t, p, "stepId")
		assert.NotContains(t, p, "error")
	})
}

func TestMulti_Publish(t *testing.T) {
	t.Parallel()

	rec := &Recorder{}
	boom := errors.New("boom")
	m := Multi{rec, nil, failing{err: boom}, Nop{}}

	err := m.Publish(context.Background(), Event{Type: RunStarted})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []Type{RunStarted}, rec.Types(), "every publisher is called even if one fails")
}

func TestLogPublisher(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	require.NoError(t, LogPublisher{}.Publish(ctx, Event{Type: StepCompleted, ProcessID: "p", Wave: 1, StepID: "c"}))
	assert.Contains(t, buf.String(), "type=step_completed")
	assert.Contains(t, buf.String(), "stepID=c")
}

func TestDialSocketIO_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := DialSocketIO(context.Background(), SocketIOConfig{URL: "localhost-without-scheme"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must include a scheme and host")
}
