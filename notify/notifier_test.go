package notify_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/NMHx2005/lms-frontend-sub000/notify"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewLogNotifier(zerolog.New(&buf))

	n.Notify(context.Background(), notify.Notification{
		Level:      notify.LevelError,
		Message:    "email: invalid",
		Method:     "POST",
		Path:       "/auth/register",
		StatusCode: 422,
		RequestID:  "req-1",
	})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "error", line["level"])
	require.Equal(t, "email: invalid", line["message"])
	require.Equal(t, "POST", line["method"])
	require.Equal(t, "/auth/register", line["path"])
	require.EqualValues(t, 422, line["status"])
	require.Equal(t, "req-1", line["request_id"])
}

func TestLogNotifierWarningWithoutResponse(t *testing.T) {
	var buf bytes.Buffer
	notify.NewLogNotifier(zerolog.New(&buf)).Notify(context.Background(), notify.Notification{
		Level:   notify.LevelWarning,
		Message: "Network error. Please check your connection.",
	})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "warn", line["level"])
	require.NotContains(t, line, "status")
}

func TestMultiAndRecorder(t *testing.T) {
	a, b := notify.NewRecorder(), notify.NewRecorder()
	var called int
	m := notify.Multi(a, b, notify.Discard, notify.NotifierFunc(func(context.Context, notify.Notification) { called++ }))

	m.Notify(context.Background(), notify.Notification{Message: "one"})
	m.Notify(context.Background(), notify.Notification{Message: "two"})

	require.Equal(t, 2, a.Len())
	require.Equal(t, 2, b.Len())
	require.Equal(t, 2, called)
	require.Equal(t, "two", a.Notifications()[1].Message)

	a.Reset()
	require.Zero(t, a.Len())
}
