// Package notify is the client-wide notification sink: the place a failed
// request's user-facing message ends up (a toast in a browser, stderr in the
// CLI).
package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Notification is one user-facing message.
type Notification struct {
	Level      Level
	Message    string
	Method     string
	Path       string
	StatusCode int // 0 when no response was received
	RequestID  string
}

type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a plain function to a Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) {
	f(ctx, n)
}

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(context.Context, Notification) {})

// LogNotifier writes notifications through zerolog.
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Default logs through the global zerolog logger.
func Default() *LogNotifier {
	return NewLogNotifier(log.Logger)
}

func (l *LogNotifier) Notify(_ context.Context, n Notification) {
	var evt *zerolog.Event
	switch n.Level {
	case LevelWarning:
		evt = l.logger.Warn()
	case LevelInfo:
		evt = l.logger.Info()
	default:
		evt = l.logger.Error()
	}
	if n.Method != "" {
		evt = evt.Str("method", n.Method).Str("path", n.Path)
	}
	if n.StatusCode != 0 {
		evt = evt.Int("status", n.StatusCode)
	}
	if n.RequestID != "" {
		evt = evt.Str("request_id", n.RequestID)
	}
	evt.Msg(n.Message)
}

// Multi fans a notification out to several sinks.
func Multi(notifiers ...Notifier) Notifier {
	return NotifierFunc(func(ctx context.Context, n Notification) {
		for _, nt := range notifiers {
			nt.Notify(ctx, n)
		}
	})
}

// Recorder keeps every notification it receives.
type Recorder struct {
	lock          sync.Mutex
	notifications []Notification
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.notifications = append(r.notifications, n)
}

// Notifications returns a copy of everything recorded so far.
func (r *Recorder) Notifications() []Notification {
	r.lock.Lock()
	defer r.lock.Unlock()
	out := make([]Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

func (r *Recorder) Len() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.notifications)
}

func (r *Recorder) Reset() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.notifications = nil
}
