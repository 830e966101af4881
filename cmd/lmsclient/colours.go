package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/NMHx2005/lms-frontend-sub000/apiclient"
	"github.com/NMHx2005/lms-frontend-sub000/notify"
)

const (
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	Gray    = "\033[90m" // Bright black, often appears as gray

	ResetColor = "\033[0m" // Reset to default color
)

var methodColors = map[string]string{
	"GET":    Green,
	"POST":   Blue,
	"PUT":    Cyan,
	"DELETE": Yellow,
	"PATCH":  Magenta,
}

func statusColor(code int) string {
	switch {
	case code >= 500:
		return Red
	case code >= 400:
		return Yellow
	case code >= 200 && code < 300:
		return Green
	}
	return Gray
}

func colouredMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}

// traceMiddleware prints each round trip in colour, for development.
func traceMiddleware(w io.Writer) apiclient.Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return apiclient.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)
			elapsed := time.Since(start).Round(time.Millisecond)
			if err != nil {
				fmt.Fprintf(w, "[%-19s] %s %s%v%s\n", colouredMethod(r.Method), r.URL.Path, Red, err, ResetColor)
				return resp, err
			}
			fmt.Fprintf(w, "[%-19s] %s %s%d%s %s\n", colouredMethod(r.Method), r.URL.Path,
				statusColor(resp.StatusCode), resp.StatusCode, ResetColor, elapsed)
			return resp, nil
		})
	}
}

var levelColors = map[notify.Level]string{
	notify.LevelError:   Red,
	notify.LevelWarning: Yellow,
	notify.LevelInfo:    Cyan,
}

// toastNotifier prints notifications as single coloured lines.
func toastNotifier(w io.Writer) notify.Notifier {
	return notify.NotifierFunc(func(_ context.Context, n notify.Notification) {
		color, ok := levelColors[n.Level]
		if !ok {
			color = Gray
		}
		fmt.Fprintf(w, "%s%s%s\n", color, n.Message, ResetColor)
	})
}
