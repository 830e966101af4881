package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/NMHx2005/lms-frontend-sub000/apiclient"
	"github.com/NMHx2005/lms-frontend-sub000/internal/config"
	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			if err != errUsage {
				fmt.Fprintln(os.Stderr, err)
			}
			os.Exit(2)
		}
		// API failures have already been shown by the notifier
		var apiErr *apiclient.Error
		if !errors.As(err, &apiErr) {
			fmt.Fprintln(os.Stderr, err)
		}
		log.Debug().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func run(args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("Recovered from panic: %v", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}
	setupLogging(c)
	if c.GetEnv() == "DEV" {
		displayAppname(os.Stderr, c.GetAppName())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, c)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Error().Err(err).Msg("closing session store")
		}
	}()

	opts := []apiclient.Option{apiclient.WithNotifier(toastNotifier(os.Stderr))}
	if c.GetEnv() == "DEV" {
		opts = append(opts, apiclient.WithMiddleware(traceMiddleware(os.Stderr)))
	}
	client, err := apiclient.New(apiclient.ConfigFrom(c), store, opts...)
	if err != nil {
		return fmt.Errorf("apiclient.New: %w", err)
	}

	a := &app{
		cfg:    c,
		client: client,
		store:  store,
		out:    os.Stdout,
	}
	return a.dispatch(ctx, args)
}

func setupLogging(c config.EnvConfig) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var w io.Writer = os.Stderr
	if c.GetEnv() == "DEV" {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Str("app", strings.ToLower(c.GetAppName())).Logger()
}

func displayAppname(w io.Writer, appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	fmt.Fprintln(w, myFigure.String())
}
