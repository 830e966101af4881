package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/NMHx2005/lms-frontend-sub000/internal/config"
	"github.com/NMHx2005/lms-frontend-sub000/session"
	"github.com/NMHx2005/lms-frontend-sub000/session/sqlstore"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
)

func noopClose() error { return nil }

// openStore builds the session store named by LMS_SESSION_STORE. The
// returned func releases whatever the store holds open.
func openStore(ctx context.Context, c config.SessionConfig) (session.Store, func() error, error) {
	switch kind := c.GetSessionStore(); kind {
	case "memory":
		return session.NewMemoryStore(), noopClose, nil

	case "file":
		path := c.GetSessionFile()
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, nil, fmt.Errorf("create session directory: %w", err)
		}
		var opts []session.FileStoreOption
		if p := c.GetSessionPassphrase(); p != "" {
			opts = append(opts, session.WithPassphrase(p))
		}
		log.Debug().Str("path", path).Bool("sealed", len(opts) > 0).Msg("using file session store")
		return session.NewFileStore(path, opts...), noopClose, nil

	case "postgres":
		dsn := c.GetDatabaseURL()
		if dsn == "" {
			return nil, nil, fmt.Errorf("LMS_SESSION_STORE=postgres needs DATABASE_URL")
		}
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("sql.Open: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("db.Ping: %w", err)
		}
		store := sqlstore.New(db, c.GetSessionProfile())
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Debug().Str("profile", c.GetSessionProfile()).Msg("using postgres session store")
		return store, db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown session store %q", kind)
	}
}
