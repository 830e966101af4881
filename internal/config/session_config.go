package config

import (
	"os"
	"path/filepath"
)

const (
	sessionStoreVar      = "LMS_SESSION_STORE"
	sessionFileVar       = "LMS_SESSION_FILE"
	sessionPassphraseVar = "LMS_SESSION_PASSPHRASE"
	sessionProfileVar    = "LMS_SESSION_PROFILE"
	databaseURLVar       = "DATABASE_URL"
)

type SessionConfig interface {
	GetSessionStore() string
	GetSessionFile() string
	GetSessionPassphrase() string
	GetSessionProfile() string
	GetDatabaseURL() string
}

type Session struct{}

var _ SessionConfig = Session{}

// GetSessionStore returns one of "file", "memory" or "postgres".
func (Session) GetSessionStore() string {
	return GetEnv(sessionStoreVar, "file")
}

func (Session) GetSessionFile() string {
	if f := os.Getenv(sessionFileVar); f != "" {
		return f
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".lms-session.yaml"
	}
	return filepath.Join(dir, "lms", "session.yaml")
}

func (Session) GetSessionPassphrase() string {
	return os.Getenv(sessionPassphraseVar)
}

func (Session) GetSessionProfile() string {
	return GetEnv(sessionProfileVar, "default")
}

func (Session) GetDatabaseURL() string {
	return os.Getenv(databaseURLVar)
}
