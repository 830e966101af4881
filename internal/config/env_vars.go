package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	appNameVar  = "APP_NAME"
	logLevelVar = "LOG_LEVEL"
	envVar      = "ENV"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "LMS Client")
}

func (EnvVars) GetLogLevel() string {
	return strings.ToLower(GetEnv(logLevelVar, "info"))
}

func (EnvVars) GetEnv() string {
	env := os.Getenv(envVar)
	if env == "" {
		return "DEV"
	}
	return strings.ToUpper(env)
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetBoolEnv accepts only the literal strings "true" and "false"; anything
// else yields the default.
func GetBoolEnv(envVar string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(envVar))) {
	case "true":
		return true
	case "false":
		return false
	default:
		return defaultValue
	}
}

func GetIntEnv(envVar string, defaultValue int) int {
	value, err := strconv.Atoi(strings.TrimSpace(os.Getenv(envVar)))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
