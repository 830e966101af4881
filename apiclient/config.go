package apiclient

import (
	"strings"
	"time"

	"github.com/NMHx2005/lms-frontend-sub000/internal/config"
)

// Config holds the recognised client options. Start from DefaultConfig or
// ConfigFrom: the zero value has UseBearerAuth switched off.
type Config struct {
	BaseOrigin      string        // Network origin, e.g. "https://lms.example.com"
	APIPrefix       string        // Path prefix appended to BaseOrigin, e.g. "/api"
	Timeout         time.Duration // Per request, including reading the body
	WithCredentials bool          // Cookies carry the session; disables bearer injection
	UseBearerAuth   bool          // Attach "Authorization: Bearer <access token>"
	RefreshPath     string        // Exchanges a refresh token for a new access token
	CoalesceRefresh bool          // Share one refresh call between concurrent 401s
}

func DefaultConfig() Config {
	return Config{
		BaseOrigin:    config.DefaultAPIURL,
		APIPrefix:     config.DefaultAPIPrefix,
		Timeout:       config.DefaultAPITimeout,
		UseBearerAuth: true,
		RefreshPath:   config.DefaultRefreshPath,
	}
}

// ConfigFrom reads the client options from the environment-backed config.
func ConfigFrom(c config.APIConfig) Config {
	return Config{
		BaseOrigin:      c.GetAPIURL(),
		APIPrefix:       c.GetAPIPrefix(),
		Timeout:         c.GetAPITimeout(),
		WithCredentials: c.GetWithCredentials(),
		UseBearerAuth:   c.GetUseBearer(),
		RefreshPath:     c.GetRefreshPath(),
		CoalesceRefresh: c.GetCoalesceRefresh(),
	}.Normalize()
}

// Normalize fills empty fields with defaults and enforces that cookie
// credentials and bearer injection are mutually exclusive.
func (c Config) Normalize() Config {
	if c.BaseOrigin == "" {
		c.BaseOrigin = config.DefaultAPIURL
	}
	c.BaseOrigin = strings.TrimRight(c.BaseOrigin, "/")

	switch c.APIPrefix {
	case "":
		c.APIPrefix = config.DefaultAPIPrefix
	case "/":
		c.APIPrefix = ""
	default:
		c.APIPrefix = "/" + strings.Trim(c.APIPrefix, "/")
	}

	if c.Timeout <= 0 {
		c.Timeout = config.DefaultAPITimeout
	}
	if c.RefreshPath == "" {
		c.RefreshPath = config.DefaultRefreshPath
	}
	if !strings.HasPrefix(c.RefreshPath, "/") {
		c.RefreshPath = "/" + c.RefreshPath
	}
	if c.WithCredentials {
		c.UseBearerAuth = false
	}
	return c
}

// BaseURL is the origin plus prefix that every request path is relative to.
func (c Config) BaseURL() string {
	return c.BaseOrigin + c.APIPrefix
}
