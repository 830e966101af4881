package config

import "time"

const (
	apiURLVar          = "VITE_API_URL"
	apiPrefixVar       = "VITE_API_PREFIX"
	apiTimeoutVar      = "VITE_API_TIMEOUT"
	withCredentialsVar = "VITE_API_WITH_CREDENTIALS"
	useBearerVar       = "VITE_API_USE_BEARER"
	refreshPathVar     = "VITE_API_REFRESH_PATH"
	coalesceRefreshVar = "LMS_API_COALESCE_REFRESH"

	DefaultAPIURL      = "http://localhost:5000"
	DefaultAPIPrefix   = "/api"
	DefaultAPITimeout  = 15000 * time.Millisecond
	DefaultRefreshPath = "/auth/refresh"
)

type APIConfig interface {
	GetAPIURL() string
	GetAPIPrefix() string
	GetAPITimeout() time.Duration
	GetWithCredentials() bool
	GetUseBearer() bool
	GetRefreshPath() string
	GetCoalesceRefresh() bool
}

type API struct{}

var _ APIConfig = API{}

func (API) GetAPIURL() string {
	return GetEnv(apiURLVar, DefaultAPIURL)
}

func (API) GetAPIPrefix() string {
	return GetEnv(apiPrefixVar, DefaultAPIPrefix)
}

// GetAPITimeout reads VITE_API_TIMEOUT as milliseconds.
func (API) GetAPITimeout() time.Duration {
	ms := GetIntEnv(apiTimeoutVar, int(DefaultAPITimeout/time.Millisecond))
	return time.Duration(ms) * time.Millisecond
}

func (API) GetWithCredentials() bool {
	return GetBoolEnv(withCredentialsVar, false)
}

// GetUseBearer is always false when cookies carry the credentials.
func (a API) GetUseBearer() bool {
	if a.GetWithCredentials() {
		return false
	}
	return GetBoolEnv(useBearerVar, true)
}

func (API) GetRefreshPath() string {
	return GetEnv(refreshPathVar, DefaultRefreshPath)
}

func (API) GetCoalesceRefresh() bool {
	return GetBoolEnv(coalesceRefreshVar, false)
}
