package apiclient

import "strings"

// authEndpoints never trigger a refresh on 401: a failing login or refresh
// must surface, not loop.
var authEndpoints = []string{
	"/auth/login",
	"/auth/register",
	"/auth/refresh",
	"/auth/validate-token",
}

// IsAuthEndpoint reports whether path is one of the authentication endpoints.
func IsAuthEndpoint(path string) bool {
	for _, p := range authEndpoints {
		if strings.Contains(path, p) {
			return true
		}
	}
	return false
}
