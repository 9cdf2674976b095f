package middleware

import (
	"errors"
	"net/http"
	"strings"
)

// CredentialConfig configures where a bearer credential is read from.
type CredentialConfig struct {
	// Headers lists header names to check, in priority order.
	Headers []string
	// RequireBearer enforces the Bearer prefix on the Authorization header.
	RequireBearer bool
	// AllowedPrefixes lists accepted value prefixes ("Bearer ", "Token ").
	AllowedPrefixes []string
}

var DefaultCredentialConfig = &CredentialConfig{
	Headers:         []string{"Authorization", "X-API-Key", "X-Api-Key", "API-Key", "Api-Key"},
	RequireBearer:   false,
	AllowedPrefixes: []string{"Bearer ", "Token ", "Api-Key ", "API-Key "},
}

// ExtractCredential pulls a bearer credential out of the request headers.
func ExtractCredential(r *http.Request, config *CredentialConfig) (string, error) {
	if config == nil {
		config = DefaultCredentialConfig
	}

	var lastError error

	for _, headerName := range config.Headers {
		headerValue := r.Header.Get(headerName)
		if headerValue == "" {
			continue
		}

		if strings.EqualFold(headerName, "authorization") && config.RequireBearer {
			if !strings.HasPrefix(headerValue, "Bearer ") {
				lastError = errors.New("Authorization header must start with 'Bearer '")
				continue
			}

			credential := strings.TrimPrefix(headerValue, "Bearer ")
			if credential == "" {
				lastError = errors.New("credential is required")
				continue
			}

			return credential, nil
		}

		credential := headerValue

		for _, prefix := range config.AllowedPrefixes {
			if strings.HasPrefix(headerValue, prefix) {
				credential = strings.TrimPrefix(headerValue, prefix)
				break
			}
		}

		if strings.TrimSpace(credential) == "" {
			lastError = errors.New("credential is required")
			continue
		}

		return strings.TrimSpace(credential), nil
	}

	if lastError != nil {
		return "", lastError
	}

	return "", errors.New("credential not found in any of the supported headers")
}
