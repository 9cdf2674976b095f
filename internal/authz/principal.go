package authz

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// PrincipalType defines authorization principal types.
type PrincipalType int

const (
	// PrincipalTypeUnknown unknown principal type.
	PrincipalTypeUnknown PrincipalType = iota
	// PrincipalTypeSystem system principal (background tasks, internal operations).
	PrincipalTypeSystem
	// PrincipalTypeUser user principal.
	PrincipalTypeUser
	// PrincipalTypeAPIKey API Key principal.
	PrincipalTypeAPIKey
	// PrincipalTypeTest test principal (only for test environment).
	PrincipalTypeTest
)

// String returns string representation of PrincipalType.
func (p PrincipalType) String() string {
	switch p {
	case PrincipalTypeSystem:
		return "system"
	case PrincipalTypeUser:
		return "user"
	case PrincipalTypeAPIKey:
		return "apikey"
	case PrincipalTypeTest:
		return "test"
	default:
		return "unknown"
	}
}

// Principal represents the authorization principal of a request.
// Each request can only have one Principal, guaranteed by WithPrincipal's
// set-once semantics.
type Principal struct {
	Type     PrincipalType
	UserID   *uuid.UUID
	APIKeyID *uuid.UUID
}

// IsSystem checks if it is a system principal.
func (p Principal) IsSystem() bool {
	return p.Type == PrincipalTypeSystem
}

// IsUser checks if it is a user principal.
func (p Principal) IsUser() bool {
	return p.Type == PrincipalTypeUser
}

// IsAPIKey checks if it is an API Key principal.
func (p Principal) IsAPIKey() bool {
	return p.Type == PrincipalTypeAPIKey
}

// IsTest checks if it is a test principal.
func (p Principal) IsTest() bool {
	return p.Type == PrincipalTypeTest
}

// String returns string representation of Principal (for audit logs).
func (p Principal) String() string {
	switch p.Type {
	case PrincipalTypeUser:
		if p.UserID != nil {
			return fmt.Sprintf("user:%s", *p.UserID)
		}

		return "user:unknown"
	case PrincipalTypeAPIKey:
		if p.APIKeyID != nil {
			return fmt.Sprintf("apikey:%s", *p.APIKeyID)
		}

		return "apikey:unknown"
	default:
		return p.Type.String()
	}
}

// principalKey is an unexported key type to prevent external forgery.
type principalKey struct{}

// WithPrincipal sets the Principal, returns an error if one already exists.
func WithPrincipal(ctx context.Context, p Principal) (context.Context, error) {
	if _, ok := GetPrincipal(ctx); ok {
		return ctx, fmt.Errorf("authz: principal already set")
	}

	return context.WithValue(ctx, principalKey{}, p), nil
}

// MustWithPrincipal sets the Principal, panicking if one already exists.
// Only for request entry points that own the context.
func MustWithPrincipal(ctx context.Context, p Principal) context.Context {
	ctx, err := WithPrincipal(ctx, p)
	if err != nil {
		panic(err)
	}

	return ctx
}

// GetPrincipal retrieves the Principal from the context.
func GetPrincipal(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
