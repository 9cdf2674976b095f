// Package objects contains the domain entities shared by the store, authz
// and biz layers. To avoid circular dependencies, we put them here.
package objects

// Error is the wire representation of a single error.
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ErrorResponse is the wire envelope for error replies.
type ErrorResponse struct {
	Error Error `json:"error"`
}
