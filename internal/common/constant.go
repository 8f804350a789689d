// Package common contains shared constants and sentinel errors used across
// GophDrive components.
package common

const (
	// AuthorizationHeaderName carries the bearer credential on HTTP requests.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the only authorization scheme the server accepts.
	BearerScheme = "Bearer"

	// RequestIDHeaderName is echoed back on every HTTP response.
	RequestIDHeaderName = "X-Request-ID"

	// DefaultMimeType is used when a file name has no recognizable extension.
	DefaultMimeType = "application/octet-stream"
)
