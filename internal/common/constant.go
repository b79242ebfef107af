// Package common contains shared constants used across the client packages.
package common

const (
	// TokenHeaderName is the HTTP header carrying the session token on
	// outbound API requests.
	TokenHeaderName = "x-token"

	// RequestIDHeaderName tags each outbound request for log correlation.
	RequestIDHeaderName = "X-Request-Id"

	// TokenStorageKey is the metadata key under which the token is persisted.
	TokenStorageKey = "token"

	// DefaultPageSize is the listing limit used when none is given.
	DefaultPageSize = 50

	// ImageFieldName is the multipart field of product image uploads.
	ImageFieldName = "archivo"
)
