// Package common contains shared constants and sentinel errors used across
// notekeeper components.
package common

import "time"

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// AuthorizationHeaderName and BearerPrefix describe the HTTP auth header.
const (
	AuthorizationHeaderName = "Authorization"
	BearerPrefix            = "Bearer "
)

// DefaultTokenValidity is the lifetime of a session token when nothing else is configured.
const DefaultTokenValidity = time.Hour
