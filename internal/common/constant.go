// Package common contains constants and sentinel errors shared by the sync
// client and the dev server.
package common

// AuthorizationHeaderName is the gRPC metadata key / HTTP header carrying
// the bearer credential on outbound requests.
const AuthorizationHeaderName = "authorization"

// BearerPrefix precedes the token in AuthorizationHeaderName values.
const BearerPrefix = "Bearer "

// PingStatusOK is the status string returned by a healthy remote.
const PingStatusOK = "OK"
