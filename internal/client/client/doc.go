// Package client talks to the remote authority on behalf of the sync engine.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface): Call replays
//     one queued mutation, Query performs a cacheable read, Ping checks
//     reachability.
//  2. A gRPC implementation (see GRPCClient) for the
//     cogniflash.sync.v1.SyncService, attaching the bearer credential via a
//     unary interceptor.
//  3. An HTTP implementation (see HTTPClient) for the REST API of the
//     study backend.
//
// # Error Handling
//
// Failures are returned as *RemoteError. Transport problems and timeouts
// wrap ErrUnavailable, rejected credentials wrap ErrUnauthorized; both can
// be matched with errors.Is. RemoteError.Permanent marks failures that a
// retry cannot fix (malformed payload, unknown entity).
//
// Every call without a deadline gets the client's default request timeout.
package client
