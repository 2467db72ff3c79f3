// Package client contains client-side building blocks for RetroMarket.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) to talk
//     to the RetroMarket accounts backend: Login/Register, Profile (which
//     doubles as the session-liveness probe), Logout, and the multiplexed
//     two-factor-authentication endpoint.
//  2. A concrete HTTP implementation (see HTTPClient) that manages a
//     cookie jar, attaches the bearer token and a per-request id, and maps
//     HTTP failures to the sentinel errors in internal/common.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations)
//     for the CLI, wiring an SQLite database and applying embedded goose
//     migrations.
//
// # Error Handling
//
// Every failure is classified into one of the sentinel errors defined in
// internal/common; callers match with errors.Is and never see raw HTTP
// status codes.
//
// Concurrency & Contexts
//
// The client is driven by a single interactive session. All operations
// accept context.Context and must honor cancellation/timeouts.
package client
