// Package cli provides the interactive RetroMarket command-line client.
//
// It wires configuration, local storage, the accounts API client, and an
// interactive REPL. Typical flow: restore the session on startup, then
// execute user commands.
//
// Key features:
//   - Login (with the two-factor follow-up), Register, Logout
//   - Profile display backed by the single-slot profile cache
//   - Two-factor enrollment: setup, verify, disable, recovery codes
//   - The "sell" command, gated on verified email and CPF
//
// The REPL is started via App.Root(ctx), which blocks until the user
// exits. See App and runREPL for details.
package cli
