// Package app provides application bootstrap and lifecycle management for
// lurker.
//
// # Bootstrap
//
// NewApplication performs the startup sequence:
//
//  1. Initializes package-level logging at Info (Debug with --debug)
//  2. Loads config.yaml from the configuration directory, unless a loaded
//     configuration is already present in Config
//  3. Applies command line overrides and validates the result
//  4. Re-initializes logging with the configured verbosity and format
//  5. Creates the Lurker and, if enabled, the trust file watcher
//
// # Running
//
// Run starts two goroutines under an errgroup:
//
//   - the controlling loop, which configures the Lurker, initiates login and
//     then calls AwaitLogOut with a short timeout until the session ends or
//     the context is cancelled, finishing with InitiateLogOut and a bounded
//     final wait
//   - the trust file watcher, which reports changes to the root CA
//     certificates file until the controlling loop finishes
//
// Signal handling belongs to the caller: cmd cancels the context on SIGINT
// or SIGTERM.
package app
