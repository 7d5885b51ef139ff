// Package cli provides the interactive PinVault command-line client.
//
// It wires configuration, the state store, the session state machine, the
// catalog and the importer, and runs a REPL whose command set follows the
// session state. Typical flow: set up or enter the PIN, import files, list
// and inspect them, lock when done.
//
// Key features:
//   - PIN setup, login, change and reset
//   - Explicit lock and simulated host backgrounding (auto-lock)
//   - Import local files, list/search/filter, show, delete
//   - Storage usage summary
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
