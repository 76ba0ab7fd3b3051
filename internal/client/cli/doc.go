// Package cli provides the interactive resumeai command-line client.
//
// It wires configuration, the local session database, the HTTP transport and
// an interactive REPL. On start it restores a saved session and launches a
// background connectivity watcher.
//
// Commands:
//   - login / logout (passwordless: emailed link token or 6-digit code)
//   - status: refresh usage from the backend
//   - analyze: paste resume text; upload <path>: submit a PDF
//   - history / show <id>: browse past analyses
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
