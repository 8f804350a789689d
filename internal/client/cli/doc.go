// Package cli provides the interactive gophdrive command-line client.
//
// It wires configuration, the local session database, the HTTP API client
// and a REPL. A login is remembered between runs until the token expires,
// the server rejects it, or the user logs out.
//
// Commands:
//   - register, login, logout
//   - ls [folder-id]
//   - mkdir [name] [parent-id]
//   - upload [local-path] [parent-id]
//   - download <file-id>, info <file-id>
//   - rename file|folder <id> [new name]
//   - mv <file-id> <folder-id|root>, mvdir <folder-id> <folder-id|root>
//   - rm <file-id>, rmdir <folder-id>
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
