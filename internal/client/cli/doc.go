// Package cli provides the interactive gophfeed command-line client.
//
// It wires configuration, the REST client and the session/feed services into
// a REPL. A token saved by an earlier login is restored on start.
//
// Key features:
//   - signup / login / logout
//   - status / setstatus
//   - posts [page], show <id>, post, edit <id>, delete <id>
//   - watch / unwatch: print post changes pushed over the socket
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
