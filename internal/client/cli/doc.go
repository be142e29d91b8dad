// Package cli provides the interactive notekeeper command-line client.
//
// It wires configuration, the HTTP API client and a REPL. The session
// obtained at login is held by the App and passed explicitly to every
// authenticated API call; logout simply drops it.
//
// Commands:
//   - register / login / logout
//   - me / update / delete (account)
//   - notes [mine] / addnote [private] / rmnote <id>
//   - ducks <query> / fav <id> / favs
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
