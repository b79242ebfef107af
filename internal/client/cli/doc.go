// Package cli provides the interactive café catalog command-line client.
//
// It wires configuration, the local token database, the REST client and the
// two state managers (session and product collection), and runs a REPL on
// top of them. Typical flow: restore the stored session, load the products
// when signed in, then execute user commands.
//
// Key features:
//   - Register / Login / Logout, with the session error kept until dismissed
//   - List / Show products, Add / Edit with category selection
//   - Delete and image Upload, reported as one-shot alerts on failure
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
