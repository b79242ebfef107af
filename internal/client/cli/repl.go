package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Dismiss(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	Categories(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the catalog CLI.
//
// It reads a line from r, writes the prompt and its own messages to w, parses the first token as the command and the rest
// as arguments, and dispatches to methods on 'a'. Unknown commands are
// reported back to the user. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Always:
//	  - help                show available commands
//	  - status              show the session
//	  - dismiss             clear the session error
//	  - exit | quit         leave the program
//
//	Not logged in:
//	  - register            create an account
//	  - login               authenticate
//
//	Logged in:
//	  - l | list            reload and list products
//	  - show [id]           show a single product
//	  - add                 create a product
//	  - edit [id]           change name and category
//	  - delete [id]         delete a product
//	  - upload [id] [path]  attach an image
//	  - categories          list categories
//	  - logout              log out
//
// Command handlers print their own results; errors they return are ignored
// here so one failed command never ends the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "cafe %s> ", statusFn())
		line, err := r.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: (l)ist, show, add, edit, delete, upload, categories, status, dismiss, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, login, status, dismiss, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "status":
			_ = a.Status(ctx)

		case "dismiss":
			_ = a.Dismiss(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		case "l", "list", "show", "add", "edit", "delete", "upload", "categories", "logout":
			if !a.isLoggedIn() {
				fmt.Fprintln(w, "Please login first")
				continue
			}
			dispatchCatalog(ctx, a, cmd, args)

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}

func dispatchCatalog(ctx context.Context, a execIface, cmd string, args []string) {
	switch cmd {
	case "l", "list":
		_ = a.List(ctx)
	case "show":
		_ = a.Show(ctx, args)
	case "add":
		_ = a.Add(ctx)
	case "edit":
		_ = a.Edit(ctx, args)
	case "delete":
		_ = a.Delete(ctx, args)
	case "upload":
		_ = a.Upload(ctx, args)
	case "categories":
		_ = a.Categories(ctx)
	case "logout":
		_ = a.Logout(ctx)
	}
}
