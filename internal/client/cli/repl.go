package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	Update(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	Notes(ctx context.Context, args []string) error
	AddNote(ctx context.Context, args []string) error
	RemoveNote(ctx context.Context, args []string) error
	Ducks(ctx context.Context, args []string) error
	Favorite(ctx context.Context, args []string) error
	Favorites(ctx context.Context) error
}

const (
	helpGuest = "Available commands: register, login, ducks <query>, help, exit"
	helpUser  = "Available commands: me, update, delete, notes [mine], addnote [private], rmnote <id>, ducks <query>, fav <id>, favs, logout, help, exit"
)

// runREPL reads one command per line from reader and dispatches it to a.
// The loop exits on EOF, on context cancellation or when the user types
// "exit" or "quit". Handler errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(w, "nk%s> ", statusFn())

		line, err := readLine(reader)
		if err != nil {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, helpUser)
			} else {
				fmt.Fprintln(w, helpGuest)
			}
		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "me":
			cmdErr = a.Me(ctx)
		case "update":
			cmdErr = a.Update(ctx)
		case "delete":
			cmdErr = a.DeleteAccount(ctx)
		case "notes":
			cmdErr = a.Notes(ctx, args)
		case "addnote":
			cmdErr = a.AddNote(ctx, args)
		case "rmnote":
			cmdErr = a.RemoveNote(ctx, args)
		case "ducks":
			cmdErr = a.Ducks(ctx, args)
		case "fav":
			cmdErr = a.Favorite(ctx, args)
		case "favs":
			cmdErr = a.Favorites(ctx)
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(w, "Error:", cmdErr)
		}
	}
}
