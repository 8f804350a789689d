package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophdrive/internal/client/services"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error

	List(ctx context.Context, args []string) error
	MakeDir(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	Info(ctx context.Context, args []string) error
	Rename(ctx context.Context, args []string) error
	Move(ctx context.Context, args []string) error
	MoveDir(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	RemoveDir(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = "Available commands: ls, mkdir, upload, download, info, rename, mv, mvdir, rm, rmdir, logout, exit"
)

// runREPL reads commands from reader until EOF, "exit" or "quit".
//
// Storage commands need a session; without one the user is told to login.
// A failing command prints its error and the loop carries on.
func runREPL(ctx context.Context, a execIface, statusFn func(context.Context) string, reader *bufio.Reader, w io.Writer) {
	storage := map[string]func(context.Context, []string) error{
		"ls":       a.List,
		"mkdir":    a.MakeDir,
		"upload":   a.Upload,
		"download": a.Download,
		"info":     a.Info,
		"rename":   a.Rename,
		"mv":       a.Move,
		"mvdir":    a.MoveDir,
		"rm":       a.Remove,
		"rmdir":    a.RemoveDir,
	}

	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Fprintf(w, "gd %s> ", statusFn(ctx))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
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
			if a.isLoggedIn(ctx) {
				fmt.Fprintln(w, helpLoggedIn)
			} else {
				fmt.Fprintln(w, helpLoggedOut)
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fn, ok := storage[cmd]
			if !ok {
				fmt.Fprintln(w, "Unknown command:", cmd)
				continue
			}
			if !a.isLoggedIn(ctx) {
				fmt.Fprintln(w, "Please login first")
				continue
			}
			cmdErr = fn(ctx, args)
		}

		if cmdErr != nil {
			printError(w, cmdErr)
		}
	}
}

func printError(w io.Writer, err error) {
	switch {
	case errors.Is(err, errUsage):
		fmt.Fprintln(w, strings.Replace(err.Error(), "usage: ", "Usage: ", 1))
	case errors.Is(err, services.ErrNotLoggedIn):
		fmt.Fprintln(w, "Error:", err, "(use 'login')")
	default:
		fmt.Fprintln(w, "Error:", err)
	}
}
