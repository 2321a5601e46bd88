package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	SetStatus(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Post(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Watch(ctx context.Context) error
	Unwatch(ctx context.Context) error
}

var errUsage = errors.New("usage")

// runREPL reads one command per line from reader and dispatches it to a.
// The loop exits on EOF or when the user types "exit" or "quit". Command
// errors are printed and the loop continues.
//
//	Not logged in: help, signup, login, exit
//	Logged in:     help, posts [page], show <id>, post, edit <id>,
//	               delete <id>, status, setstatus, watch, unwatch,
//	               logout, exit
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("gf %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
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
				printlnFn("Available commands: posts [page], show <id>, post, edit <id>, delete <id>, status, setstatus, watch, unwatch, logout, exit")
			} else {
				printlnFn("Available commands: signup, login, exit")
			}
		case "signup", "register":
			cmdErr = a.Signup(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "status":
			cmdErr = a.Status(ctx)
		case "setstatus":
			cmdErr = a.SetStatus(ctx)
		case "l", "list", "posts":
			cmdErr = a.List(ctx, args)
		case "show":
			cmdErr = a.Show(ctx, args)
		case "post", "new":
			cmdErr = a.Post(ctx)
		case "edit":
			cmdErr = a.Edit(ctx, args)
		case "delete", "rm":
			cmdErr = a.Delete(ctx, args)
		case "watch":
			cmdErr = a.Watch(ctx)
		case "unwatch":
			cmdErr = a.Unwatch(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		switch {
		case cmdErr == nil:
		case errors.Is(cmdErr, errUsage):
			printlnFn(cmdErr.Error())
		default:
			printlnFn("Error:", cmdErr)
		}
	}
}

func usage(s string) error {
	return fmt.Errorf("%w: %s", errUsage, s)
}
