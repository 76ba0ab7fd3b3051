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

// execIface defines the command surface the REPL dispatches to. The real App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Analyze(ctx context.Context) error
	Upload(ctx context.Context, path string) error
	History(ctx context.Context) error
	Show(ctx context.Context, id string) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// It returns on EOF, on "exit" or "quit", or when ctx is cancelled between
// commands.
//
//	Not signed in:  help, login, exit
//	Signed in:      help, status, analyze, upload <path>, history, show <id>, logout, exit
//
// Handler errors are reported to the user and never end the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("resumeai %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
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
				printlnFn("Available commands: status, analyze, upload <path>, history, show <id>, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "status":
			cmdErr = a.Status(ctx)

		case "analyze":
			cmdErr = a.Analyze(ctx)

		case "upload":
			if len(args) == 0 {
				printlnFn("Usage: upload <path-to-pdf>")
				continue
			}
			cmdErr = a.Upload(ctx, strings.Join(args, " "))

		case "history", "list":
			cmdErr = a.History(ctx)

		case "show":
			if len(args) == 0 {
				printlnFn("Usage: show <analysis-id>")
				continue
			}
			cmdErr = a.Show(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", describeError(cmdErr))
		}
	}
}
