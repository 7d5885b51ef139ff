package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/pinvault/internal/client/session"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	state() session.State
	Setup(ctx context.Context) error
	Login(ctx context.Context) error
	Lock(ctx context.Context) error
	Background(ctx context.Context) error
	Foreground(ctx context.Context) error
	ChangePIN(ctx context.Context) error
	Reset(ctx context.Context) error
	Import(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Info(ctx context.Context) error
}

var commandsByState = map[session.State][]string{
	session.NoCredential: {"setup"},
	session.Locked:       {"login", "reset"},
	session.Unlocked: {
		"import", "list", "show", "delete", "info",
		"lock", "background", "foreground", "passwd", "reset",
	},
}

func available(st session.State, cmd string) bool {
	for _, c := range commandsByState[st] {
		if c == cmd {
			return true
		}
	}
	return false
}

func helpText(st session.State) string {
	cmds := append([]string{}, commandsByState[st]...)
	cmds = append(cmds, "help", "exit")
	return "Available commands: " + strings.Join(cmds, ", ")
}

// runREPL starts a simple read-eval-print loop for the PinVault CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The commands accepted depend on the session
// state:
//
//	No PIN:
//	  - setup                         create the PIN
//	Locked:
//	  - login                         unlock with the PIN
//	  - reset                         remove the PIN (asks for it first)
//	Unlocked:
//	  - import <path>...              copy files into the vault
//	  - list [category] [term]        list files, optionally filtered
//	  - show <id>                     show one file and its storage state
//	  - delete <id>                   delete a file
//	  - info                          storage usage and per-category counts
//	  - lock                          lock the vault
//	  - background | foreground       simulate the host lifecycle
//	  - passwd                        change the PIN
//	  - reset                         remove the PIN
//	Always:
//	  - help, exit | quit
//
// Handler errors are printed and the loop continues. The loop exits on EOF
// or on "exit"/"quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("pv (%s)> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]
		st := a.state()

		switch cmd {
		case "help":
			printlnFn(helpText(st))
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if !available(st, cmd) {
			if _, known := commandIndex[cmd]; known {
				printlnFn(fmt.Sprintf("Command %q is not available while %s", cmd, st))
			} else {
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		if err := dispatch(ctx, a, cmd, args); err != nil {
			printlnFn("Error:", err)
		}
	}
}

var commandIndex = func() map[string]struct{} {
	m := map[string]struct{}{}
	for _, cmds := range commandsByState {
		for _, c := range cmds {
			m[c] = struct{}{}
		}
	}
	return m
}()

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "setup":
		return a.Setup(ctx)
	case "login":
		return a.Login(ctx)
	case "lock":
		return a.Lock(ctx)
	case "background":
		return a.Background(ctx)
	case "foreground":
		return a.Foreground(ctx)
	case "passwd":
		return a.ChangePIN(ctx)
	case "reset":
		return a.Reset(ctx)
	case "import":
		return a.Import(ctx, args)
	case "list":
		return a.List(ctx, args)
	case "show":
		return a.Show(ctx, args)
	case "delete":
		return a.Delete(ctx, args)
	case "info":
		return a.Info(ctx)
	}
	return fmt.Errorf("unhandled command %q", cmd)
}
