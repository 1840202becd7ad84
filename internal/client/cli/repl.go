package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Profile(ctx context.Context) error
	Go(ctx context.Context, path string) error
	Upload(ctx context.Context, path string) error
	Classify(ctx context.Context) error
	Schemes(ctx context.Context) error
	LegalAid(ctx context.Context) error
	Draft(ctx context.Context) error
	Chat(ctx context.Context) error
	Learn(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for the Legal Saathi CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF, when ctx is done, or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Always:
//	  - help             show available commands
//	  - go <path>        open a view: /, /auth, /dashboard, /upload
//	  - learn [...]      legal education topics
//	  - exit | quit      leave the program
//
//	Not logged in:
//	  - login            authenticate
//	  - signup           create an account
//
//	Logged in:
//	  - whoami           show the session user and token expiry
//	  - profile          refresh the profile from the server
//	  - upload <file>    analyze a document
//	  - classify         classify a problem description
//	  - schemes          match government schemes
//	  - legalaid         find legal aid offices
//	  - draft            generate a complaint draft
//	  - chat             talk to the legal chatbot
//	  - logout           log out
//
// Errors returned by command handlers are reported to the user as a
// message; the loop keeps running.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ls %s> ", statusFn()))
		line, err := readLine(ctx, reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if protectedCommands[cmd] && !a.isLoggedIn() {
			printlnFn("Please log in first (type 'login' or 'signup').")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, profile, go, upload, classify, schemes, legalaid, draft, chat, learn, logout, exit")
			} else {
				printlnFn("Available commands: login, signup, go, learn, exit")
			}

		case "login":
			report(a.Login(ctx))

		case "signup", "register":
			report(a.Signup(ctx))

		case "logout":
			report(a.Logout(ctx))

		case "whoami":
			report(a.WhoAmI(ctx))

		case "profile":
			report(a.Profile(ctx))

		case "go":
			if len(args) == 0 {
				printlnFn("Usage: go <path>")
				continue
			}
			report(a.Go(ctx, args[0]))

		case "upload":
			report(a.Upload(ctx, strings.Join(args, " ")))

		case "classify":
			report(a.Classify(ctx))

		case "schemes":
			report(a.Schemes(ctx))

		case "legalaid":
			report(a.LegalAid(ctx))

		case "draft":
			report(a.Draft(ctx))

		case "chat":
			report(a.Chat(ctx))

		case "learn":
			report(a.Learn(ctx, args))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

var protectedCommands = map[string]bool{
	"whoami":   true,
	"profile":  true,
	"upload":   true,
	"classify": true,
	"schemes":  true,
	"legalaid": true,
	"draft":    true,
	"chat":     true,
}

func report(err error) {
	if err != nil {
		printlnFn(errorMessage(err))
	}
}
