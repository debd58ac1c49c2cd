package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-study-client/client"
	"github.com/jrsteele09/go-study-client/internal/config"
)

var BUILD_VERSION = "dev"

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

const helpText = `studyctl - command line client for the study assistant API

USAGE:
  studyctl <command> [options]

COMMANDS:
  register   -email -name [-phone]        create an account
  login      -email [-code]               sign in with a one-time code
  profile                                 show the signed in user's profile
  summarize  -text|-file|-pdf|-youtube    summarise content
  quiz       -text|-last [-take] [-pdf]   generate a quiz, optionally take it or export it
  history    [-local] [-quizzes]          list past summaries or quizzes
  status                                  show the stored session
  logout                                  forget the stored tokens
  version                                 print the build version
`

var (
	// errUsage marks errors caused by bad arguments rather than a failed operation
	errUsage       = errors.New("usage")
	errNotSignedIn = errors.New("not signed in, run `studyctl login`")
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, config.New(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, cfg config.Config, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, helpText)
		return exitUsage
	}

	name, args := args[0], args[1:]
	switch name {
	case "help", "-h", "-help", "--help":
		fmt.Fprintln(stdout, banner())
		fmt.Fprint(stdout, helpText)
		return exitOK
	case "version", "-ver", "--version":
		fmt.Fprintln(stdout, BUILD_VERSION)
		return exitOK
	}

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", name, helpText)
		return exitUsage
	}

	a, err := newApp(cfg, stdin, stdout, stderr)
	if err != nil {
		fmt.Fprintln(stderr, errorStyle.Render("error: "+err.Error()))
		return exitError
	}
	defer a.Close()

	return exitCode(stderr, cmd(ctx, a, args))
}

func banner() string {
	return figure.NewFigure("studyctl", "cybermedium", true).String()
}

func exitCode(stderr io.Writer, err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, flag.ErrHelp):
		return exitUsage
	case errors.Is(err, errUsage):
		fmt.Fprintln(stderr, errorStyle.Render(err.Error()))
		return exitUsage
	case errors.Is(err, client.ErrSessionExpired):
		fmt.Fprintln(stderr, errorStyle.Render("session expired, run `studyctl login`"))
		return exitError
	default:
		fmt.Fprintln(stderr, errorStyle.Render("error: "+err.Error()))
		return exitError
	}
}

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errUsage}, args...)...)
}
