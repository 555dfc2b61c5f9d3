// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package cli provides helpers for creating simple, single-command
// command-line applications.
package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"

	"go.astrophena.name/colorsync/logger"
	"go.astrophena.name/colorsync/syncx"
	"go.astrophena.name/colorsync/version"
)

// Main runs app with the process environment and exits. It cancels the
// context passed to app on interrupt, and exits with status 1 after printing
// any printable error to stderr.
func Main(app App) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	err := Run(ctx, app)
	cancel()

	switch {
	case err == nil, errors.Is(err, ErrExitVersion):
		return
	case isPrintableError(err):
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(1)
}

type unprintableError struct{ err error }

func (e *unprintableError) Error() string { return e.err.Error() }
func (e *unprintableError) Unwrap() error { return e.err }

func isPrintableError(err error) bool {
	if errors.Is(err, flag.ErrHelp) {
		return false
	}
	var ue *unprintableError
	return !errors.As(err, &ue)
}

// Unprintable marks err as already reported to the user. [Main] exits with
// a non-zero status on such an error without printing it again.
func Unprintable(err error) error {
	if err == nil {
		return nil
	}
	return &unprintableError{err}
}

// ErrExitVersion is returned by [Run] after printing the version requested
// with -version. [Main] exits successfully on it.
var ErrExitVersion = &unprintableError{errors.New("version flag exit")}

// ErrInvalidArgs reports bad flags, arguments or configuration. Apps wrap it
// with the details.
var ErrInvalidArgs = errors.New("invalid arguments")

// App represents a runnable command-line application.
type App interface {
	// Run executes the application's primary logic.
	Run(context.Context) error
}

// HasFlags is an App that can define its own command-line flags.
type HasFlags interface {
	App

	// Flags registers flags with the given FlagSet.
	Flags(*flag.FlagSet)
}

type ctxKey int

var envKey ctxKey

// GetEnv retrieves the application's environment from a context.
// If the context has no environment, it returns one based on the current OS.
func GetEnv(ctx context.Context) *Env {
	e, ok := ctx.Value(envKey).(*Env)
	if !ok {
		return OSEnv()
	}
	return e
}

// WithEnv returns a new context that carries the provided application environment.
func WithEnv(ctx context.Context, e *Env) context.Context {
	return context.WithValue(ctx, envKey, e)
}

// Env encapsulates the application's environment, including arguments,
// standard I/O streams, and environment variables.
type Env struct {
	Args   []string
	Getenv func(string) string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// OSEnv creates an Env based on the current operating system environment.
func OSEnv() *Env {
	return &Env{
		Args:   os.Args[1:],
		Getenv: os.Getenv,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// IsTerminal reports whether the file descriptor is connected to a terminal.
// It is a variable so tests can pretend to run in one.
var IsTerminal = term.IsTerminal

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && IsTerminal(int(f.Fd()))
}

// Run parses the flags of app from the environment in ctx, then runs it with
// the remaining arguments. Besides the app's own flags it handles -version,
// -v for debug logging, and -cpuprofile and -memprofile.
func Run(ctx context.Context, app App) error {
	name := version.CmdName()

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	if fa, ok := app.(HasFlags); ok {
		fa.Flags(flags)
	}

	var (
		cpuProfile = flags.String("cpuprofile", "", "Write CPU profile to `file`.")
		memProfile = flags.String("memprofile", "", "Write memory profile to `file`.")
	)
	var showVersion bool
	if flags.Lookup("version") == nil {
		flags.BoolVar(&showVersion, "version", false, "Show version.")
	}
	var verbose bool
	if flags.Lookup("v") == nil {
		flags.BoolVar(&verbose, "v", false, "Enable debug logging.")
	}

	env := GetEnv(ctx)

	flags.Usage = usage(flags, env)
	flags.SetOutput(env.Stderr)
	if err := flags.Parse(env.Args); err != nil {
		// The flag package has printed it with the usage.
		if errors.Is(err, flag.ErrHelp) {
			return &unprintableError{err}
		}
		return &unprintableError{fmt.Errorf("%w: %v", ErrInvalidArgs, err)}
	}
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	if showVersion {
		fmt.Fprint(env.Stderr, version.Version())
		return ErrExitVersion
	}

	env.Args = flags.Args()

	ctx = WithEnv(ctx, env)
	if logger.IsDefault(logger.Get(ctx)) {
		ctx = logger.Put(ctx, newLogger(env.Stderr, verbose))
	}

	if err := app.Run(ctx); err != nil {
		return err
	}

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			return fmt.Errorf("could not create memory profile: %w", err)
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("could not write memory profile: %w", err)
		}
	}

	return nil
}

func newLogger(w io.Writer, verbose bool) *logger.Logger {
	l := logger.New(nil)
	if verbose {
		l.Level.Set(slog.LevelDebug)
	}
	l.Attach(tint.NewHandler(w, &tint.Options{
		Level:      l.Level,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(w),
	}))
	return l
}

const pagerNote = "\nTo disable the pager, set the NO_PAGER environment variable.\n"

func usage(flags *flag.FlagSet, env *Env) func() {
	return func() {
		var buf bytes.Buffer
		if docSrc != nil {
			fmt.Fprintf(&buf, "%s\n", doc.Get(parseDocComment))
		}
		fmt.Fprint(&buf, "Available flags:\n\n")
		flags.SetOutput(&buf)
		flags.PrintDefaults()
		flags.SetOutput(env.Stderr)
		fmt.Fprint(&buf, pagerNote)

		if page(env, buf.Bytes()) {
			return
		}
		env.Stderr.Write(buf.Bytes())
	}
}

// page pipes b through $PAGER when stderr is a terminal. It reports whether
// the pager has consumed the output.
func page(env *Env, b []byte) bool {
	pager := env.Getenv("PAGER")
	if pager == "" || env.Getenv("NO_PAGER") != "" || !isTerminal(env.Stderr) {
		return false
	}
	cmd := exec.Command(pager)
	cmd.Stdin = bytes.NewReader(b)
	cmd.Stdout = env.Stderr
	cmd.Stderr = env.Stderr
	return cmd.Run() == nil
}

var (
	docSrc []byte
	doc    syncx.Lazy[string]
)

// SetDocComment sets the main documentation for the application, which is
// displayed when a user passes the -help flag. It is intended to be used with
// Go's //go:embed directive.
//
// Example:
//
//	//go:embed doc.go
//	var doc []byte
//
//	func init() { cli.SetDocComment(doc) }
func SetDocComment(src []byte) {
	docSrc = src
	doc = syncx.Lazy[string]{}
}

func parseDocComment() string {
	s := bufio.NewScanner(bytes.NewReader(docSrc))
	var (
		doc       string
		inComment bool
	)
	for s.Scan() {
		line := s.Text()
		if line == "/*" {
			inComment = true
			continue
		}
		if line == "*/" {
			// Comment ended, stop scanning.
			break
		}
		if inComment {
			doc += line + "\n"
		}
	}
	if err := s.Err(); err != nil {
		panic(err)
	}
	return doc
}
