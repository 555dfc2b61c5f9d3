// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package colorizetest provides colorizers for tests.
//
// [Fake] is an in-process [colorize.Colorizer]. [Config] makes the test
// binary itself act as the external colorizer executable; packages using it
// must call [Main] from their TestMain.
package colorizetest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"go.astrophena.name/colorsync/colorize"
)

// FailMarker makes the colorizers in this package fail for any source file
// containing it.
const FailMarker = "COLORIZER_FAIL"

const envVar = "COLORSYNC_FAKE_COLORIZER"

// Main runs the tests, or acts as the colorizer executable if the process was
// started through a [Config].
func Main(m *testing.M) {
	if os.Getenv(envVar) == "1" {
		os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
	}
	os.Exit(m.Run())
}

// Config returns a configuration that runs the test binary as the colorizer.
// The test must not be parallel.
func Config(t *testing.T) colorize.Config {
	t.Helper()
	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable(): %v", err)
	}
	t.Setenv(envVar, "1")
	return colorize.Config{
		Colorizer:       exe,
		CheckFile:       "check.txt",
		ReplacementFile: "replacements.txt",
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) != 9 || args[0] != "-c" || args[2] != "-r" || args[4] != "-W" || args[5] != "-l" {
		fmt.Fprintf(stderr, "usage: colorizer -c check -r replacements -W -l code color html, got %q\n", args)
		return 2
	}
	code, err := os.ReadFile(args[6])
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	color, err := os.ReadFile(args[7])
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if bytes.Contains(code, []byte(FailMarker)) {
		fmt.Fprintf(stdout, "colorizing %s\n", args[6])
		fmt.Fprintln(stderr, "error: cannot colorize")
		return 1
	}
	if err := os.WriteFile(args[8], render(code, color), 0o644); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func render(code, color []byte) []byte {
	return fmt.Appendf(nil, "<!-- %s -->\n<pre>%s</pre>\n", bytes.TrimSpace(color), html.EscapeString(string(code)))
}

// ErrFailed is returned by [Fake] for sources containing [FailMarker].
var ErrFailed = errors.New("colorizer failed")

// Fake is an in-process colorizer. It writes outputs into FS and records
// every pair it was asked to colorize.
type Fake struct {
	FS billy.Filesystem

	mu    sync.Mutex
	calls []colorize.Pair
}

// Colorize implements [colorize.Colorizer].
func (f *Fake) Colorize(ctx context.Context, p colorize.Pair) (*colorize.Invocation, error) {
	f.mu.Lock()
	f.calls = append(f.calls, p)
	f.mu.Unlock()

	inv := &colorize.Invocation{Args: []string{"fake", p.Source(), p.Annotation(), p.Output()}}
	code, err := util.ReadFile(f.FS, p.Source())
	if err != nil {
		return inv, err
	}
	color, err := util.ReadFile(f.FS, p.Annotation())
	if err != nil {
		return inv, err
	}
	if bytes.Contains(code, []byte(FailMarker)) {
		inv.ExitCode = 1
		inv.Stderr = "error: cannot colorize\n"
		return inv, ErrFailed
	}
	return inv, util.WriteFile(f.FS, p.Output(), render(code, color), 0o644)
}

// Calls returns the pairs passed to Colorize, in call order.
func (f *Fake) Calls() []colorize.Pair {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]colorize.Pair(nil), f.calls...)
}
