// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package colorize

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.astrophena.name/colorsync/syncx"
)

// Invocation records one run of a colorizer.
type Invocation struct {
	// Args is the command line, starting with the executable.
	Args []string
	// Stdout and Stderr hold the captured output streams.
	Stdout string
	Stderr string
	// ExitCode is the exit status of the process, or -1 if it did not
	// start or was killed.
	ExitCode int
}

// CommandLine returns Args as a single line with every argument quoted.
func (inv *Invocation) CommandLine() string {
	quoted := make([]string, len(inv.Args))
	for i, arg := range inv.Args {
		quoted[i] = strconv.Quote(arg)
	}
	return strings.Join(quoted, " ")
}

// Colorizer regenerates the output file of a pair.
//
// Colorize returns the invocation it performed, if any, and a non-nil error
// if the output could not be regenerated.
type Colorizer interface {
	Colorize(ctx context.Context, p Pair) (*Invocation, error)
}

// ColorizerFunc is an adapter to allow the use of ordinary functions as a
// [Colorizer].
type ColorizerFunc func(ctx context.Context, p Pair) (*Invocation, error)

// Colorize calls f(ctx, p).
func (f ColorizerFunc) Colorize(ctx context.Context, p Pair) (*Invocation, error) {
	return f(ctx, p)
}

// ExecColorizer runs an external colorizer executable as
//
//	<exe> -c <check file> -r <replacement file> -W -l <source> <annotation> <output>
//
// An exit status of zero means success.
type ExecColorizer struct {
	Exe             string
	CheckFile       string
	ReplacementFile string
	// Dir is the working directory of the process. The check and replacement
	// files are relative to it. The current directory is used if empty.
	Dir string

	exe syncx.Lazy[string]
}

// NewExecColorizer returns an [ExecColorizer] configured from cfg.
func NewExecColorizer(cfg Config) *ExecColorizer {
	return &ExecColorizer{
		Exe:             cfg.Colorizer,
		CheckFile:       cfg.CheckFile,
		ReplacementFile: cfg.ReplacementFile,
	}
}

// Args returns the command line that regenerates the output of p.
func (c *ExecColorizer) Args(p Pair) []string {
	return []string{
		c.Exe,
		"-c", c.CheckFile,
		"-r", c.ReplacementFile,
		"-W",
		"-l", p.Source(), p.Annotation(), p.Output(),
	}
}

// Colorize implements [Colorizer]. The process is waited for and its output
// fully read before Colorize returns.
func (c *ExecColorizer) Colorize(ctx context.Context, p Pair) (*Invocation, error) {
	args := c.Args(p)
	inv := &Invocation{Args: args, ExitCode: -1}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.path(), args[1:]...)
	cmd.Dir = c.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	inv.Stdout, inv.Stderr = stdout.String(), stderr.String()
	if cmd.ProcessState != nil {
		inv.ExitCode = cmd.ProcessState.ExitCode()
	}
	if err != nil {
		return inv, fmt.Errorf("running %s: %w", c.Exe, err)
	}
	return inv, nil
}

// path returns the executable to start. A bare name of a file in Dir refers
// to that file, like it would when run from a shell on Windows; other bare
// names are looked up in PATH.
func (c *ExecColorizer) path() string {
	return c.exe.Get(func() string {
		if strings.ContainsRune(c.Exe, filepath.Separator) || strings.ContainsRune(c.Exe, '/') {
			return c.Exe
		}
		if fi, err := os.Stat(filepath.Join(c.Dir, c.Exe)); err == nil && fi.Mode().IsRegular() {
			return "." + string(filepath.Separator) + c.Exe
		}
		return c.Exe
	})
}
