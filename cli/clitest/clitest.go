// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package clitest provides a table-driven harness for testing [cli.App]
// implementations.
package clitest

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.astrophena.name/colorsync/cli"
)

// Case describes a single run of an application and what to expect from it.
type Case[App cli.App] struct {
	// Args are the command-line arguments passed to the app.
	Args []string

	// WantErr, if set, must match the returned error with errors.Is.
	WantErr error
	// WantInStdout must be a substring of stdout.
	WantInStdout string
	// WantInStderr must be a substring of stderr.
	WantInStderr string
	// CheckFunc, if set, is called with the app after it has run.
	CheckFunc func(*testing.T, App)
}

// Run runs every case against an app created by setup.
func Run[App cli.App](t *testing.T, setup func(*testing.T) App, cases map[string]Case[App]) {
	t.Helper()
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			app := setup(t)

			var stdout, stderr bytes.Buffer
			env := &cli.Env{
				Args:   tc.Args,
				Getenv: func(string) string { return "" },
				Stdin:  strings.NewReader(""),
				Stdout: &stdout,
				Stderr: &stderr,
			}
			if tc.Args == nil {
				env.Args = []string{}
			}

			err := cli.Run(cli.WithEnv(context.Background(), env), app)

			switch {
			case tc.WantErr != nil:
				if !errors.Is(err, tc.WantErr) {
					t.Fatalf("want error %v, got %v", tc.WantErr, err)
				}
			case err != nil:
				t.Fatalf("unexpected error: %v\nstdout:\n%s\nstderr:\n%s", err, stdout.String(), stderr.String())
			}

			if tc.WantInStdout != "" && !strings.Contains(stdout.String(), tc.WantInStdout) {
				t.Errorf("stdout must contain %q, got: %q", tc.WantInStdout, stdout.String())
			}
			if tc.WantInStderr != "" && !strings.Contains(stderr.String(), tc.WantInStderr) {
				t.Errorf("stderr must contain %q, got: %q", tc.WantInStderr, stderr.String())
			}
			if tc.CheckFunc != nil {
				tc.CheckFunc(t, app)
			}
		})
	}
}
