// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.astrophena.name/colorsync/cli"
	"go.astrophena.name/colorsync/cli/clitest"
	"go.astrophena.name/colorsync/colorize"
	"go.astrophena.name/colorsync/colorize/colorizetest"
	"go.astrophena.name/colorsync/testutil"
	"go.astrophena.name/colorsync/txtar"
)

func TestMain(m *testing.M) { colorizetest.Main(m) }

var baseTime = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

type runCase struct {
	Args         []string         `json:"args"`
	Mtimes       map[string]int64 `json:"mtimes"`
	WantStdout   string           `json:"want_stdout"`
	WantInStdout []string         `json:"want_in_stdout"`
	WantFailed   bool             `json:"want_failed"`
	WantRendered []string         `json:"want_rendered"`
}

func TestRunFromTxtar(t *testing.T) {
	testutil.Run(t, filepath.Join("testdata", "*.txtar"), func(t *testing.T, match string) {
		dir, c := extractRunCase(t, match)
		writeConfig(t, dir, colorizetest.Config(t))
		t.Chdir(dir)

		var stdout, stderr bytes.Buffer
		ctx := cli.WithEnv(context.Background(), &cli.Env{
			Args:   c.Args,
			Getenv: func(string) string { return "" },
			Stdin:  strings.NewReader(""),
			Stdout: &stdout,
			Stderr: &stderr,
		})

		err := cli.Run(ctx, new(app))
		if c.WantFailed {
			if !errors.Is(err, colorize.ErrPairsFailed) {
				t.Fatalf("want %v, got %v", colorize.ErrPairsFailed, err)
			}
		} else if err != nil {
			t.Fatalf("Run: %v\nstdout:\n%s\nstderr:\n%s", err, stdout.String(), stderr.String())
		}

		if c.WantStdout != "" {
			testutil.AssertEqual(t, stdout.String(), c.WantStdout)
		}
		for _, want := range c.WantInStdout {
			if !strings.Contains(stdout.String(), want) {
				t.Errorf("stdout must contain %q, got:\n%s", want, stdout.String())
			}
		}
		for _, name := range c.WantRendered {
			b, err := os.ReadFile(filepath.FromSlash(name))
			if err != nil {
				t.Fatalf("ReadFile(%q): %v", name, err)
			}
			if !bytes.Contains(b, []byte("<pre>")) {
				t.Errorf("%s was not rendered by the colorizer: %q", name, b)
			}
		}
	})
}

func extractRunCase(t *testing.T, path string) (string, runCase) {
	t.Helper()

	ar, err := txtar.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile(%q): %v", path, err)
	}

	var c runCase
	tree := &txtar.Archive{}
	for _, f := range ar.Files {
		if f.Name == "case.json" {
			if err := json.Unmarshal(f.Data, &c); err != nil {
				t.Fatalf("Unmarshal(%q): %v", path, err)
			}
			continue
		}
		tree.Files = append(tree.Files, f)
	}
	if c.WantStdout == "" && len(c.WantInStdout) == 0 {
		t.Fatalf("missing case.json.want_stdout in %q", path)
	}

	dir := t.TempDir()
	testutil.ExtractTxtar(t, tree, dir)
	for _, f := range tree.Files {
		mtime := baseTime.Add(time.Duration(c.Mtimes[f.Name]) * time.Second)
		testutil.Touch(t, filepath.Join(dir, filepath.FromSlash(f.Name)), mtime)
	}
	return dir, c
}

func writeConfig(t *testing.T, dir string, cfg colorize.Config) {
	t.Helper()
	data := fmt.Sprintf("colorizer = %q\ncheck_file = %q\nreplacement_file = %q\n", cfg.Colorizer, cfg.CheckFile, cfg.ReplacementFile)
	if err := os.WriteFile(filepath.Join(dir, colorize.DefaultConfigFile), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFlags(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.Mkdir("content", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("file.txt", nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("broken.toml", []byte("colour = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	const emptySummary = "SUMMARY:\nup to date file pairs: 0\n"

	clitest.Run(t, func(*testing.T) *app { return new(app) }, map[string]clitest.Case[*app]{
		"long force flag": {
			Args:         []string{"--force"},
			WantInStdout: emptySummary,
			CheckFunc: func(t *testing.T, a *app) {
				testutil.AssertEqual(t, a.force, true)
			},
		},
		"short force flag": {
			Args:         []string{"-f"},
			WantInStdout: emptySummary,
			CheckFunc: func(t *testing.T, a *app) {
				testutil.AssertEqual(t, a.force, true)
			},
		},
		"no flags": {
			WantInStdout: emptySummary,
			CheckFunc: func(t *testing.T, a *app) {
				testutil.AssertEqual(t, a.force, false)
				testutil.AssertEqual(t, a.dry, false)
			},
		},
		"directory argument": {
			Args:         []string{"content"},
			WantInStdout: emptySummary,
		},
		"not a directory": {
			Args:    []string{"file.txt"},
			WantErr: cli.ErrInvalidArgs,
		},
		"missing config": {
			Args:    []string{"-config", "missing.toml"},
			WantErr: cli.ErrInvalidArgs,
		},
		"unknown flag": {
			Args:         []string{"-quiet"},
			WantErr:      cli.ErrInvalidArgs,
			WantInStderr: "flag provided but not defined: -quiet",
		},
		"broken config": {
			Args:    []string{"-config", "broken.toml"},
			WantErr: cli.ErrInvalidArgs,
		},
		"help": {
			Args:         []string{"-h"},
			WantErr:      flag.ErrHelp,
			WantInStderr: "Colorsync regenerates HTML renderings of annotated C++ sources.",
		},
	})
}

func TestReport(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	for name, data := range map[string]string{
		"orphan.color": "",
		"ok.color":     "",
		"ok.cpp":       "",
		"ok.html":      "",
	} {
		if err := os.WriteFile(name, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
		testutil.Touch(t, name, baseTime)
	}
	testutil.Touch(t, "ok.html", baseTime.Add(time.Minute))

	reportPath := filepath.Join(dir, "out", "report.html")
	if err := os.Mkdir(filepath.Dir(reportPath), 0o755); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	ctx := cli.WithEnv(context.Background(), &cli.Env{
		Args:   []string{"-report", reportPath},
		Getenv: func(string) string { return "" },
		Stdin:  strings.NewReader(""),
		Stdout: &stdout,
		Stderr: new(bytes.Buffer),
	})
	err := cli.Run(ctx, new(app))
	if !errors.Is(err, colorize.ErrPairsFailed) {
		t.Fatalf("want %v, got %v", colorize.ErrPairsFailed, err)
	}

	b, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("report was not written: %v", err)
	}
	for _, want := range []string{
		"<tr><th>up to date file pairs</th><td>1</td></tr>",
		`<tr class="error"><td>orphan</td><td>orphan.color</td>`,
		"<td>up to date</td><td>ok.color</td>",
	} {
		if !strings.Contains(string(b), want) {
			t.Errorf("report must contain %q, got:\n%s", want, b)
		}
	}
}
