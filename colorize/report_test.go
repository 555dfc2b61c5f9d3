// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package colorize_test

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"go.astrophena.name/colorsync/colorize"
	"go.astrophena.name/colorsync/colorize/colorizetest"
	"go.astrophena.name/colorsync/testutil"
)

var update = flag.Bool("update", false, "update golden files")

// TestReportGolden syncs each tree in testdata/report with force set and
// compares the resulting tree, report included, with the golden file.
func TestReportGolden(t *testing.T) {
	testutil.RunGolden(t, filepath.Join("testdata", "report", "*.txtar"), func(t *testing.T, match string) []byte {
		dir := testutil.ExtractTxtarFile(t, match)
		s := &colorize.Synchronizer{
			Colorizer: &colorizetest.Fake{FS: osfs.New(dir)},
			Force:     true,
			OpenFS: func(root string) billy.Filesystem {
				return osfs.New(filepath.Join(dir, root))
			},
		}
		res, err := s.Sync(context.Background(), "tree")
		if err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		if err := colorize.WriteReport(context.Background(), &buf, res); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "report.html"), buf.Bytes(), 0o644); err != nil {
			t.Fatal(err)
		}
		return testutil.BuildTxtar(t, dir)
	}, *update)
}

func TestWriteReport(t *testing.T) {
	failed := colorize.Pair{Root: "src", Name: "<b>"}
	res := &colorize.Result{}
	res.Stats = colorize.Stats{UpToDate: 1, Errors: 1, Failures: 1}
	res.Outcomes = []colorize.Outcome{
		{Kind: colorize.UpToDate, Path: "src/a.color", Reason: "up to date"},
		{
			Kind:   colorize.Failed,
			Pair:   failed,
			Path:   failed.Annotation(),
			Reason: "no output file",
			Err:    errors.New("exit status 1"),
			Invocation: &colorize.Invocation{
				Args:     []string{"Colorizer.exe", failed.Source()},
				Stderr:   "unexpected <script> tag",
				ExitCode: 1,
			},
		},
	}

	var buf bytes.Buffer
	if err := colorize.WriteReport(context.Background(), &buf, res); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"<!doctype html>",
		"<tr><th>up to date file pairs</th><td>1</td></tr>",
		"<tr><th>errors</th><td>1</td></tr>",
		`<tr class="error"><td>failed</td><td>src/&lt;b&gt;.color</td>`,
		"<pre>exit status 1</pre>",
		"<pre>unexpected &lt;script&gt; tag</pre>",
		"</html>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report must contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("report contains unescaped markup:\n%s", out)
	}
}

func TestWriteReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := colorize.WriteReport(context.Background(), &buf, &colorize.Result{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No annotation files found.") {
		t.Errorf("empty report must say so, got:\n%s", buf.String())
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteReportPropagatesWriteErrors(t *testing.T) {
	err := colorize.WriteReport(context.Background(), failWriter{}, &colorize.Result{})
	if err == nil || err.Error() != "disk full" {
		t.Fatalf("want disk full error, got %v", err)
	}
}
