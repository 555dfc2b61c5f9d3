// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package colorize_test

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/go-git/go-billy/v5/osfs"

	"go.astrophena.name/colorsync/colorize"
	"go.astrophena.name/colorsync/testutil"
)

func TestCandidates(t *testing.T) {
	mem := memTree(t, map[string]string{
		"a.color":              "a",
		"a.cpp":                "int a;",
		"b.cpp":                "int b;",
		"notes.color.bak":      "",
		".color":               "hidden, no base name",
		"..color":              "hidden, no extension",
		"..cpp":                "int dots;",
		"..a.color":            "hidden annotation",
		"sub/c.color":          "c",
		"sub/deeper/d.color":   "d",
		"sub/deeper/d.html":    "",
		"dir.color/e.color":    "e",
		"dir.color/e.cpp":      "int e;",
		"empty/.keep":          "",
		"sub/deeper/x.y.color": "x.y",
	})
	fsys := chroot(t, mem)(memRoot)

	want := []string{
		"..a.color",
		"a.color",
		"dir.color/e.color",
		"sub/c.color",
		"sub/deeper/d.color",
		"sub/deeper/x.y.color",
	}
	testutil.AssertEqual(t, candidateNames(t, fsys), want)

	t.Run("can be iterated again", func(t *testing.T) {
		testutil.AssertEqual(t, candidateNames(t, fsys), want)
	})

	t.Run("stops when asked", func(t *testing.T) {
		var n int
		for range colorize.Candidates(fsys, ".") {
			n++
			break
		}
		testutil.AssertEqual(t, n, 1)
	})

	t.Run("info describes the annotation", func(t *testing.T) {
		for c, err := range colorize.Candidates(fsys, ".") {
			if err != nil {
				t.Fatal(err)
			}
			if c.Info == nil || c.Info.IsDir() || c.Info.Name() != filepath.Base(c.Rel) {
				t.Errorf("bad info for %s: %v", c.Rel, c.Info)
			}
		}
	})
}

func TestCandidatesUnreadableDirectory(t *testing.T) {
	mem := memTree(t, map[string]string{
		"a.color":        "",
		"broken/b.color": "",
		"ok/c.color":     "",
	})
	fsys := failingFS{Filesystem: chroot(t, mem)(memRoot), readDir: "broken"}

	var (
		found []string
		errs  []error
	)
	for c, err := range colorize.Candidates(fsys, ".") {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		found = append(found, c.Rel)
	}

	testutil.AssertEqual(t, len(found), 2)
	testutil.AssertEqual(t, len(errs), 1)
	var se *colorize.ScanError
	if !errors.As(errs[0], &se) {
		t.Fatalf("want *ScanError, got %T: %v", errs[0], errs[0])
	}
	testutil.AssertEqual(t, se.Path, "broken")
	if !errors.Is(errs[0], fs.ErrPermission) {
		t.Errorf("error must wrap fs.ErrPermission, got %v", errs[0])
	}
}

func TestCandidatesSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on Windows")
	}

	base := t.TempDir()
	writeTree(t, base, map[string]string{
		"root/a.color":     "",
		"root/sub/b.color": "",
		"real/c.color":     "",
	}, testTime)
	root := filepath.Join(base, "root")
	for link, target := range map[string]string{
		"link.color":     "a.color",
		"sub/loop":       "..",
		"zzz":            "sub",
		"linked":         "../real",
		"dangling.color": "missing.color",
	} {
		if err := os.Symlink(target, filepath.Join(root, link)); err != nil {
			t.Fatal(err)
		}
	}

	var (
		found []string
		errs  []error
	)
	for c, err := range colorize.Candidates(osfs.New(root), ".") {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		found = append(found, filepath.ToSlash(c.Rel))
		if !c.Info.Mode().IsRegular() {
			t.Errorf("%s: info of a link must describe its target, got mode %v", c.Rel, c.Info.Mode())
		}
	}

	// Entries come in name order, so sub is walked before the zzz link to
	// it, and sub/loop leads back to the root.
	testutil.AssertEqual(t, found, []string{
		"a.color",
		"link.color",
		"linked/c.color",
		"sub/b.color",
	})
	testutil.AssertEqual(t, len(errs), 1)
	if !errors.Is(errs[0], fs.ErrNotExist) {
		t.Errorf("dangling link must be reported as not existing, got %v", errs[0])
	}
}

func TestCandidatesSymlinksInMemory(t *testing.T) {
	mem := memTree(t, map[string]string{
		"a.color":     "",
		"sub/b.color": "",
	})
	if err := mem.Symlink("..", path.Join(memRoot, "sub", "loop")); err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, candidateNames(t, chroot(t, mem)(memRoot)), []string{
		"a.color",
		"sub/b.color",
	})
}
