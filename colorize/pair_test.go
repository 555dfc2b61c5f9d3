// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package colorize_test

import (
	"path/filepath"
	"testing"

	"go.astrophena.name/colorsync/colorize"
	"go.astrophena.name/colorsync/testutil"
)

func TestPairPaths(t *testing.T) {
	p := colorize.Pair{Root: "content", Name: filepath.Join("tutorial", "ex3")}
	dir := filepath.Join("content", "tutorial")
	testutil.AssertEqual(t, p.Source(), filepath.Join(dir, "ex3.cpp"))
	testutil.AssertEqual(t, p.Annotation(), filepath.Join(dir, "ex3.color"))
	testutil.AssertEqual(t, p.Output(), filepath.Join(dir, "ex3.html"))
	testutil.AssertEqual(t, p.String(), p.Annotation())
}
