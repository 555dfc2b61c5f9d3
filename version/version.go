// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package version reports build information of the running binary.
package version

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Info describes the running binary.
type Info struct {
	Name      string
	Version   string
	Commit    string
	Time      time.Time
	Modified  bool
	GoVersion string
}

// String returns a human-readable multi-line description of the binary.
func (i Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s", i.Name, i.Version)
	if i.Commit != "" {
		commit := i.Commit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		fmt.Fprintf(&sb, " (%s", commit)
		if i.Modified {
			sb.WriteString(", dirty")
		}
		sb.WriteString(")")
	}
	sb.WriteString("\n")
	if !i.Time.IsZero() {
		fmt.Fprintf(&sb, "built at %s\n", i.Time.Format(time.RFC3339))
	}
	fmt.Fprintf(&sb, "%s %s/%s\n", i.GoVersion, runtime.GOOS, runtime.GOARCH)
	return sb.String()
}

// Version returns build information of the running binary.
func Version() Info {
	info := Info{
		Name:      CmdName(),
		Version:   "devel",
		GoVersion: runtime.Version(),
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Commit = s.Value
		case "vcs.time":
			info.Time, _ = time.Parse(time.RFC3339, s.Value)
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// CmdName returns the base name of the running executable without an
// extension.
func CmdName() string {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	name := filepath.Base(exe)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
