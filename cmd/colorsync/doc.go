// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Colorsync regenerates HTML renderings of annotated C++ sources.

It recursively walks the current directory, or the directories given as
arguments, and looks for annotation files with the .color extension. Every
annotation file N.color must have a source file N.cpp next to it; its HTML
rendering N.html is produced by an external colorizer invoked as

	Colorizer.exe -c check.txt -r replacements.txt -W -l N.cpp N.color N.html

The colorizer is run only when N.html is missing, or when N.cpp or N.color was
modified after it. Pass -f to regenerate every rendering regardless of
timestamps, or -dry to only list what would be regenerated.

Annotation files without a source file, colorizer failures and unreadable
directories are reported and counted as errors, but do not stop the walk. A
summary of the run is printed at the end. The exit status is 1 if there were
any errors.

The colorizer executable and the check and replacement files can be set in a
.colorsync.toml file in the current directory (or the file given with
-config):

	colorizer = "tools/Colorizer.exe"
	check_file = "check.txt"
	replacement_file = "replacements.txt"

Usage:

	colorsync [flags] [dir ...]
*/
package main

import (
	_ "embed"

	"go.astrophena.name/colorsync/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
