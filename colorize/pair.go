// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package colorize

import (
	"path/filepath"
	"strings"
)

// File extensions of the members of a pair.
const (
	AnnotationExt = ".color"
	SourceExt     = ".cpp"
	OutputExt     = ".html"
)

// Pair identifies the source, annotation and output files sharing a base
// name.
type Pair struct {
	// Root is the directory the pair was discovered under.
	Root string
	// Name is the path of the pair relative to Root, without an extension.
	Name string
}

// pairFor returns the pair that the annotation file at rel belongs to.
func pairFor(root, rel string) Pair {
	return Pair{Root: root, Name: rel[:len(rel)-len(filepath.Ext(rel))]}
}

// isAnnotation reports whether name is the name of an annotation file.
// Leading dots belong to the base name, so neither ".color" nor "..color"
// has an extension.
func isAnnotation(name string) bool {
	return filepath.Ext(strings.TrimLeft(filepath.Base(name), ".")) == AnnotationExt
}

// Source returns the path of the source file.
func (p Pair) Source() string { return p.path(SourceExt) }

// Annotation returns the path of the annotation file.
func (p Pair) Annotation() string { return p.path(AnnotationExt) }

// Output returns the path of the output file.
func (p Pair) Output() string { return p.path(OutputExt) }

func (p Pair) path(ext string) string { return filepath.Join(p.Root, p.Name+ext) }

func (p Pair) String() string { return p.Annotation() }
