// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package colorize keeps HTML renderings of annotated C++ sources in sync
// with their inputs.
//
// A pair is the triple of files N.cpp (source), N.color (annotation) and
// N.html (output) that share a base name within one directory. A
// [Synchronizer] walks a directory tree, finds every annotation file, decides
// for each pair whether its output is missing or stale, and regenerates it
// with an external [Colorizer]. Per-pair results are folded into [Stats].
package colorize
