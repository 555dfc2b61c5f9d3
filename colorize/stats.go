// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package colorize

import (
	"fmt"
	"io"
)

// Kind classifies an [Outcome].
type Kind int

// Outcome kinds.
const (
	// UpToDate means the output was newer than both inputs.
	UpToDate Kind = iota
	// Updated means a stale output was regenerated.
	Updated
	// New means a missing output was generated.
	New
	// Orphan means the annotation file has no source file.
	Orphan
	// Failed means the colorizer did not succeed.
	Failed
	// FSError means the filesystem could not be read.
	FSError
	// Skipped means a missing or stale output was not regenerated, because
	// of a dry run or an interrupted colorizer.
	Skipped
)

var kindNames = [...]string{
	UpToDate: "up to date",
	Updated:  "updated",
	New:      "new",
	Orphan:   "orphan",
	Failed:   "failed",
	FSError:  "filesystem error",
	Skipped:  "skipped",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// IsError reports whether k is counted as an error.
func (k Kind) IsError() bool { return k == Orphan || k == Failed || k == FSError }

// Outcome is the result of processing one annotation file, or of failing to
// read a part of the tree.
type Outcome struct {
	Kind Kind
	// Pair is the processed pair. It is zero for FSError outcomes of
	// directories.
	Pair Pair
	// Path is the annotation file, or the path that could not be read.
	Path string
	// Reason explains the decision taken for the pair.
	Reason string
	// Invocation is the colorizer run, if there was one.
	Invocation *Invocation
	// Err is set for Failed and FSError outcomes.
	Err error
}

// Stats counts outcomes of a run.
type Stats struct {
	UpToDate int
	Updated  int
	New      int
	// Errors is the sum of Orphans, Failures and FSErrors.
	Errors int

	Orphans  int
	Failures int
	FSErrors int
	// Skipped counts pairs left for a later run: those a dry run would
	// have regenerated, and the one interrupted.
	Skipped int
}

// Add counts o.
func (s *Stats) Add(o Outcome) {
	switch o.Kind {
	case UpToDate:
		s.UpToDate++
	case Updated:
		s.Updated++
	case New:
		s.New++
	case Orphan:
		s.Orphans++
	case Failed:
		s.Failures++
	case FSError:
		s.FSErrors++
	case Skipped:
		s.Skipped++
	}
	if o.Kind.IsError() {
		s.Errors++
	}
}

// Total returns the number of counted outcomes, excluding skipped ones.
func (s Stats) Total() int { return s.UpToDate + s.Updated + s.New + s.Errors }

// WriteSummary writes the counters in a human-readable form.
func (s Stats) WriteSummary(w io.Writer) error {
	_, err := fmt.Fprintf(w, "SUMMARY:\n"+
		"up to date file pairs: %d\n"+
		"   updated file pairs: %d\n"+
		"       new file pairs: %d\n"+
		"               errors: %d\n",
		s.UpToDate, s.Updated, s.New, s.Errors)
	return err
}

// Result is the accumulated result of a run.
type Result struct {
	Stats    Stats
	Outcomes []Outcome
}

func (r *Result) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	r.Stats.Add(o)
}
