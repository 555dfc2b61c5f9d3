// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package colorize

import "time"

// FileState is what a decision needs to know about one member of a pair.
type FileState struct {
	Exists  bool
	ModTime time.Time
}

// Action is what has to happen to a pair.
type Action int

// Actions returned by [Decide].
const (
	// Keep leaves an up to date output alone.
	Keep Action = iota
	// Create generates a missing output.
	Create
	// Update regenerates a stale output.
	Update
	// Reject refuses an annotation without a source file.
	Reject
)

var actionNames = [...]string{
	Keep:   "keep",
	Create: "create",
	Update: "update",
	Reject: "reject",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// Decision is the result of [Decide].
type Decision struct {
	Action Action
	// Reason is a short human-readable explanation of Action.
	Reason string
}

// Decide determines what has to happen to a pair, given whether force
// regeneration was requested and the state of the pair's files.
//
// A pair without a source is rejected. A missing output is created. An
// existing output is updated when force is set or when the source or the
// annotation was modified strictly after it; otherwise it is kept.
func Decide(force bool, source, annotation, output FileState) Decision {
	switch {
	case !source.Exists:
		return Decision{Reject, "no source file"}
	case !output.Exists:
		return Decision{Create, "no output file"}
	case force:
		return Decision{Update, "forced"}
	case source.ModTime.After(output.ModTime):
		return Decision{Update, "source is newer than output"}
	case annotation.ModTime.After(output.ModTime):
		return Decision{Update, "annotation is newer than output"}
	}
	return Decision{Keep, "up to date"}
}
