// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package colorize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"go.astrophena.name/colorsync/logger"
	"go.astrophena.name/colorsync/syncx"
)

// ErrPairsFailed is reported when a run finished with errors.
var ErrPairsFailed = errors.New("some file pairs could not be processed")

// Synchronizer regenerates missing and stale outputs of the pairs found under
// a set of directories.
//
// A Synchronizer processes pairs one at a time. It processes each annotation
// file at most once over its lifetime, even if the file is reachable through
// several roots or links. A Synchronizer must not be copied after first use.
type Synchronizer struct {
	// Colorizer regenerates outputs.
	Colorizer Colorizer
	// Force regenerates every existing output regardless of timestamps.
	Force bool
	// DryRun reports what would be regenerated instead of doing it.
	DryRun bool
	// Report receives diagnostics meant for the operator. They are
	// discarded if nil.
	Report io.Writer
	// OpenFS returns the filesystem rooted at a directory passed to Sync.
	// If nil, the directory is opened on the host filesystem.
	OpenFS func(root string) billy.Filesystem

	seen syncx.Map[string, struct{}]
}

// Sync walks every root and processes each annotation file found. Neither
// orphans, colorizer failures nor unreadable paths stop the walk; they are
// reported and counted as errors.
//
// Sync returns early only when ctx is done, with the result so far and the
// context's error. A pair whose colorizer was killed that way is reported and
// counted as skipped.
func (s *Synchronizer) Sync(ctx context.Context, roots ...string) (*Result, error) {
	res := new(Result)
	for _, root := range roots {
		fsys := s.openFS(root)
		for c, err := range Candidates(fsys, ".") {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			if err != nil {
				res.add(s.scanFailed(ctx, root, err))
				continue
			}
			if !s.firstVisit(root, c.Rel) {
				logger.Debug(ctx, "annotation already processed", slog.String("path", filepath.Join(root, c.Rel)))
				continue
			}
			res.add(s.Process(ctx, fsys, pairFor(root, c.Rel), c.Info))
		}
	}
	return res, ctx.Err()
}

func (s *Synchronizer) openFS(root string) billy.Filesystem {
	if s.OpenFS != nil {
		return s.OpenFS(root)
	}
	return osfs.New(root)
}

func (s *Synchronizer) firstVisit(root, rel string) bool {
	key := filepath.Join(root, rel)
	if abs, err := filepath.Abs(key); err == nil {
		key = abs
	}
	if s.OpenFS == nil {
		if real, err := filepath.EvalSymlinks(key); err == nil {
			key = real
		}
	}
	_, loaded := s.seen.LoadOrStore(key, struct{}{})
	return !loaded
}

func (s *Synchronizer) report() io.Writer {
	if s.Report == nil {
		return io.Discard
	}
	return s.Report
}

func (s *Synchronizer) scanFailed(ctx context.Context, root string, err error) Outcome {
	path, cause := root, err
	var se *ScanError
	if errors.As(err, &se) {
		path, cause = filepath.Join(root, se.Path), se.Err
	}
	logger.Error(ctx, "cannot read path", slog.String("path", path), slog.Any("err", cause))
	fmt.Fprintf(s.report(), "cannot read %s: %v\n", path, cause)
	return Outcome{Kind: FSError, Path: path, Err: err}
}

// Process decides what to do with the pair p found in fsys and does it.
// annotation describes the pair's annotation file.
func (s *Synchronizer) Process(ctx context.Context, fsys billy.Filesystem, p Pair, annotation os.FileInfo) Outcome {
	o := Outcome{Pair: p, Path: p.Annotation()}
	log := logger.Get(ctx).With(slog.String("pair", p.Annotation()))

	source, err := stat(fsys, p.Name+SourceExt)
	if err != nil {
		return s.fsFailed(ctx, o, p.Source(), err)
	}
	var output FileState
	if source.Exists {
		if output, err = stat(fsys, p.Name+OutputExt); err != nil {
			return s.fsFailed(ctx, o, p.Output(), err)
		}
	}

	d := Decide(s.Force, source, FileState{Exists: true, ModTime: annotation.ModTime()}, output)
	o.Reason = d.Reason
	log.DebugContext(ctx, "decided", slog.String("action", d.Action.String()), slog.String("reason", d.Reason))

	switch d.Action {
	case Reject:
		fmt.Fprintf(s.report(), "file %s has no associated %s file\n", p.Annotation(), SourceExt)
		o.Kind = Orphan
		return o
	case Keep:
		o.Kind = UpToDate
		return o
	}

	if s.DryRun {
		fmt.Fprintf(s.report(), "would regenerate %s (%s)\n", p.Annotation(), d.Reason)
		o.Kind = Skipped
		return o
	}

	o.Invocation, o.Err = s.Colorizer.Colorize(ctx, p)
	if err := ctx.Err(); err != nil && o.Err != nil {
		// The colorizer was killed, so its failure says nothing about the pair.
		logger.Warn(ctx, "colorizer interrupted", slog.String("pair", p.Annotation()))
		fmt.Fprintf(s.report(), "interrupted while regenerating %s\n", p.Annotation())
		o.Kind = Skipped
		o.Err = err
		return o
	}
	if o.Err != nil {
		log.ErrorContext(ctx, "colorizer failed", slog.Any("err", o.Err))
		s.reportFailure(p, o.Invocation, o.Err)
		o.Kind = Failed
		return o
	}

	if d.Action == Create {
		o.Kind = New
	} else {
		o.Kind = Updated
	}
	log.InfoContext(ctx, "regenerated", slog.String("kind", o.Kind.String()))
	return o
}

func (s *Synchronizer) fsFailed(ctx context.Context, o Outcome, path string, err error) Outcome {
	logger.Error(ctx, "cannot stat file", slog.String("path", path), slog.Any("err", err))
	fmt.Fprintf(s.report(), "cannot stat %s: %v\n", path, err)
	o.Kind = FSError
	o.Err = err
	return o
}

func (s *Synchronizer) reportFailure(p Pair, inv *Invocation, err error) {
	w := s.report()
	if inv != nil {
		fmt.Fprintf(w, "COMMAND:\n%s\n\n", inv.CommandLine())
	}
	fmt.Fprintf(w, "INFO:\n%s\n%s\n\n", p.Source(), p.Annotation())
	fmt.Fprint(w, "OUTPUT:\n")
	if inv != nil {
		fmt.Fprintf(w, "%s\n%s\n", inv.Stdout, inv.Stderr)
	}
	if inv == nil || inv.ExitCode < 0 {
		fmt.Fprintf(w, "%v\n", err)
	}
	fmt.Fprintln(w)
}

func stat(fsys billy.Filesystem, name string) (FileState, error) {
	fi, err := fsys.Stat(name)
	if errors.Is(err, fs.ErrNotExist) {
		return FileState{}, nil
	}
	if err != nil {
		return FileState{}, err
	}
	return FileState{Exists: true, ModTime: fi.ModTime()}, nil
}
