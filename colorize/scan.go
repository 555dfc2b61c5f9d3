// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package colorize

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"

	"go.astrophena.name/colorsync/syncx"
)

// Candidate is an annotation file found by [Candidates].
type Candidate struct {
	// Rel is the annotation file's path relative to the walked filesystem.
	Rel string
	// Info describes the annotation file. Symbolic links are resolved.
	Info os.FileInfo
}

// ScanError reports a path that could not be read during discovery.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string { return fmt.Sprintf("scanning %s: %v", e.Path, e.Err) }
func (e *ScanError) Unwrap() error { return e.Err }

// Candidates returns a sequence of every annotation file under dir, in the
// order the filesystem lists directory entries. A directory or link that
// can't be read is yielded as a [*ScanError] and the walk continues with its
// siblings.
//
// Symbolic links are followed. Each directory is walked once per iteration,
// under the first path it is reached by, so link cycles end.
//
// The sequence reads the filesystem lazily and can be iterated more than
// once; each iteration walks the tree again.
func Candidates(fsys billy.Filesystem, dir string) iter.Seq2[Candidate, error] {
	return func(yield func(Candidate, error) bool) {
		w := &walker{fsys: fsys, yield: yield}
		fi, err := fsys.Stat(dir)
		if err != nil {
			yield(Candidate{}, &ScanError{Path: dir, Err: err})
			return
		}
		key, err := dirKey(fsys, dir, fi)
		if err != nil {
			yield(Candidate{}, &ScanError{Path: dir, Err: err})
			return
		}
		w.enter(key)
		w.walk(dir, key)
	}
}

type walker struct {
	fsys    billy.Filesystem
	yield   func(Candidate, error) bool
	visited syncx.Map[string, struct{}]
}

// enter reports whether the directory identified by key is walked for the
// first time.
func (w *walker) enter(key string) bool {
	_, loaded := w.visited.LoadOrStore(key, struct{}{})
	return !loaded
}

func (w *walker) fail(path string, err error) bool {
	return w.yield(Candidate{}, &ScanError{Path: path, Err: err})
}

// walk walks the directory at dir, identified by key. It returns false when
// the consumer has stopped the iteration.
func (w *walker) walk(dir, key string) bool {
	entries, err := w.fsys.ReadDir(dir)
	if err != nil {
		return w.fail(dir, err)
	}
	for _, fi := range entries {
		path := w.fsys.Join(dir, fi.Name())
		sub := w.fsys.Join(key, fi.Name())
		if fi.Mode()&os.ModeSymlink != 0 {
			target, err := w.fsys.Stat(path)
			if err == nil && target.IsDir() {
				sub, err = dirKey(w.fsys, path, target)
			}
			if err != nil {
				if !w.fail(path, err) {
					return false
				}
				continue
			}
			fi = target
		}

		switch {
		case fi.IsDir():
			if !w.enter(sub) {
				continue
			}
			if !w.walk(path, sub) {
				return false
			}
		case fi.Mode().IsRegular() && isAnnotation(path):
			if !w.yield(Candidate{Rel: path, Info: fi}, nil) {
				return false
			}
		}
	}
	return true
}

// dirKey returns the location of the directory at path, described by fi,
// with every symbolic link resolved.
func dirKey(fsys billy.Filesystem, path string, fi os.FileInfo) (string, error) {
	// Only host files can be compared with os.SameFile. Links on the host
	// may lead out of fsys, so they are resolved by the host.
	if os.SameFile(fi, fi) {
		return filepath.EvalSymlinks(fsys.Join(fsys.Root(), path))
	}
	return resolve(fsys, path)
}

// maxLinks bounds the number of links resolve follows for one path.
const maxLinks = 255

var errTooManyLinks = errors.New("too many levels of symbolic links")

// resolve replaces every symbolic link in name, a path relative to the root
// of fsys, with its target. A ".." never leads above the root.
func resolve(fsys billy.Filesystem, name string) (string, error) {
	resolved := "."
	pending := strings.Split(filepath.ToSlash(name), "/")
	for links := 0; len(pending) > 0; {
		elem := pending[0]
		pending = pending[1:]
		switch elem {
		case "", ".":
			continue
		case "..":
			resolved = filepath.Dir(resolved)
			continue
		}

		next := fsys.Join(resolved, elem)
		fi, err := fsys.Lstat(next)
		if err != nil {
			return "", err
		}
		if fi.Mode()&os.ModeSymlink == 0 {
			resolved = next
			continue
		}
		if links++; links > maxLinks {
			return "", &fs.PathError{Op: "resolve", Path: name, Err: errTooManyLinks}
		}
		target, err := fsys.Readlink(next)
		if err != nil {
			return "", err
		}
		target = filepath.ToSlash(target)
		if strings.HasPrefix(target, "/") {
			resolved = "."
		}
		pending = append(strings.Split(target, "/"), pending...)
	}
	return resolved, nil
}
