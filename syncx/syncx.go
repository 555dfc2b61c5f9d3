// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package syncx contains useful synchronization primitives.
package syncx

import (
	"sync"

	"github.com/go4org/hashtriemap"
)

// Lazy represents a lazily computed value.
type Lazy[T any] struct {
	once sync.Once
	val  T
}

// Get returns T, calling f to compute it, if necessary.
func (l *Lazy[T]) Get(f func() T) T {
	l.once.Do(func() { l.val = f() })
	return l.val
}

// Map is a concurrent map backed by a hash-trie. The zero value is ready to
// use.
type Map[K comparable, V any] struct {
	m hashtriemap.HashTrieMap[K, V]
}

// LoadOrStore returns the existing value for key if present. Otherwise, it
// stores and returns value. loaded is true if the value was loaded.
func (m *Map[K, V]) LoadOrStore(key K, value V) (actual V, loaded bool) {
	return m.m.LoadOrStore(key, value)
}
