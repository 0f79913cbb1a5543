// Copyright (c) 2018 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap

// MapGetter defines getter method of the source map.
type MapGetter[K comparable, V any] func(key K) (value V, exist bool, err error)

// StackedMap maintains maps in a stack.
// Each map inherits key/value of the map that is at lower level.
// It acts as a map with savepoint-commit/revert manner. The bottom level is
// always present and holds values that outlive all savepoints.
type StackedMap[K comparable, V any] struct {
	src    MapGetter[K, V]
	levels []map[K]V
}

// New creates an instance of StackedMap with a single base level.
// src acts as the fallback source of data, and may be nil.
func New[K comparable, V any](src MapGetter[K, V]) *StackedMap[K, V] {
	return &StackedMap[K, V]{
		src:    src,
		levels: []map[K]V{make(map[K]V)},
	}
}

// Depth returns the count of levels, including the base level.
func (sm *StackedMap[K, V]) Depth() int {
	return len(sm.levels)
}

// Push pushes a new level on the stack.
// It returns the stack depth before the push.
func (sm *StackedMap[K, V]) Push() int {
	sm.levels = append(sm.levels, make(map[K]V))
	return len(sm.levels) - 1
}

// Pop pops the level at top of the stack, discarding all Put operations since
// the matching Push. It panics when only the base level is left.
func (sm *StackedMap[K, V]) Pop() {
	if len(sm.levels) < 2 {
		panic("stackedmap: pop of base level")
	}
	sm.levels = sm.levels[:len(sm.levels)-1]
}

// PopTo pops levels until the stack depth reaches depth.
func (sm *StackedMap[K, V]) PopTo(depth int) {
	for len(sm.levels) > depth {
		sm.Pop()
	}
}

// Merge folds the top level into the level beneath it, making all Put
// operations since the matching Push permanent at the lower level.
// It panics when only the base level is left.
func (sm *StackedMap[K, V]) Merge() {
	n := len(sm.levels)
	if n < 2 {
		panic("stackedmap: merge of base level")
	}
	lower := sm.levels[n-2]
	for k, v := range sm.levels[n-1] {
		lower[k] = v
	}
	sm.levels = sm.levels[:n-1]
}

// Get gets the value for the given key, searching from the top level down and
// falling back to the source map.
// The second return value indicates whether the key was found.
func (sm *StackedMap[K, V]) Get(key K) (V, bool, error) {
	for i := len(sm.levels) - 1; i >= 0; i-- {
		if v, ok := sm.levels[i][key]; ok {
			return v, true, nil
		}
	}
	if sm.src != nil {
		return sm.src(key)
	}
	var zero V
	return zero, false, nil
}

// Put puts key value into the map at stack top.
func (sm *StackedMap[K, V]) Put(key K, value V) {
	sm.levels[len(sm.levels)-1][key] = value
}

// Each calls cb once for every effective key, with its top-most value.
// Entries of the source map are not visited. Iteration stops when cb returns
// false. Order is unspecified.
func (sm *StackedMap[K, V]) Each(cb func(key K, value V) bool) {
	seen := make(map[K]struct{})
	for i := len(sm.levels) - 1; i >= 0; i-- {
		for k, v := range sm.levels[i] {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			if !cb(k, v) {
				return
			}
		}
	}
}

// Copy makes a deep copy of all levels. Values are copied shallowly, and the
// source map is shared.
func (sm *StackedMap[K, V]) Copy() *StackedMap[K, V] {
	levels := make([]map[K]V, len(sm.levels))
	for i, lvl := range sm.levels {
		cpy := make(map[K]V, len(lvl))
		for k, v := range lvl {
			cpy[k] = v
		}
		levels[i] = cpy
	}
	return &StackedMap[K, V]{src: sm.src, levels: levels}
}
