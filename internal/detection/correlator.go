// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package detection

// Accumulator is a keyed store for correlation state that remembers the
// order keys were first seen, so flushing is deterministic.
type Accumulator[T any] struct {
	entries map[string]*T
	order   []string
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator[T any]() *Accumulator[T] {
	return &Accumulator[T]{entries: make(map[string]*T)}
}

// Get returns the entry for key, creating a zero value on first use.
// created reports whether the entry was just created.
func (a *Accumulator[T]) Get(key string) (entry *T, created bool) {
	if e, ok := a.entries[key]; ok {
		return e, false
	}
	e := new(T)
	a.entries[key] = e
	a.order = append(a.order, key)
	return e, true
}

// Lookup returns the entry for key without creating it.
func (a *Accumulator[T]) Lookup(key string) (*T, bool) {
	e, ok := a.entries[key]
	return e, ok
}

// Take removes and returns the entry for key.
func (a *Accumulator[T]) Take(key string) (*T, bool) {
	e, ok := a.entries[key]
	if !ok {
		return nil, false
	}
	delete(a.entries, key)
	for i, k := range a.order {
		if k == key {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	return e, true
}

// Len returns the number of open entries.
func (a *Accumulator[T]) Len() int {
	return len(a.entries)
}

// Drain removes every entry and returns them in first-seen order.
func (a *Accumulator[T]) Drain() []*T {
	out := make([]*T, 0, len(a.order))
	for _, k := range a.order {
		out = append(out, a.entries[k])
	}
	a.entries = make(map[string]*T)
	a.order = nil
	return out
}
