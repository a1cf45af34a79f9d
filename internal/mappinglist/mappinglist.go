// Package mappinglist provides a sorted view of accumulated source mappings in
// a performance conscious manner.
//
// Mappings are usually added in generated order, so the list optimistically
// assumes each append keeps the sequence sorted and only falls back to a full
// sort on read when an out-of-order append broke that assumption.
package mappinglist

import (
	"iter"
	"slices"
	"time"

	log "github.com/sirupsen/logrus"
)

// Entry is implemented by records stored in the list.
type Entry interface {
	// GeneratedPosition returns the 1-based line and 0-based column in the
	// generated text.
	GeneratedPosition() (line, column int)
}

// List accumulates entries and yields them ordered by a comparator.
type List[T Entry] struct {
	entries []T
	sorted  bool
	// last is the latest appended entry that kept the list sorted. It starts
	// as the infimum sentinel.
	last    T
	compare func(a, b T) int
}

// New creates an empty list. The infimum must be ordered before any entry
// that is going to be added, compare must be a total order.
func New[T Entry](infimum T, compare func(a, b T) int) *List[T] {
	return &List[T]{
		sorted:  true,
		last:    infimum,
		compare: compare,
	}
}

// generatedAfter reports whether b is ordered after (or equal to) a. A
// strictly greater generated position is the common case and avoids the full
// comparator; ties fall through to it.
func (l *List[T]) generatedAfter(a, b T) bool {
	lineA, columnA := a.GeneratedPosition()
	lineB, columnB := b.GeneratedPosition()
	return lineB > lineA || lineB == lineA && columnB > columnA ||
		l.compare(a, b) <= 0
}

// Add the entry to the list.
func (l *List[T]) Add(e T) {
	if l.generatedAfter(l.last, e) {
		l.last = e
	} else {
		l.sorted = false
	}
	l.entries = append(l.entries, e)
}

// Len returns the number of entries in the list.
func (l *List[T]) Len() int {
	return len(l.entries)
}

// UnsortedForEach calls fn for every entry in the order they were added.
//
// NOTE: the order is NOT guaranteed to match the comparator.
func (l *List[T]) UnsortedForEach(fn func(T)) {
	for _, e := range l.entries {
		fn(e)
	}
}

// Sorted returns the entries ordered by the comparator, sorting them first if
// an out-of-order append happened since the last read.
//
// The returned view shares the list's storage and is only valid until the
// next Add.
func (l *List[T]) Sorted() View[T] {
	if !l.sorted {
		start := time.Now()
		slices.SortStableFunc(l.entries, l.compare)
		l.sorted = true
		log.Debugf("Sorted %d out-of-order mappings (%v).", len(l.entries), time.Since(start).Round(time.Microsecond))
	}
	return View[T]{entries: l.entries}
}

// View is a read-only window into the list's entries.
type View[T any] struct {
	entries []T
}

// Len returns the number of entries in the view.
func (v View[T]) Len() int {
	return len(v.entries)
}

// At returns the i-th entry.
func (v View[T]) At(i int) T {
	return v.entries[i]
}

// All iterates over the entries with their indices.
func (v View[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, e := range v.entries {
			if !yield(i, e) {
				return
			}
		}
	}
}
