package model

import "sort"

// List is an ordered collection of entities keyed by a non-negative index.
// Elements are kept sorted by index without duplicates. Pointers returned by
// List stay valid until the element is removed.
type List[T any] struct {
	indices []int
	items   []*T
	create  func(index int) *T
}

// NewList creates an empty list. create builds a new element for an index.
func NewList[T any](capacity int, create func(index int) *T) *List[T] {
	return &List[T]{
		indices: make([]int, 0, capacity),
		items:   make([]*T, 0, capacity),
		create:  create,
	}
}

// search returns the position of index or where it would be inserted.
func (l *List[T]) search(index int) (int, bool) {
	i := sort.SearchInts(l.indices, index)
	return i, i < len(l.indices) && l.indices[i] == index
}

// Get returns the element with index, or nil.
func (l *List[T]) Get(index int) *T {
	if i, ok := l.search(index); ok {
		return l.items[i]
	}
	return nil
}

// GetOrCreate returns the element with index, inserting a new one in order
// if it does not exist. The second result reports whether it was created.
func (l *List[T]) GetOrCreate(index int) (*T, bool) {
	i, ok := l.search(index)
	if ok {
		return l.items[i], false
	}
	item := l.create(index)
	l.indices = append(l.indices, 0)
	l.items = append(l.items, nil)
	copy(l.indices[i+1:], l.indices[i:])
	copy(l.items[i+1:], l.items[i:])
	l.indices[i] = index
	l.items[i] = item
	return item, true
}

// Remove deletes the element with exactly index or, if following is set,
// every element with an index of at least index. It returns the removed
// indices in ascending order.
func (l *List[T]) Remove(index int, following bool) []int {
	i, ok := l.search(index)
	if following {
		if i == len(l.indices) {
			return nil
		}
		removed := append([]int(nil), l.indices[i:]...)
		clear(l.items[i:])
		l.indices = l.indices[:i]
		l.items = l.items[:i]
		return removed
	}
	if !ok {
		return nil
	}
	l.indices = append(l.indices[:i], l.indices[i+1:]...)
	copy(l.items[i:], l.items[i+1:])
	l.items[len(l.items)-1] = nil
	l.items = l.items[:len(l.items)-1]
	return []int{index}
}

// Clear removes all elements.
func (l *List[T]) Clear() []int {
	return l.Remove(0, true)
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	return len(l.items)
}

// First returns the element with the lowest index, or nil.
func (l *List[T]) First() *T {
	if len(l.items) == 0 {
		return nil
	}
	return l.items[0]
}

// Indices returns a copy of the element indices in ascending order.
func (l *List[T]) Indices() []int {
	return append([]int(nil), l.indices...)
}

// Each calls fn for every element in index order.
func (l *List[T]) Each(fn func(*T)) {
	for _, item := range l.items {
		fn(item)
	}
}

// EachWhile calls fn in index order until it returns false. It reports
// whether every element was visited.
func (l *List[T]) EachWhile(fn func(*T) bool) bool {
	for _, item := range l.items {
		if !fn(item) {
			return false
		}
	}
	return true
}

// Find returns the first element in index order satisfying pred, or nil.
func (l *List[T]) Find(pred func(*T) bool) *T {
	for _, item := range l.items {
		if pred(item) {
			return item
		}
	}
	return nil
}
