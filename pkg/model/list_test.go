package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestList(indices ...int) *List[Spindle] {
	l := NewList(4, newSpindle)
	for _, i := range indices {
		l.GetOrCreate(i)
	}
	return l
}

func TestListSortedInsert(t *testing.T) {
	l := newTestList(5, 1, 3, 0, 3)

	assert.Equal(t, []int{0, 1, 3, 5}, l.Indices())
	assert.Equal(t, 4, l.Len())

	first, created := l.GetOrCreate(1)
	assert.False(t, created, "existing index must not be duplicated")
	assert.Equal(t, 1, first.Index)
	assert.Same(t, first, l.Get(1))
	assert.Nil(t, l.Get(2))
}

func TestListRemove(t *testing.T) {
	tests := []struct {
		name      string
		index     int
		following bool
		want      []int
		removed   []int
	}{
		{"cascade", 2, true, []int{0, 1}, []int{3, 5}},
		{"exact missing", 2, false, []int{0, 1, 3, 5}, nil},
		{"exact present", 3, false, []int{0, 1, 5}, []int{3}},
		{"cascade from start", 0, true, nil, []int{0, 1, 3, 5}},
		{"cascade past end", 9, true, []int{0, 1, 3, 5}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestList(0, 1, 2, 3, 5)
			l.Remove(2, false)
			removed := l.Remove(tt.index, tt.following)
			assert.Equal(t, tt.removed, removed)
			if tt.want == nil {
				assert.Empty(t, l.Indices())
			} else {
				assert.Equal(t, tt.want, l.Indices())
			}
		})
	}
}

func TestListPointerStability(t *testing.T) {
	l := newTestList(4)
	p := l.Get(4)
	p.Max = 1000

	l.GetOrCreate(1)
	l.GetOrCreate(9)

	assert.Same(t, p, l.Get(4), "insertions must not move existing elements")
	assert.Equal(t, uint32(1000), l.Get(4).Max)
}

func TestListIteration(t *testing.T) {
	l := newTestList(2, 0, 7)

	var seen []int
	l.Each(func(s *Spindle) { seen = append(seen, s.Index) })
	assert.Equal(t, []int{0, 2, 7}, seen)

	seen = nil
	complete := l.EachWhile(func(s *Spindle) bool {
		seen = append(seen, s.Index)
		return s.Index < 2
	})
	assert.False(t, complete)
	assert.Equal(t, []int{0, 2}, seen)

	found := l.Find(func(s *Spindle) bool { return s.Index > 1 })
	assert.Equal(t, 2, found.Index)
	assert.Nil(t, l.Find(func(s *Spindle) bool { return s.Index > 10 }))

	assert.Equal(t, 0, l.First().Index)
	l.Clear()
	assert.Nil(t, l.First())
}
