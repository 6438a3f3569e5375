package sequence

import (
	"fmt"
	"iter"
	"strings"
)

// Sequence is an ordered, resizable container with a single cursor that
// designates the current item.
//
// The contents live in data[0:used]; len(data) is the capacity and is
// never below 1. The cursor is current, with 0 <= current <= used, and
// current == used means there is no current item. That holds for an empty
// sequence too, where both are 0.
//
// New is the constructor. A zero Sequence is usable but has capacity 0
// and no allocation cap until the first Insert, Attach or Resize gives it
// a backing store.
//
// A Sequence is not safe for concurrent use.
type Sequence[T any] struct {
	data    []T
	used    int
	current int
	maxCap  int
}

// New creates an empty sequence with no current item.
// The only error is an *AllocError for the initial backing store.
func New[T any](opts ...Option) (*Sequence[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.initialCapacity < 1 {
		o.initialCapacity = 1
	}

	data, err := allocate[T](o.initialCapacity, o.maxCapacity)
	if err != nil {
		return nil, err
	}
	return &Sequence[T]{
		data:   data,
		maxCap: o.maxCapacity,
	}, nil
}

// Clone returns an independent copy with the same capacity, contents
// and cursor position.
func (s *Sequence[T]) Clone() (*Sequence[T], error) {
	data, err := allocate[T](len(s.data), s.maxCap)
	if err != nil {
		return nil, err
	}
	copy(data, s.data[:s.used])
	return &Sequence[T]{
		data:    data,
		used:    s.used,
		current: s.current,
		maxCap:  s.maxCap,
	}, nil
}

// Assign replaces the contents and cursor of s with a copy of src's.
// Assigning a sequence to itself does nothing. The new backing store is
// allocated before anything is replaced, so on error s is unchanged.
// A nil src is a contract violation.
func (s *Sequence[T]) Assign(src *Sequence[T]) error {
	if src == nil {
		panic(&ContractError{Op: "Assign", Err: ErrNilSequence})
	}
	if s == src {
		return nil
	}

	data, err := allocate[T](len(src.data), s.maxCap)
	if err != nil {
		return err
	}
	copy(data, src.data[:src.used])

	s.data = data
	s.used = src.used
	s.current = src.current
	return nil
}

// Resize changes the capacity to n. It never drops items: n is raised to
// 1 and to Size() when below either. Contents and cursor are unchanged.
func (s *Sequence[T]) Resize(n int) error {
	if n < 1 {
		n = 1
	}
	if n < s.used {
		n = s.used
	}

	data, err := allocate[T](n, s.maxCap)
	if err != nil {
		return err
	}
	copy(data, s.data[:s.used])
	s.data = data
	return nil
}

// Start makes the first item current. On an empty sequence there is
// still no current item afterwards.
func (s *Sequence[T]) Start() {
	s.current = 0
}

// HasCurrent reports whether there is a current item.
func (s *Sequence[T]) HasCurrent() bool {
	return s.current != s.used
}

// Advance makes the item after the current one current. If the current
// item was the last one, no item is current afterwards.
// It panics with a *ContractError if there is no current item.
func (s *Sequence[T]) Advance() {
	s.mustHaveCurrent("Advance")
	s.current++
}

// Current returns the current item.
// It panics with a *ContractError if there is no current item.
func (s *Sequence[T]) Current() T {
	s.mustHaveCurrent("Current")
	return s.data[s.current]
}

// Insert places entry before the current item, or at the front when there
// is no current item. The new entry becomes current.
func (s *Sequence[T]) Insert(entry T) error {
	if err := s.reserve(); err != nil {
		return err
	}

	target := 0
	if s.HasCurrent() {
		target = s.current
	}
	s.put(target, entry)
	return nil
}

// Attach places entry after the current item, or at the end when there is
// no current item. The new entry becomes current.
func (s *Sequence[T]) Attach(entry T) error {
	if err := s.reserve(); err != nil {
		return err
	}

	target := s.used
	if s.HasCurrent() {
		target = s.current + 1
	}
	s.put(target, entry)
	return nil
}

// RemoveCurrent removes the current item. The item that followed it, if
// any, becomes current; otherwise no item is current.
// It panics with a *ContractError if there is no current item.
func (s *Sequence[T]) RemoveCurrent() {
	s.mustHaveCurrent("RemoveCurrent")

	copy(s.data[s.current:s.used-1], s.data[s.current+1:s.used])
	s.used--

	// Release the vacated slot so it does not pin a reference.
	var zero T
	s.data[s.used] = zero
}

// Size returns the number of items.
func (s *Sequence[T]) Size() int {
	return s.used
}

// Capacity returns the number of slots in the backing store.
func (s *Sequence[T]) Capacity() int {
	return len(s.data)
}

// Cursor returns the index of the current item and whether there is one.
// Without a current item the index equals Size().
func (s *Sequence[T]) Cursor() (int, bool) {
	return s.current, s.HasCurrent()
}

// Items returns a copy of the contents in order.
func (s *Sequence[T]) Items() []T {
	items := make([]T, s.used)
	copy(items, s.data[:s.used])
	return items
}

// All iterates over index/item pairs without moving the cursor.
// The sequence must not be modified during iteration.
func (s *Sequence[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < s.used; i++ {
			if !yield(i, s.data[i]) {
				return
			}
		}
	}
}

// String formats the contents with the current item in parentheses,
// for example "[5 (10) 20]".
func (s *Sequence[T]) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < s.used; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if i == s.current {
			fmt.Fprintf(&sb, "(%v)", s.data[i])
		} else {
			fmt.Fprint(&sb, s.data[i])
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// reserve grows the backing store when it is full.
func (s *Sequence[T]) reserve() error {
	if s.used < len(s.data) {
		return nil
	}
	next := GrowCapacity(len(s.data))
	if next <= len(s.data) {
		return &AllocError{Requested: next, Limit: s.maxCap, Err: ErrCapacityOverflow}
	}
	return s.Resize(next)
}

// put shifts data[target:used] one slot right, stores entry at target and
// makes it current. The caller guarantees a free slot.
func (s *Sequence[T]) put(target int, entry T) {
	// copy handles the overlap, moving the highest index first.
	copy(s.data[target+1:s.used+1], s.data[target:s.used])
	s.data[target] = entry
	s.used++
	s.current = target
}

func (s *Sequence[T]) mustHaveCurrent(op string) {
	if s.current == s.used {
		panic(&ContractError{Op: op})
	}
}
