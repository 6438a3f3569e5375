// Package sequence provides Sequence, an ordered container over a single
// contiguous backing store with a built-in cursor.
//
// # Cursor Model
//
// A Sequence tracks at most one current item. The cursor is an index in
// [0, Size()]; the value Size() means "no current item". Every mutation
// keeps that rule:
//
//   - Start sets the cursor to 0. An empty sequence still has no current item.
//   - Advance steps past the current item. Stepping past the last item
//     leaves no current item.
//   - Insert puts an entry before the current item, or at the front when
//     there is none, and makes it current.
//   - Attach puts an entry after the current item, or at the end when there
//     is none, and makes it current.
//   - RemoveCurrent removes the current item; its successor, if any,
//     becomes current.
//
// Basic usage:
//
//	s, _ := sequence.New[int](sequence.WithInitialCapacity(1))
//	s.Attach(10)           // [(10)]
//	s.Attach(20)           // [10 (20)]
//	s.Start()              // [(10) 20]
//	s.Insert(5)            // [(5) 10 20]
//
//	for s.Start(); s.HasCurrent(); s.Advance() {
//	    fmt.Println(s.Current())
//	}
//
// # Growth
//
// When Insert or Attach find the backing store full, it is reallocated to
// GrowCapacity(c) = floor(1.25*c) + 1 slots. Resize sets the capacity
// explicitly but never below the current size.
//
// # Error Handling
//
// There are two kinds of failure:
//
//   - Contract violations: Advance, Current and RemoveCurrent panic with a
//     *ContractError (wrapping ErrNoCurrentItem) when there is no current
//     item. These are programming errors; check HasCurrent first.
//   - Allocation failures: New, Clone, Assign, Resize, Insert and Attach
//     return an *AllocError (matching ErrAllocation) when a backing store
//     cannot be allocated, including requests above WithMaxCapacity.
//     The sequence is unchanged when this happens.
//
// # Copying
//
// Clone and Assign produce independent copies; no storage is shared
// between sequences.
//
// # Thread Safety
//
// Sequence is not thread-safe. Callers must serialize access.
package sequence
