package sequence

import "runtime"

// GrowCapacity returns the capacity a full sequence grows to:
// floor(1.25*c) + 1. The result is always greater than c for c >= 0,
// so a capacity of 1 grows to 2.
func GrowCapacity(c int) int {
	return c + c/4 + 1
}

// allocate returns a backing store of n slots. A request above limit
// (when limit > 0) or one the runtime rejects is reported as *AllocError.
func allocate[T any](n, limit int) (buf []T, err error) {
	if limit > 0 && n > limit {
		return nil, &AllocError{Requested: n, Limit: limit, Err: ErrCapacityLimit}
	}

	defer func() {
		if r := recover(); r != nil {
			re, ok := r.(runtime.Error)
			if !ok {
				panic(r)
			}
			buf = nil
			err = &AllocError{Requested: n, Limit: limit, Err: re}
		}
	}()

	return make([]T, n), nil
}
