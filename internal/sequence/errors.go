package sequence

import (
	"errors"
	"fmt"
)

// Errors reported by sequence operations.
var (
	// ErrNoCurrentItem is the usual cause of a contract violation: a
	// cursor-dependent operation was called while no item is current.
	ErrNoCurrentItem = errors.New("no current item")

	// ErrNilSequence is the contract violation cause when a nil sequence
	// is passed where one is required.
	ErrNilSequence = errors.New("nil sequence")

	// ErrAllocation indicates the backing store could not be allocated.
	// Every *AllocError matches it with errors.Is.
	ErrAllocation = errors.New("sequence allocation failed")

	// ErrCapacityLimit indicates a requested capacity exceeds the limit
	// configured with WithMaxCapacity.
	ErrCapacityLimit = errors.New("capacity limit exceeded")

	// ErrCapacityOverflow indicates the next growth step does not fit in an int.
	ErrCapacityOverflow = errors.New("capacity overflow")
)

// AllocError describes a failed attempt to allocate a backing store.
// The sequence that attempted the allocation is left unchanged.
type AllocError struct {
	Requested int   // slot count that was requested
	Limit     int   // configured limit, 0 when unlimited
	Err       error // underlying cause
}

func (e *AllocError) Error() string {
	if e.Limit > 0 {
		return fmt.Sprintf("sequence: allocate %d slots (limit %d): %v", e.Requested, e.Limit, e.Err)
	}
	return fmt.Sprintf("sequence: allocate %d slots: %v", e.Requested, e.Err)
}

func (e *AllocError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrAllocation.
func (e *AllocError) Is(target error) bool {
	return target == ErrAllocation
}

// ContractError is the panic value raised when an operation's
// precondition does not hold, such as Current without a current item or
// Assign from nil. It is a programming error and is never returned as an
// error value.
type ContractError struct {
	Op  string
	Err error // nil means ErrNoCurrentItem
}

func (e *ContractError) Error() string {
	return "sequence: " + e.Op + ": " + e.Unwrap().Error()
}

func (e *ContractError) Unwrap() error {
	if e.Err == nil {
		return ErrNoCurrentItem
	}
	return e.Err
}

// AsContractError reports whether a recovered panic value is a contract
// violation raised by this package.
func AsContractError(r any) (*ContractError, bool) {
	err, ok := r.(error)
	if !ok {
		return nil, false
	}
	var ce *ContractError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
