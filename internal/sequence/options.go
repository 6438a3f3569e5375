package sequence

// DefaultCapacity is the initial backing store size when none is given.
const DefaultCapacity = 30

// DefaultMaxCapacity is the allocation cap the cursorseq tools apply
// unless configured otherwise. New itself applies no cap.
const DefaultMaxCapacity = 1 << 24

// Option configures a Sequence during creation.
type Option func(*options)

type options struct {
	initialCapacity int
	maxCapacity     int
}

func defaultOptions() options {
	return options{
		initialCapacity: DefaultCapacity,
	}
}

// WithInitialCapacity sets the initial backing store size.
// Values below 1 are raised to 1.
func WithInitialCapacity(n int) Option {
	return func(o *options) {
		o.initialCapacity = n
	}
}

// WithMaxCapacity caps the size of any backing store the sequence
// allocates. Allocations above the cap fail with ErrCapacityLimit.
// Zero or negative means no cap.
func WithMaxCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxCapacity = n
		} else {
			o.maxCapacity = 0
		}
	}
}
