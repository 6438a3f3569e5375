// Package scenario runs scripted operation sequences, written as YAML,
// against a Sequence[float64] and checks expectations along the way.
//
// A file holds one or more documents separated by "---":
//
//	name: remove the last item
//	capacity: 1
//	steps:
//	  - attach: 1
//	  - attach: 2
//	  - remove            # bare names for start, advance and remove
//	  - expect: {has_current: false, items: [1]}
//	  - advance:          # no current item: a contract violation
//	    expect: {panics: true}
//	expect:
//	  size: 1
//
// A step holds at most one operation (start, advance, insert, attach,
// remove, resize) and an optional expect block; a step with only an
// expect block just checks the state. Expectations are items, size,
// current, has_current, capacity_at_least, panics and alloc_error.
package scenario
