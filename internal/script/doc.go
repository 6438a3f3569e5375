// Package script runs Lua scripts against sequences.
//
// Scripts run in a sandboxed gopher-lua state with only the base, table,
// string and math libraries. Functions that load code or modules are
// removed and print writes to the host's output. A global seq module creates
// Sequence[float64] handles:
//
//	local s = seq.new(1)       -- capacity is optional
//	s:attach(10)
//	s:attach(20)
//	s:start()
//	s:insert(5)
//	print(s)                   -- [(5) 10 20]
//	s:advance()
//	s:remove()
//	assert(s:current() == 20 and #s == 2)
//	s:advance()
//	local ok = pcall(s.current, s)   -- false: no current item
//
// Handle methods are start, advance, has_current, current, insert,
// attach, remove, size, capacity, resize, items and clone. Calling
// advance, current or remove without a current item raises a Lua error,
// as does a failed allocation.
//
// Scripts stop when the context passed to Run or RunFile is done or the
// host's timeout expires.
package script
