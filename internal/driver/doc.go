// Package driver implements the interactive test driver for sequences.
//
// A Driver owns one live Sequence[float64] and a save slot, and executes
// one command per line:
//
//	seq> attach 10
//	seq> attach 20
//	seq> start
//	seq> insert 5
//	seq> print
//	[(5) 10 20]
//	seq> current
//	5
//
// Commands that need a current item fail with a contract violation when
// there is none. The driver reports that failure and keeps going; it
// never lets the panic escape. Run "help" for the full command list.
package driver
