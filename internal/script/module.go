package script

import (
	"slices"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/cursorseq/internal/sequence"
)

// sequenceTypeName names the metatable of sequence handles.
const sequenceTypeName = "cursorseq.sequence"

// newModule builds the seq table.
func (h *Host) newModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	L.SetField(mod, "new", L.NewFunction(h.newSequence))
	L.SetField(mod, "default_capacity", lua.LNumber(sequence.DefaultCapacity))
	return mod
}

// new([capacity]) -> handle
func (h *Host) newSequence(L *lua.LState) int {
	opts := h.seqOpts
	if L.GetTop() >= 1 && L.Get(1) != lua.LNil {
		opts = append(slices.Clone(opts), sequence.WithInitialCapacity(L.CheckInt(1)))
	}

	s, err := sequence.New[float64](opts...)
	if err != nil {
		L.RaiseError("seq.new: %v", err)
		return 0
	}
	L.Push(newHandle(L, s))
	return 1
}

func registerSequenceType(L *lua.LState) {
	mt := L.NewTypeMetatable(sequenceTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"start":       seqStart,
		"advance":     seqAdvance,
		"has_current": seqHasCurrent,
		"current":     seqCurrent,
		"insert":      seqInsert,
		"attach":      seqAttach,
		"remove":      seqRemove,
		"size":        seqSize,
		"capacity":    seqCapacity,
		"resize":      seqResize,
		"items":       seqItems,
		"clone":       seqClone,
	}))
	L.SetField(mt, "__tostring", L.NewFunction(seqString))
	L.SetField(mt, "__len", L.NewFunction(seqSize))
}

func newHandle(L *lua.LState, s *sequence.Sequence[float64]) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = s
	L.SetMetatable(ud, L.GetTypeMetatable(sequenceTypeName))
	return ud
}

func checkSequence(L *lua.LState, n int) *sequence.Sequence[float64] {
	ud := L.CheckUserData(n)
	if s, ok := ud.Value.(*sequence.Sequence[float64]); ok {
		return s
	}
	L.ArgError(n, "sequence expected")
	return nil
}

// guard runs fn and raises a Lua error for a contract violation.
func guard(L *lua.LState, fn func()) {
	if ce := catchContract(fn); ce != nil {
		L.RaiseError("%s", ce.Error())
	}
}

func catchContract(fn func()) (ce *sequence.ContractError) {
	defer func() {
		if r := recover(); r != nil {
			c, ok := sequence.AsContractError(r)
			if !ok {
				panic(r)
			}
			ce = c
		}
	}()
	fn()
	return nil
}

func seqStart(L *lua.LState) int {
	checkSequence(L, 1).Start()
	return 0
}

func seqAdvance(L *lua.LState) int {
	s := checkSequence(L, 1)
	guard(L, s.Advance)
	return 0
}

func seqHasCurrent(L *lua.LState) int {
	L.Push(lua.LBool(checkSequence(L, 1).HasCurrent()))
	return 1
}

func seqCurrent(L *lua.LState) int {
	s := checkSequence(L, 1)
	var v float64
	guard(L, func() { v = s.Current() })
	L.Push(lua.LNumber(v))
	return 1
}

func seqInsert(L *lua.LState) int {
	s := checkSequence(L, 1)
	if err := s.Insert(float64(L.CheckNumber(2))); err != nil {
		L.RaiseError("insert: %v", err)
	}
	return 0
}

func seqAttach(L *lua.LState) int {
	s := checkSequence(L, 1)
	if err := s.Attach(float64(L.CheckNumber(2))); err != nil {
		L.RaiseError("attach: %v", err)
	}
	return 0
}

func seqRemove(L *lua.LState) int {
	s := checkSequence(L, 1)
	guard(L, s.RemoveCurrent)
	return 0
}

func seqSize(L *lua.LState) int {
	L.Push(lua.LNumber(checkSequence(L, 1).Size()))
	return 1
}

func seqCapacity(L *lua.LState) int {
	L.Push(lua.LNumber(checkSequence(L, 1).Capacity()))
	return 1
}

func seqResize(L *lua.LState) int {
	s := checkSequence(L, 1)
	if err := s.Resize(L.CheckInt(2)); err != nil {
		L.RaiseError("resize: %v", err)
	}
	return 0
}

// items() -> {x1, x2, ...}
func seqItems(L *lua.LState) int {
	s := checkSequence(L, 1)
	tbl := L.CreateTable(s.Size(), 0)
	for i, v := range s.All() {
		tbl.RawSetInt(i+1, lua.LNumber(v))
	}
	L.Push(tbl)
	return 1
}

// clone() -> handle
func seqClone(L *lua.LState) int {
	c, err := checkSequence(L, 1).Clone()
	if err != nil {
		L.RaiseError("clone: %v", err)
		return 0
	}
	L.Push(newHandle(L, c))
	return 1
}

func seqString(L *lua.LState) int {
	L.Push(lua.LString(checkSequence(L, 1).String()))
	return 1
}
