package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/cursorseq/internal/logging"
	"github.com/dshills/cursorseq/internal/sequence"
)

// DefaultTimeout bounds a single script run.
const DefaultTimeout = 5 * time.Second

// Host owns a sandboxed Lua state with the seq module installed.
// Calls are serialized by a mutex; the Lua state itself is single-threaded.
type Host struct {
	L  *lua.LState
	mu sync.Mutex

	out     io.Writer
	log     *logging.Logger
	seqOpts []sequence.Option
	timeout time.Duration

	closed bool
}

// Option configures a Host.
type Option func(*Host)

// WithOutput sets where print writes. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(h *Host) {
		h.out = w
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(h *Host) {
		h.log = l
	}
}

// WithSequenceOptions sets the options seq.new uses, replacing the
// default cap of sequence.DefaultMaxCapacity. An explicit capacity
// argument overrides the initial capacity.
func WithSequenceOptions(opts ...sequence.Option) Option {
	return func(h *Host) {
		h.seqOpts = opts
	}
}

// WithTimeout bounds each run. Zero or less disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(h *Host) {
		h.timeout = d
	}
}

// NewHost creates a host.
func NewHost(opts ...Option) *Host {
	h := &Host{
		out:     os.Stdout,
		log:     logging.Nop(),
		seqOpts: []sequence.Option{sequence.WithMaxCapacity(sequence.DefaultMaxCapacity)},
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.WithComponent("script")

	h.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(h.L)
	h.L.SetGlobal("print", h.L.NewFunction(h.print))
	registerSequenceType(h.L)
	h.L.SetGlobal("seq", h.newModule(h.L))
	return h
}

// openSafeLibraries opens base, table, string and math, then removes the
// base functions that load code or modules.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// Run executes code. name identifies the chunk in errors.
func (h *Host) Run(ctx context.Context, name, code string) error {
	return h.run(ctx, name, func(L *lua.LState) error {
		fn, err := L.Load(strings.NewReader(code), name)
		if err != nil {
			return err
		}
		L.Push(fn)
		return L.PCall(0, lua.MultRet, nil)
	})
}

// RunFile executes the Lua file at path.
func (h *Host) RunFile(ctx context.Context, path string) error {
	return h.run(ctx, filepath.Base(path), func(L *lua.LState) error {
		return L.DoFile(path)
	})
}

func (h *Host) run(ctx context.Context, name string, fn func(L *lua.LState) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHostClosed
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	h.L.SetContext(ctx)
	defer h.L.RemoveContext()

	h.log.Debug("running %s", name)
	top := h.L.GetTop()
	err := doWithRecovery(func() error { return fn(h.L) })
	h.L.SetTop(top)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		h.log.WithField("script", name).Warn("%v", err)
		return &ScriptError{Name: name, Err: err}
	}
	return nil
}

// doWithRecovery turns a panic escaping the Lua VM into an error.
func doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// print replaces the base print so output goes to the host's writer.
func (h *Host) print(L *lua.LState) int {
	top := L.GetTop()
	parts := make([]string, top)
	for i := 1; i <= top; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	_, _ = fmt.Fprintln(h.out, strings.Join(parts, "\t"))
	return 0
}

// Close releases the Lua state. Later runs return ErrHostClosed.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.L.Close()
	h.closed = true
	return nil
}
