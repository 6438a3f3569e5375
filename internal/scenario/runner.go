package scenario

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/google/uuid"

	"github.com/dshills/cursorseq/internal/logging"
	"github.com/dshills/cursorseq/internal/sequence"
)

// Runner executes scenarios.
type Runner struct {
	log     *logging.Logger
	seqOpts []sequence.Option
	newID   func() string
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) RunnerOption {
	return func(r *Runner) {
		r.log = l
	}
}

// WithSequenceOptions sets the default sequence options, replacing the
// default cap of sequence.DefaultMaxCapacity. A scenario's own capacity
// settings take precedence.
func WithSequenceOptions(opts ...sequence.Option) RunnerOption {
	return func(r *Runner) {
		r.seqOpts = opts
	}
}

// NewRunner creates a runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		log:     logging.Nop(),
		seqOpts: []sequence.Option{sequence.WithMaxCapacity(sequence.DefaultMaxCapacity)},
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.WithComponent("scenario")
	return r
}

// Report is the outcome of one scenario run.
type Report struct {
	RunID string
	Name  string
	Steps []StepResult
	// Final holds failures of the scenario-level expectations.
	Final []string
}

// StepResult is the outcome of one step.
type StepResult struct {
	Index    int
	Op       Op
	Line     int
	State    string // the sequence after the step, as printed by String
	Failures []string
}

// Failures returns the number of failed checks.
func (r *Report) Failures() int {
	n := len(r.Final)
	for _, s := range r.Steps {
		n += len(s.Failures)
	}
	return n
}

// Passed reports whether every check succeeded.
func (r *Report) Passed() bool {
	return r.Failures() == 0
}

// Write prints a human-readable summary of the report to w.
func (r *Report) Write(w io.Writer) error {
	status := "PASS"
	if !r.Passed() {
		status = "FAIL"
	}
	if _, err := fmt.Fprintf(w, "%s %s (%d steps, run %s)\n", status, r.Name, len(r.Steps), r.RunID); err != nil {
		return err
	}
	for _, s := range r.Steps {
		for _, f := range s.Failures {
			if _, err := fmt.Fprintf(w, "  step %d (%s, line %d): %s\n", s.Index+1, opName(s.Op), s.Line, f); err != nil {
				return err
			}
		}
	}
	for _, f := range r.Final {
		if _, err := fmt.Fprintf(w, "  final: %s\n", f); err != nil {
			return err
		}
	}
	return nil
}

// Run executes sc on a fresh sequence. Failed checks are recorded in
// the report; the error is for scenarios that cannot run at all and for
// cancellation of ctx, which is checked between steps.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (*Report, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	opts := slices.Clone(r.seqOpts)
	if sc.Capacity != 0 {
		opts = append(opts, sequence.WithInitialCapacity(sc.Capacity))
	}
	if sc.MaxCapacity != 0 {
		opts = append(opts, sequence.WithMaxCapacity(sc.MaxCapacity))
	}
	seq, err := sequence.New[float64](opts...)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}

	rep := &Report{RunID: r.newID(), Name: sc.Name}
	log := r.log.WithFields(map[string]any{"scenario": sc.Name, "run": rep.RunID})

	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		out := apply(seq, step)
		res := StepResult{
			Index:    i,
			Op:       step.Op,
			Line:     step.Line,
			State:    seq.String(),
			Failures: check(seq, step.Expect, out),
		}
		rep.Steps = append(rep.Steps, res)

		if len(res.Failures) > 0 {
			log.Warn("step %d (%s): %v", i+1, opName(step.Op), res.Failures)
		} else {
			log.Debug("step %d (%s): %s", i+1, opName(step.Op), res.State)
		}
	}

	if sc.Expect != nil {
		rep.Final = check(seq, sc.Expect, outcome{})
	}

	log.Info("finished with %d failures", rep.Failures())
	return rep, nil
}

// RunAll runs every scenario in order, stopping at the first one that
// cannot run.
func (r *Runner) RunAll(ctx context.Context, scs []*Scenario) ([]*Report, error) {
	reports := make([]*Report, 0, len(scs))
	for _, sc := range scs {
		rep, err := r.Run(ctx, sc)
		if rep != nil {
			reports = append(reports, rep)
		}
		if err != nil {
			return reports, err
		}
	}
	return reports, nil
}

// outcome is what happened when a step's operation ran.
type outcome struct {
	contract *sequence.ContractError
	err      error
}

func apply(seq *sequence.Sequence[float64], step Step) (out outcome) {
	defer func() {
		if r := recover(); r != nil {
			ce, ok := sequence.AsContractError(r)
			if !ok {
				panic(r)
			}
			out.contract = ce
		}
	}()

	switch step.Op {
	case OpStart:
		seq.Start()
	case OpAdvance:
		seq.Advance()
	case OpInsert:
		out.err = seq.Insert(step.Value)
	case OpAttach:
		out.err = seq.Attach(step.Value)
	case OpRemove:
		seq.RemoveCurrent()
	case OpResize:
		out.err = seq.Resize(step.N)
	}
	return out
}

func check(seq *sequence.Sequence[float64], e *Expect, out outcome) []string {
	if e == nil {
		e = &Expect{}
	}
	var failures []string
	fail := func(format string, args ...any) {
		failures = append(failures, fmt.Sprintf(format, args...))
	}

	switch {
	case e.Panics && out.contract == nil:
		fail("expected a contract violation")
	case !e.Panics && out.contract != nil:
		fail("unexpected contract violation: %v", out.contract)
	}

	isAlloc := errors.Is(out.err, sequence.ErrAllocation)
	switch {
	case e.AllocError && !isAlloc:
		fail("expected an allocation error")
	case !e.AllocError && out.err != nil:
		fail("unexpected error: %v", out.err)
	}

	if e.Items != nil {
		if got := seq.Items(); !slices.Equal(got, e.Items) {
			fail("items: got %v, want %v", got, e.Items)
		}
	}
	if e.Size != nil && seq.Size() != *e.Size {
		fail("size: got %d, want %d", seq.Size(), *e.Size)
	}
	if e.HasCurrent != nil && seq.HasCurrent() != *e.HasCurrent {
		fail("has_current: got %v, want %v", seq.HasCurrent(), *e.HasCurrent)
	}
	if e.Current != nil {
		if !seq.HasCurrent() {
			fail("current: no current item, want %s", formatValue(*e.Current))
		} else if got := seq.Current(); got != *e.Current {
			fail("current: got %s, want %s", formatValue(got), formatValue(*e.Current))
		}
	}
	if e.CapacityAtLeast != nil && seq.Capacity() < *e.CapacityAtLeast {
		fail("capacity: got %d, want at least %d", seq.Capacity(), *e.CapacityAtLeast)
	}
	return failures
}

func opName(op Op) string {
	if op == OpNone {
		return "check"
	}
	return string(op)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
