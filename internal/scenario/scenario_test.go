package scenario

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/cursorseq/internal/sequence"
)

func loadTestdata(t *testing.T, name string) []*Scenario {
	t.Helper()
	scs, err := Load(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("Load(%s) error = %v", name, err)
	}
	return scs
}

func newTestRunner() *Runner {
	r := NewRunner()
	r.newID = func() string { return "test-run" }
	return r
}

func TestParseSteps(t *testing.T) {
	scs := loadTestdata(t, "basic.yaml")
	if len(scs) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(scs))
	}

	sc := scs[0]
	if sc.Name != "worked example" {
		t.Errorf("expected name %q, got %q", "worked example", sc.Name)
	}
	if sc.Capacity != 1 {
		t.Errorf("expected capacity 1, got %d", sc.Capacity)
	}

	wantOps := []Op{OpAttach, OpAttach, OpStart, OpInsert, OpNone, OpAdvance, OpRemove, OpNone, OpAdvance, OpNone}
	if len(sc.Steps) != len(wantOps) {
		t.Fatalf("expected %d steps, got %d", len(wantOps), len(sc.Steps))
	}
	for i, op := range wantOps {
		if sc.Steps[i].Op != op {
			t.Errorf("step %d: expected op %q, got %q", i, op, sc.Steps[i].Op)
		}
	}
	if sc.Steps[3].Value != 5 {
		t.Errorf("insert argument: got %v", sc.Steps[3].Value)
	}
	if sc.Steps[0].Line == 0 {
		t.Error("expected step line numbers to be recorded")
	}

	// "advance:" with no value selects the operation.
	last := scs[1].Steps[len(scs[1].Steps)-1]
	if last.Op != OpAdvance || last.Expect == nil || !last.Expect.Panics {
		t.Errorf("expected advance expecting a panic, got %+v", last)
	}
}

func TestParseEmptyItems(t *testing.T) {
	scs, err := Parse(strings.NewReader("steps:\n  - expect: {items: []}\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	e := scs[0].Steps[0].Expect
	if e.Items == nil || len(e.Items) != 0 {
		t.Errorf("expected an empty, non-nil items list, got %#v", e.Items)
	}
	if scs[0].Name != "scenario 1" {
		t.Errorf("expected generated name, got %q", scs[0].Name)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", ErrNoScenarios},
		{"unknown top-level key", "name: x\nsteeps: []\n", ErrInvalidScenario},
		{"unknown operation", "steps:\n  - jump\n", ErrInvalidScenario},
		{"unknown step key", "steps:\n  - jump: 1\n", ErrInvalidScenario},
		{"missing argument", "steps:\n  - attach\n", ErrInvalidScenario},
		{"bad argument", "steps:\n  - attach: ten\n", ErrInvalidScenario},
		{"unknown expectation", "steps:\n  - expect: {sise: 1}\n", ErrInvalidScenario},
		{"two operations", "steps:\n  - attach: 1\n    insert: 2\n", ErrInvalidScenario},
		{"empty step", "steps:\n  - {}\n", ErrInvalidScenario},
		{"sequence step", "steps:\n  - [1, 2]\n", ErrInvalidScenario},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseStepError(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "bad.yaml"))

	var se *StepError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StepError, got %v", err)
	}
	if se.Scenario != "two operations in one step" || se.Index != 0 {
		t.Errorf("unexpected step error %+v", se)
	}
}

func TestDisabledFlagOperation(t *testing.T) {
	scs, err := Parse(strings.NewReader("steps:\n  - advance: false\n    expect: {size: 0}\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if op := scs[0].Steps[0].Op; op != OpNone {
		t.Errorf("advance: false should not select an operation, got %q", op)
	}
}

func TestRunPassing(t *testing.T) {
	for _, file := range []string{"basic.yaml", "limits.yaml"} {
		for _, sc := range loadTestdata(t, file) {
			t.Run(sc.Name, func(t *testing.T) {
				rep, err := newTestRunner().Run(context.Background(), sc)
				if err != nil {
					t.Fatalf("Run() error = %v", err)
				}
				if !rep.Passed() {
					var buf bytes.Buffer
					_ = rep.Write(&buf)
					t.Errorf("expected scenario to pass:\n%s", buf.String())
				}
				if len(rep.Steps) != len(sc.Steps) {
					t.Errorf("expected %d step results, got %d", len(sc.Steps), len(rep.Steps))
				}
			})
		}
	}
}

func TestRunRecordsState(t *testing.T) {
	sc := loadTestdata(t, "basic.yaml")[0]
	rep, err := newTestRunner().Run(context.Background(), sc)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := rep.Steps[3].State; got != "[(5) 10 20]" {
		t.Errorf("state after insert: got %q", got)
	}
	if got := rep.Steps[6].State; got != "[5 (20)]" {
		t.Errorf("state after remove: got %q", got)
	}
	if rep.RunID != "test-run" {
		t.Errorf("expected run id from the generator, got %q", rep.RunID)
	}
}

func TestRunFailing(t *testing.T) {
	sc := loadTestdata(t, "failing.yaml")[0]
	rep, err := newTestRunner().Run(context.Background(), sc)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if rep.Passed() {
		t.Fatal("expected failures")
	}
	if rep.Failures() != 3 {
		t.Errorf("expected 3 failures, got %d", rep.Failures())
	}
	if len(rep.Steps[0].Failures) != 1 || !strings.Contains(rep.Steps[0].Failures[0], "current: got 1, want 2") {
		t.Errorf("unexpected step failures %v", rep.Steps[0].Failures)
	}

	var buf bytes.Buffer
	if err := rep.Write(&buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"FAIL wrong expectations", "step 1 (attach", "final: has_current", "final: size: got 1, want 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("report is missing %q:\n%s", want, out)
		}
	}
}

func TestRunUnexpectedViolation(t *testing.T) {
	scs, err := Parse(strings.NewReader("steps:\n  - remove\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	rep, err := newTestRunner().Run(context.Background(), scs[0])
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if rep.Passed() || !strings.Contains(rep.Steps[0].Failures[0], "unexpected contract violation") {
		t.Errorf("expected an unexpected violation, got %v", rep.Steps[0].Failures)
	}
}

func TestRunnerSequenceOptions(t *testing.T) {
	scs, err := Parse(strings.NewReader("steps:\n  - attach: 1\n  - attach: 2\n    expect: {alloc_error: true}\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	r := NewRunner(WithSequenceOptions(sequence.WithInitialCapacity(1), sequence.WithMaxCapacity(1)))
	rep, err := r.Run(context.Background(), scs[0])
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !rep.Passed() {
		t.Errorf("expected the runner's limit to apply, got %v", rep.Steps[1].Failures)
	}
}

func TestRunnerDefaultCap(t *testing.T) {
	scs, err := Parse(strings.NewReader("steps:\n  - attach: 1\n  - resize: 4000000000000\n    expect: {alloc_error: true, items: [1]}\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	rep, err := newTestRunner().Run(context.Background(), scs[0])
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !rep.Passed() {
		t.Errorf("expected the default cap to reject the resize, got %v", rep.Steps[1].Failures)
	}
}

func TestRunInitialAllocationFails(t *testing.T) {
	sc := &Scenario{Name: "too big", Capacity: 10, MaxCapacity: 5, Steps: []Step{{Op: OpStart}}}
	_, err := newTestRunner().Run(context.Background(), sc)
	if !errors.Is(err, sequence.ErrAllocation) {
		t.Errorf("expected ErrAllocation, got %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	sc := loadTestdata(t, "basic.yaml")[0]
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := newTestRunner().Run(ctx, sc)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(rep.Steps) != 0 {
		t.Errorf("expected no steps to run, got %d", len(rep.Steps))
	}
}

func TestRunAll(t *testing.T) {
	scs := append(loadTestdata(t, "basic.yaml"), loadTestdata(t, "failing.yaml")...)
	reports, err := newTestRunner().RunAll(context.Background(), scs)
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(reports))
	}
	if !reports[0].Passed() || !reports[1].Passed() || reports[2].Passed() {
		t.Error("unexpected pass/fail pattern")
	}
}
