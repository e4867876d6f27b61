package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/lockstep/internal/collection"
	"github.com/roach88/lockstep/internal/journal"
	"github.com/roach88/lockstep/internal/testutil"
)

// RunOption configures a scenario run.
type RunOption func(*runOptions)

type runOptions struct {
	journal *journal.Store
	logger  *slog.Logger
}

// WithJournal records every base operation to s.
func WithJournal(s *journal.Store) RunOption {
	return func(o *runOptions) {
		o.journal = s
	}
}

// WithLogger sets the logger handed to the base collection and the journal
// recorder. Default: logs are discarded.
func WithLogger(logger *slog.Logger) RunOption {
	return func(o *runOptions) {
		o.logger = logger
	}
}

// Harness executes one scenario against a real base collection.
type Harness struct {
	base   *collection.Base[Item, Row]
	views  map[string]*view
	order  []string // view names in attach order
	clock  *testutil.DeterministicClock
	logger *slog.Logger
	result *Result
}

// view is a named observable derived collection.
type view struct {
	obs      *collection.Observable[Item, Row]
	attached bool
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Create the base from scenario.Initial with a fixed ID
//  2. Attach the declared observables (and the journal recorder, if any)
//  3. Execute steps, checking index alignment after each one
//  4. Evaluate the expect block and compute the trace digest
//
// Step failures and unmet expectations are reported in Result.Errors.
// An error is returned only when the run itself cannot proceed.
func Run(scenario *Scenario, opts ...RunOption) (*Result, error) {
	o := &runOptions{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(o)
	}

	id := scenario.CollectionID
	if id == "" {
		id = scenario.Name
	}

	h := &Harness{
		base: collection.NewFrom(ProjectRow, scenario.Initial,
			collection.WithLogger(o.logger),
			collection.WithIDGenerator(testutil.NewFixedIDGenerator(id)),
		),
		views:  make(map[string]*view),
		clock:  testutil.NewDeterministicClock(),
		logger: o.logger,
		result: NewResult(),
	}
	h.result.CollectionID = h.base.ID()

	var rec *journal.Recorder[Row]
	if o.journal != nil {
		var err error
		rec, err = journal.Record(context.Background(), o.journal, h.base, scenario.Name, EncodeRow,
			journal.WithRecorderLogger(o.logger))
		if err != nil {
			return nil, fmt.Errorf("failed to start journal: %w", err)
		}
		defer rec.Stop()
	}

	for _, name := range scenario.Derived {
		h.attach(name)
	}
	h.checkAligned("initial")

	for i, step := range scenario.Steps {
		h.executeStep(i, step)
		h.checkAligned(fmt.Sprintf("steps[%d] (%s)", i, step.Op))
	}

	if rec != nil {
		if err := rec.Err(); err != nil {
			return nil, fmt.Errorf("journal: %w", err)
		}
	}

	h.result.Base = h.base.Items()
	for _, name := range h.order {
		h.result.Derived[name] = Labels(h.views[name].obs.Items())
	}

	for _, msg := range EvaluateExpectations(h.result, scenario.Expect) {
		h.result.AddError(msg)
	}

	digest, err := Digest(scenario.Name, h.result.Trace)
	if err != nil {
		return nil, fmt.Errorf("failed to compute trace digest: %w", err)
	}
	h.result.Digest = digest

	return h.result, nil
}

// executeStep runs one step. An invariant violation raised by the
// collection package is recovered and reported as a step failure.
func (h *Harness) executeStep(i int, step Step) {
	defer func() {
		if r := recover(); r != nil {
			if !collection.IsInvariantViolation(r) {
				panic(r)
			}
			h.result.AddError(fmt.Sprintf("steps[%d] (%s): %v", i, step.Op, r))
		}
	}()

	event := len(h.result.Trace)
	h.result.Trace = append(h.result.Trace, TraceEvent{
		Type: EventStep,
		Seq:  h.clock.Next(),
		Op:   step.Op,
	})

	err := h.apply(step)
	h.result.Trace[event].Revision = h.base.Revision()

	code := errorCode(err)
	h.result.Trace[event].Error = code

	switch {
	case step.ExpectError != "" && code != step.ExpectError:
		h.result.AddError(fmt.Sprintf("steps[%d] (%s): expected error %s, got %v", i, step.Op, step.ExpectError, err))
	case step.ExpectError == "" && err != nil:
		h.result.AddError(fmt.Sprintf("steps[%d] (%s): %v", i, step.Op, err))
	}

	if step.Op == OpFind && step.ExpectFound != nil {
		last := h.result.Trace[len(h.result.Trace)-1]
		if last.Found != *step.ExpectFound {
			h.result.AddError(fmt.Sprintf("steps[%d] (find): expected found=%t, got %t", i, *step.ExpectFound, last.Found))
		}
	}

	h.logger.Debug("scenario step completed",
		"step", i,
		"op", step.Op,
		"revision", h.base.Revision(),
		"error", code,
	)
}

func (h *Harness) apply(step Step) error {
	switch step.Op {
	case OpSet:
		return h.base.Set(*step.Index, *step.Item)
	case OpAppend:
		h.base.Append(*step.Item)
	case OpAppendRange:
		h.base.AppendRange(step.Items)
	case OpClear:
		h.base.Clear()
	case OpSwap:
		return h.base.Swap(*step.A, *step.B)
	case OpAttach:
		h.attach(step.Target)
	case OpDetach:
		v := h.views[step.Target]
		v.obs.Detach()
		v.attached = false
	case OpFind:
		h.find(step.Target, *step.Item)
	case OpGet:
		return h.get(step.Target, *step.Index)
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
	return nil
}

func (h *Harness) attach(name string) {
	obs := collection.AttachObservable(h.base)
	obs.Subscribe(func(c collection.Change[Row]) {
		h.result.Trace = append(h.result.Trace, TraceEvent{
			Type:   EventChange,
			Seq:    h.clock.Next(),
			Target: name,
			Kind:   c.Kind.String(),
			Index:  c.StartIndex,
			Items:  labelsOrNil(c.Items),
			Old:    labelsOrNil(c.OldItems),
		})
	})

	h.views[name] = &view{obs: obs, attached: true}
	h.order = append(h.order, name)
}

func (h *Harness) find(target string, it Item) {
	ev := TraceEvent{Type: EventFind, Seq: h.clock.Next(), Target: target}
	if row, ok := h.views[target].obs.Find(it); ok {
		ev.Found = true
		ev.Items = []string{row.Label}
	}
	h.result.Trace = append(h.result.Trace, ev)
}

func (h *Harness) get(target string, index int) error {
	ev := TraceEvent{Type: EventGet, Seq: h.clock.Next(), Target: target, Index: index}

	var (
		label string
		err   error
	)
	if target == "" {
		var it Item
		it, err = h.base.Get(index)
		label = ProjectRow(it).Label
	} else {
		var row Row
		row, err = h.views[target].obs.Get(index)
		label = row.Label
	}

	if err != nil {
		ev.Error = errorCode(err)
	} else {
		ev.Items = []string{label}
	}
	h.result.Trace = append(h.result.Trace, ev)
	return err
}

// checkAligned verifies every attached collection against the base.
func (h *Harness) checkAligned(where string) {
	want := make([]string, 0, h.base.Len())
	for _, it := range h.base.All() {
		want = append(want, ProjectRow(it).Label)
	}

	for _, name := range h.order {
		v := h.views[name]
		if !v.attached {
			continue
		}
		if got := Labels(v.obs.Items()); !slices.Equal(got, want) {
			h.result.AddError(fmt.Sprintf("%s: %s out of sync: got %v, base projects to %v", where, name, got, want))
		}
	}
}

func labelsOrNil(rows []Row) []string {
	if rows == nil {
		return nil
	}
	return Labels(rows)
}

// errorCode maps a collection error to its code, or "" for nil.
func errorCode(err error) string {
	if err == nil {
		return ""
	}
	var cerr *collection.Error
	if errors.As(err, &cerr) {
		return string(cerr.Code)
	}
	return "ERROR"
}
