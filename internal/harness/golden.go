package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/lockstep/internal/canon"
)

// TraceSnapshot captures the trace of one scenario run.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Trace        []TraceEvent `json:"trace"`
}

// toCanonicalMap converts a snapshot to the value canon.Marshal accepts.
// Empty fields are left out so each event only carries what its type uses.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	trace := make([]any, len(s.Trace))
	for i, ev := range s.Trace {
		m := map[string]any{
			"type": ev.Type,
			"seq":  ev.Seq,
		}
		switch ev.Type {
		case EventStep:
			m["op"] = ev.Op
			m["revision"] = ev.Revision
		case EventChange:
			m["kind"] = ev.Kind
			m["index"] = ev.Index
		case EventFind:
			m["found"] = ev.Found
		case EventGet:
			m["index"] = ev.Index
		}
		if ev.Target != "" {
			m["target"] = ev.Target
		}
		if ev.Items != nil {
			m["items"] = ev.Items
		}
		if ev.Old != nil {
			m["old"] = ev.Old
		}
		if ev.Error != "" {
			m["error"] = ev.Error
		}
		trace[i] = m
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         trace,
	}
}

// MarshalTrace returns the canonical JSON of a scenario trace.
func MarshalTrace(scenarioName string, trace []TraceEvent) ([]byte, error) {
	snapshot := TraceSnapshot{ScenarioName: scenarioName, Trace: trace}
	return canon.Marshal(snapshot.toCanonicalMap())
}

// Digest returns the content hash of a scenario trace.
func Digest(scenarioName string, trace []TraceEvent) (string, error) {
	snapshot := TraceSnapshot{ScenarioName: scenarioName, Trace: trace}
	return canon.Hash(canon.DomainTrace, snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result's trace against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	traceJSON, err := MarshalTrace(scenarioName, result.Trace)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)
	return nil
}
