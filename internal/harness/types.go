package harness

// Trace event types.
const (
	EventStep   = "step"
	EventChange = "change"
	EventFind   = "find"
	EventGet    = "get"
)

// TraceEvent is one entry in a scenario trace.
type TraceEvent struct {
	Type     string   `json:"type"`
	Seq      int64    `json:"seq"`
	Op       string   `json:"op,omitempty"`       // step
	Revision int64    `json:"revision,omitempty"` // step: base revision after the step
	Target   string   `json:"target,omitempty"`   // change, find, get
	Kind     string   `json:"kind,omitempty"`     // change
	Index    int      `json:"index"`              // change, get
	Items    []string `json:"items,omitempty"`    // change: new labels; find/get: the label read
	Old      []string `json:"old,omitempty"`      // change: replaced labels
	Found    bool     `json:"found,omitempty"`    // find
	Error    string   `json:"error,omitempty"`    // step, get: error code
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: no step or expectation failed.
	Pass bool `json:"pass"`

	// CollectionID is the base collection ID.
	CollectionID string `json:"collection_id"`

	// Trace contains every step and change in order.
	Trace []TraceEvent `json:"trace"`

	// Digest is the content hash of the canonical trace.
	Digest string `json:"digest"`

	// Base is the final base content.
	Base []Item `json:"base"`

	// Derived maps each derived collection to its final labels.
	Derived map[string][]string `json:"derived"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Trace:   []TraceEvent{},
		Derived: make(map[string][]string),
		Errors:  []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// CountChanges returns the number of change events recorded for target.
func (r *Result) CountChanges(target string) int {
	n := 0
	for _, ev := range r.Trace {
		if ev.Type == EventChange && ev.Target == target {
			n++
		}
	}
	return n
}
