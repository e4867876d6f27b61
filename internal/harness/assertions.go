package harness

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// ExpectationError describes one unmet expectation.
type ExpectationError struct {
	Field    string // e.g. "len", "derived.rows"
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *ExpectationError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "expectation failed: %s\n", e.Field)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateExpectations checks the final result against exp and returns one
// message per unmet expectation. A nil exp passes.
//
// Maps are walked in sorted key order so messages are deterministic.
func EvaluateExpectations(result *Result, exp *Expectation) []string {
	if exp == nil {
		return nil
	}

	var errs []string
	fail := func(e *ExpectationError) {
		errs = append(errs, e.Error())
	}

	if exp.Len != nil && *exp.Len != len(result.Base) {
		fail(&ExpectationError{
			Field:    "len",
			Expected: fmt.Sprintf("%d", *exp.Len),
			Actual:   fmt.Sprintf("%d", len(result.Base)),
		})
	}

	if exp.Base != nil && !slices.Equal(exp.Base, result.Base) {
		fail(&ExpectationError{
			Field:    "base",
			Expected: fmt.Sprintf("%v", exp.Base),
			Actual:   fmt.Sprintf("%v", result.Base),
		})
	}

	for _, name := range sortedKeys(exp.Derived) {
		want := exp.Derived[name]
		got := result.Derived[name]
		if !slices.Equal(want, got) {
			fail(&ExpectationError{
				Field:    "derived." + name,
				Expected: fmt.Sprintf("%q", want),
				Actual:   fmt.Sprintf("%q", got),
			})
		}
	}

	for _, name := range sortedKeys(exp.Changes) {
		want := exp.Changes[name]
		if got := result.CountChanges(name); got != want {
			fail(&ExpectationError{
				Field:    "changes." + name,
				Expected: fmt.Sprintf("%d changes", want),
				Actual:   fmt.Sprintf("%d changes", got),
			})
		}
	}

	return errs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
