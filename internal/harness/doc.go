// Package harness runs collection scenarios: scripted sequences of base
// mutations against a real base collection with observable derived
// collections attached.
//
// # Scenario Format
//
// Scenarios are YAML files, decoded strictly (unknown fields are errors) and
// validated against an embedded CUE schema:
//
//	name: swap_rows
//	description: "Swap exchanges two rows in every derived collection"
//	initial:
//	  - { name: apple, qty: 1 }
//	  - { name: banana, qty: 2 }
//	derived: [rows]
//	steps:
//	  - op: swap
//	    a: 0
//	    b: 1
//	  - op: find
//	    target: rows
//	    item: { name: apple, qty: 1 }
//	    expect_found: true
//	expect:
//	  derived:
//	    rows: ["BANANA x2", "APPLE x1"]
//	  changes:
//	    rows: 2
//
// Supported ops: set, append, append_range, clear, swap, attach, detach,
// find, get.
//
// # Checks
//
// After every step the harness verifies that every attached derived
// collection is index-aligned with the base. The expect block is evaluated
// once all steps ran. Failures are collected in Result.Errors; they never
// abort the run.
//
// # Deterministic Traces
//
// Every step and every Change an observable emits is appended to the trace,
// stamped by a deterministic logical clock. The base ID is fixed per
// scenario. The same scenario therefore always produces a byte-identical
// canonical trace, which is what golden files compare.
package harness
