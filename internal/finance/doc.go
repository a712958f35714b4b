// Package finance holds the derived analytics of a household ledger: bill
// arithmetic, monthly snapshots, composite indices, the allocation planner and
// the advisory rules. Every function is a pure transform of its arguments;
// "today" is always passed in by the caller.
package finance
