// Package reconcile merges recommended configuration fragments into an
// existing git config store without destroying user-owned values.
//
// The work is split into two phases. NewPlan computes an ordered
// ReconciliationPlan from the store and the fragments before anything is
// mutated, so the plan can be inspected or printed. Apply then replays the
// plan's set actions and persists them in a single atomic write, taking
// one timestamped backup per run. Verify re-checks the store against the
// same effective mapping and reports discrepancies.
//
// Running plan and apply twice in a row is guaranteed to leave the store
// unchanged on the second pass.
package reconcile
