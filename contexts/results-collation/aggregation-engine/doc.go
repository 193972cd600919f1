// Package aggregationengine computes derived result sheets for non-leaf
// geographic nodes inside the results-collation context.
//
// Rollups are strictly bottom-up: a node sums only its immediate children,
// and only children whose sheets are approved or certified contribute.
// Anything earlier is reported as a missing scope on a partial aggregate,
// never blocked on. Reads are lock-free; persisting a recomputed rollup
// uses the sheet store's optimistic versioning with a single internal
// retry.
package aggregationengine
