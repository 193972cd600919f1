// Package hierarchyindex owns the geographic tree used by results
// collation: Region -> Constituency -> Electoral Area -> Polling Station,
// each node carrying a registered-voter count.
//
// The tree is loaded once per election and never mutated afterwards. The
// module only serves lookups (parent/children, level listings, leaf counts,
// ancestor chains) to collation and dashboard callers.
package hierarchyindex
