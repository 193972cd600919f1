// Package resultsheetservice implements the result sheet state machine
// inside the results-collation context.
//
// The module owns the authoritative record of reported vote entries per
// reporting unit and its approval lifecycle (draft -> submitted -> verified
// -> approved -> certified, with reject back to draft). Every successful
// transition appends a live feed event inside the same optimistic-locked
// save, so per-sheet causal order in the feed is guaranteed. Business rules
// live in application/domain layers; infrastructure stays behind ports and
// adapters.
package resultsheetservice
