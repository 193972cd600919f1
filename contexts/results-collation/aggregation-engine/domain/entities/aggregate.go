package entities

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Sheet statuses that allow a child to contribute to a parent rollup.
const (
	StatusApproved  = "approved"
	StatusCertified = "certified"
)

func Aggregable(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case StatusApproved, StatusCertified:
		return true
	default:
		return false
	}
}

type Entry struct {
	PositionID  string
	CandidateID string
	Votes       int64
}

type Totals struct {
	RegisteredVoters int64
	VotesCast        int64
	ValidVotes       int64
	RejectedVotes    int64
}

// ChildSheet is the read model the engine consumes: the committed state of
// one immediate child's sheet, authoritative or derived.
type ChildSheet struct {
	SheetID    string
	ScopeID    string
	ScopeLevel string
	Status     string
	Derived    bool
	Entries    []Entry
	Totals     Totals
	TotalsSet  bool
	Version    int64
	UpdatedAt  time.Time
}

// ConsistencyWarning surfaces a totals invariant violation found while
// rolling up. Aggregation still completes; visibility is never blocked by
// one bad leaf.
type ConsistencyWarning struct {
	ScopeID string
	Reason  string
}

// Aggregate is a derived rollup for one non-leaf node.
type Aggregate struct {
	ElectionID    string
	NodeID        string
	NodeLevel     string
	Entries       []Entry
	Totals        Totals
	Partial       bool
	MissingScopes []string
	Warnings      []ConsistencyWarning
	ChildCount    int
	Contributing  int
	// MaxChildVersion keys caches: unchanged children mean an unchanged
	// aggregate, so repeat computation is bit-identical.
	MaxChildVersion int64
	ComputedAt      time.Time
}

// Combine folds contributing child sheets into a deterministic aggregate:
// entries summed by stable (position, candidate) key, candidates never
// dropped, missing scopes sorted, warnings in child order.
func Combine(electionID string, nodeID string, nodeLevel string, children []ChildSheet, missing []string, computedAt time.Time) Aggregate {
	sums := make(map[Entry]int64)
	var keys []Entry
	totals := Totals{}
	var warnings []ConsistencyWarning
	var maxVersion int64

	for _, child := range children {
		var positionSums = make(map[string]int64)
		for _, entry := range child.Entries {
			key := Entry{
				PositionID:  strings.TrimSpace(entry.PositionID),
				CandidateID: strings.TrimSpace(entry.CandidateID),
			}
			if _, seen := sums[key]; !seen {
				keys = append(keys, key)
			}
			sums[key] += entry.Votes
			positionSums[key.PositionID] += entry.Votes
		}
		totals.RegisteredVoters += child.Totals.RegisteredVoters
		totals.VotesCast += child.Totals.VotesCast
		totals.ValidVotes += child.Totals.ValidVotes
		totals.RejectedVotes += child.Totals.RejectedVotes
		for _, sum := range positionSums {
			if sum > child.Totals.ValidVotes {
				warnings = append(warnings, ConsistencyWarning{
					ScopeID: child.ScopeID,
					Reason:  fmt.Sprintf("entry votes %d exceed valid votes %d", sum, child.Totals.ValidVotes),
				})
				break
			}
		}
		if child.Version > maxVersion {
			maxVersion = child.Version
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].PositionID != keys[j].PositionID {
			return keys[i].PositionID < keys[j].PositionID
		}
		return keys[i].CandidateID < keys[j].CandidateID
	})
	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, Entry{
			PositionID:  key.PositionID,
			CandidateID: key.CandidateID,
			Votes:       sums[key],
		})
	}

	warnings = append(warnings, validateTotals(totals, entries)...)
	sorted := append([]string(nil), missing...)
	sort.Strings(sorted)

	return Aggregate{
		ElectionID:      electionID,
		NodeID:          nodeID,
		NodeLevel:       nodeLevel,
		Entries:         entries,
		Totals:          totals,
		Partial:         len(sorted) > 0,
		MissingScopes:   sorted,
		Warnings:        warnings,
		ChildCount:      len(children) + len(sorted),
		Contributing:    len(children),
		MaxChildVersion: maxVersion,
		ComputedAt:      computedAt,
	}
}

// validateTotals re-checks the sheet invariants on the rolled-up numbers.
// A violation here means a data problem in a child, surfaced as warnings.
func validateTotals(totals Totals, entries []Entry) []ConsistencyWarning {
	var warnings []ConsistencyWarning
	if totals.VotesCast != totals.ValidVotes+totals.RejectedVotes {
		warnings = append(warnings, ConsistencyWarning{
			Reason: fmt.Sprintf("aggregate votes cast %d does not equal valid %d + rejected %d",
				totals.VotesCast, totals.ValidVotes, totals.RejectedVotes),
		})
	}
	if totals.VotesCast > totals.RegisteredVoters {
		warnings = append(warnings, ConsistencyWarning{
			Reason: fmt.Sprintf("aggregate votes cast %d exceeds registered voters %d",
				totals.VotesCast, totals.RegisteredVoters),
		})
	}
	positionSums := make(map[string]int64)
	for _, entry := range entries {
		positionSums[entry.PositionID] += entry.Votes
	}
	var positions []string
	for position := range positionSums {
		positions = append(positions, position)
	}
	sort.Strings(positions)
	for _, position := range positions {
		if positionSums[position] > totals.ValidVotes {
			warnings = append(warnings, ConsistencyWarning{
				Reason: fmt.Sprintf("aggregate entry votes %d for position %s exceed valid votes %d",
					positionSums[position], position, totals.ValidVotes),
			})
		}
	}
	return warnings
}
