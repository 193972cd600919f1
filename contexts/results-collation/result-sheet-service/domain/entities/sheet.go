package entities

import (
	"fmt"
	"sort"
	"strings"
	"time"

	domainerrors "tally/contexts/results-collation/result-sheet-service/domain/errors"
)

type SheetStatus string

const (
	StatusDraft     SheetStatus = "draft"
	StatusSubmitted SheetStatus = "submitted"
	StatusVerified  SheetStatus = "verified"
	StatusApproved  SheetStatus = "approved"
	StatusCertified SheetStatus = "certified"
)

func (s SheetStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusVerified, StatusApproved, StatusCertified:
		return true
	default:
		return false
	}
}

// Aggregable reports whether the sheet may contribute to a parent rollup.
func (s SheetStatus) Aggregable() bool {
	return s == StatusApproved || s == StatusCertified
}

type TransitionAction string

const (
	ActionSubmit  TransitionAction = "submit"
	ActionVerify  TransitionAction = "verify"
	ActionApprove TransitionAction = "approve"
	ActionCertify TransitionAction = "certify"
	ActionReject  TransitionAction = "reject"
)

// NextStatus is the transition table. Any pair not listed is illegal.
func NextStatus(current SheetStatus, action TransitionAction) (SheetStatus, bool) {
	switch action {
	case ActionSubmit:
		if current == StatusDraft {
			return StatusSubmitted, true
		}
	case ActionVerify:
		if current == StatusSubmitted {
			return StatusVerified, true
		}
	case ActionApprove:
		if current == StatusVerified {
			return StatusApproved, true
		}
	case ActionCertify:
		if current == StatusApproved {
			return StatusCertified, true
		}
	case ActionReject:
		if current == StatusSubmitted || current == StatusVerified {
			return StatusDraft, true
		}
	}
	return "", false
}

// Entry is one (position, candidate) vote line. VotesInWords is the
// hand-written tally; a mismatch against the numeric count is recorded,
// not rejected.
type Entry struct {
	PositionID    string
	CandidateID   string
	Votes         int64
	VotesInWords  string
	WordsMismatch bool
}

func (e Entry) Key() EntryKey {
	return EntryKey{
		PositionID:  strings.TrimSpace(e.PositionID),
		CandidateID: strings.TrimSpace(e.CandidateID),
	}
}

type EntryKey struct {
	PositionID  string
	CandidateID string
}

// SortEntries orders entries by the stable (position, candidate) key used
// everywhere aggregation and comparison happen.
func SortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].PositionID != entries[j].PositionID {
			return entries[i].PositionID < entries[j].PositionID
		}
		return entries[i].CandidateID < entries[j].CandidateID
	})
}

type Totals struct {
	RegisteredVoters int64
	VotesCast        int64
	ValidVotes       int64
	RejectedVotes    int64
}

// Validate enforces the hard arithmetic invariants:
// cast = valid + rejected, cast <= registered, nothing negative.
func (t Totals) Validate() error {
	if t.RegisteredVoters < 0 || t.VotesCast < 0 || t.ValidVotes < 0 || t.RejectedVotes < 0 {
		return &domainerrors.TotalsInconsistentError{Reason: "totals must be non-negative"}
	}
	if t.VotesCast != t.ValidVotes+t.RejectedVotes {
		return &domainerrors.TotalsInconsistentError{
			Reason: fmt.Sprintf("votes cast %d must equal valid %d + rejected %d",
				t.VotesCast, t.ValidVotes, t.RejectedVotes),
		}
	}
	if t.VotesCast > t.RegisteredVoters {
		return &domainerrors.TotalsInconsistentError{
			Reason: fmt.Sprintf("votes cast %d exceeds registered voters %d",
				t.VotesCast, t.RegisteredVoters),
		}
	}
	return nil
}

func (t Totals) Add(other Totals) Totals {
	return Totals{
		RegisteredVoters: t.RegisteredVoters + other.RegisteredVoters,
		VotesCast:        t.VotesCast + other.VotesCast,
		ValidVotes:       t.ValidVotes + other.ValidVotes,
		RejectedVotes:    t.RejectedVotes + other.RejectedVotes,
	}
}

type RejectionRecord struct {
	Reason     string
	RejectedBy string
	FromStatus SheetStatus
	RejectedAt time.Time
}

// Sheet is the authoritative record for one reporting unit. Leaf (station)
// sheets are hand-edited; Derived sheets are rollups the aggregation engine
// computes and are never edited manually.
type Sheet struct {
	SheetID    string
	ElectionID string
	ScopeID    string
	ScopeLevel string
	Derived    bool
	Status     SheetStatus

	Entries       []Entry
	Totals        Totals
	TotalsSet     bool
	TotalsFlagged bool

	CreatedBy string

	SubmittedBy string
	SubmittedAt *time.Time

	VerifiedBy        string
	VerifiedAt        *time.Time
	VerificationNotes string

	ApprovedBy    string
	ApprovedAt    *time.Time
	ApprovalNotes string

	CertifiedBy        string
	CertifiedAt        *time.Time
	CertificationNotes string

	RejectionReason string
	RejectionCount  int
	Rejections      []RejectionRecord

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PositionSums returns total entry votes per position.
func (s Sheet) PositionSums() map[string]int64 {
	sums := make(map[string]int64)
	for _, entry := range s.Entries {
		sums[strings.TrimSpace(entry.PositionID)] += entry.Votes
	}
	return sums
}

// MaxPositionSum is the largest per-position entry total; no position's
// entry sum may exceed the sheet's valid votes.
func (s Sheet) MaxPositionSum() int64 {
	var max int64
	for _, sum := range s.PositionSums() {
		if sum > max {
			max = sum
		}
	}
	return max
}

// EntriesConsistentWith reports whether recorded entries fit inside the
// hand-tallied valid vote count.
func (s Sheet) EntriesConsistentWith(totals Totals) bool {
	return s.MaxPositionSum() <= totals.ValidVotes
}
