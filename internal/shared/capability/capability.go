package capability

import "strings"

// Capability names granted by the access-control layer. The engine only
// checks presence; it never resolves roles to capabilities itself.
const (
	Record  = "collation:record"
	Submit  = "collation:submit"
	Verify  = "collation:verify"
	Approve = "collation:approve"
	Certify = "collation:certify"
	Reject  = "collation:reject"
	Assign  = "collation:assign"
	Report  = "collation:report"
	Resolve = "collation:resolve"
)

// Actor is the caller-supplied identity plus granted capability set that
// every mutating engine call receives. It is opaque to the engine beyond
// the officer id recorded on transitions and feed events.
type Actor struct {
	OfficerID    string
	Capabilities []string
}

func (a Actor) Can(name string) bool {
	name = strings.TrimSpace(name)
	for _, granted := range a.Capabilities {
		if strings.EqualFold(strings.TrimSpace(granted), name) {
			return true
		}
	}
	return false
}

// ParseList splits a comma-separated capability header into a grant set.
func ParseList(raw string) []string {
	var items []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}
