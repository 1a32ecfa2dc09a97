package intel

import "fmt"

// TieBreakPolicy decides between two snapshots of one division that carry
// the same timestamp.
type TieBreakPolicy string

const (
	// TieBreakPreferTombstone keeps a destroyed snapshot over a live one and
	// otherwise keeps what is already stored. Destruction is irreversible, so
	// letting it win keeps the merge monotone.
	TieBreakPreferTombstone TieBreakPolicy = "prefer_tombstone"

	// TieBreakKeepExisting always keeps the stored snapshot
	TieBreakKeepExisting TieBreakPolicy = "keep_existing"

	// TieBreakPreferIncoming always replaces the stored snapshot
	TieBreakPreferIncoming TieBreakPolicy = "prefer_incoming"
)

// DefaultTieBreak is used when no policy is configured
const DefaultTieBreak = TieBreakPreferTombstone

// ParseTieBreakPolicy converts a config string into a policy
func ParseTieBreakPolicy(s string) (TieBreakPolicy, error) {
	switch p := TieBreakPolicy(s); p {
	case TieBreakPreferTombstone, TieBreakKeepExisting, TieBreakPreferIncoming:
		return p, nil
	case "":
		return DefaultTieBreak, nil
	default:
		return "", fmt.Errorf("unknown tie break policy %q", s)
	}
}

// replace reports whether incoming should overwrite existing when both
// carry the same timestamp.
func (p TieBreakPolicy) replace(existing, incoming *RememberedDivision) bool {
	switch p {
	case TieBreakKeepExisting:
		return false
	case TieBreakPreferIncoming:
		return true
	default:
		return incoming.Destroyed && !existing.Destroyed
	}
}
