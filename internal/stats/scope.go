package stats

import (
	"fmt"

	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/drawer"
)

// Scope selects which hands of a session are aggregated.
type Scope string

const (
	// ScopeAll aggregates every hand drawn in the session.
	ScopeAll Scope = "all"

	// ScopeLatest aggregates only the most recent hand.
	ScopeLatest Scope = "latest"
)

// ParseScope parses a scope name. The empty string means ScopeAll.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeAll:
		return ScopeAll, nil
	case ScopeLatest:
		return ScopeLatest, nil
	default:
		return "", fmt.Errorf("unknown stats scope %q", s)
	}
}

// Select returns the hands covered by scope.
func Select(hands []drawer.Hand, scope Scope) []drawer.Hand {
	if scope == ScopeLatest {
		if len(hands) == 0 {
			return nil
		}
		return hands[len(hands)-1:]
	}
	return hands
}

// AggregateScope aggregates the hands selected by scope. TotalHands still
// reports the whole history so callers can show the total draw count.
func AggregateScope(hands []drawer.Hand, scope Scope) Snapshot {
	snap := Aggregate(Select(hands, scope))
	snap.Scope = scope
	snap.TotalHands = len(hands)
	return snap
}
