package rules

import (
	"fmt"
	"strings"

	"uatier/internal/agent"
)

// SupportTier is the outcome of resolution.
type SupportTier string

const (
	Unsupported    SupportTier = "unsupported"
	Allowed        SupportTier = "allowed"
	FullySupported SupportTier = "fully-supported"
)

// SupportTiers returns every valid tier identifier, from most to least restrictive.
func SupportTiers() []SupportTier {
	return []SupportTier{Unsupported, Allowed, FullySupported}
}

// ParseSupportTier validates a tier identifier against the closed set.
func ParseSupportTier(s string) (SupportTier, error) {
	tier := SupportTier(strings.ToLower(s))
	for _, known := range SupportTiers() {
		if tier == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown support tier '%s', must be one of: %s", s, joinTiers())
}

// rank orders tiers for gating; a higher rank grants more capability.
func (t SupportTier) rank() int {
	switch t {
	case Allowed:
		return 1
	case FullySupported:
		return 2
	}
	return 0
}

// AtLeast reports whether t grants at least the capability of floor.
func (t SupportTier) AtLeast(floor SupportTier) bool {
	return t.rank() >= floor.rank()
}

// Entry is one compatibility rule for a single (browser, OS) pair.
type Entry struct {
	Browser agent.BrowserName
	OS      agent.OSName

	// Support is the declared baseline tier for the pair, independent of version.
	Support SupportTier

	// MinAllowedVersion is recorded from compatibility testing for audit
	// purposes only; resolution does not consult it.
	MinAllowedVersion int

	// MinFullVersion is the browser version at or above which a client on a
	// fully-supported pair is promoted to FullySupported.
	MinFullVersion int
}

// Key is the lookup key for a rule table. It is derived from an entry's
// own fields and never stored independently, so an entry is always
// reachable via exactly the key its content implies.
type Key struct {
	Browser agent.BrowserName
	OS      agent.OSName
}

// DeriveKey computes the table key for a (browser, OS) pair. Pure and
// deterministic; table construction and lookup must both go through it.
func DeriveKey(browser agent.BrowserName, os agent.OSName) Key {
	return Key{Browser: browser, OS: os}
}

// Key recomputes the entry's derived key.
func (e Entry) Key() Key {
	return DeriveKey(e.Browser, e.OS)
}

// String renders the key in its browser-os display form, e.g. "chrome-windows".
func (k Key) String() string {
	return string(k.Browser) + "-" + string(k.OS)
}

// Table maps derived keys to entries. It is built once and treated as
// read-only afterwards; see tableref for the replacement discipline.
type Table map[Key]Entry

// NewTable builds a table from entries. Entries with the same
// (browser, OS) pair collide to one slot; the last one wins.
func NewTable(entries []Entry) Table {
	t := make(Table, len(entries))
	for _, e := range entries {
		t[e.Key()] = e
	}
	return t
}

func joinTiers() string {
	tiers := SupportTiers()
	parts := make([]string, len(tiers))
	for i, tier := range tiers {
		parts[i] = string(tier)
	}
	return strings.Join(parts, ", ")
}
