package resolver

import (
	"uatier/internal/agent"
	"uatier/internal/rules"
)

// ResolveTier classifies a user agent against the compatibility table.
// It is total: every input maps to exactly one of the three tiers, never
// an error. The table is read-only; the call has no side effects.
func ResolveTier(t rules.Table, a agent.UserAgent) rules.SupportTier {
	entry, ok := t[rules.DeriveKey(a.Browser.Name, a.OS.Name)]
	if !ok {
		// An unlisted pair has never been tested: fail closed.
		return rules.Unsupported
	}

	switch entry.Support {
	case rules.Unsupported:
		// Explicit baseline override, version is irrelevant.
		return rules.Unsupported
	case rules.Allowed:
		// Version-independent at this tier; MinAllowedVersion is audit
		// data and is not consulted here.
		return rules.Allowed
	}

	// FullySupported family: the version floor is inclusive. Below the
	// floor the client drops straight to Unsupported, not Allowed; a
	// fully-supported browser at too low a version is treated as untested.
	if a.Browser.Version >= entry.MinFullVersion {
		return rules.FullySupported
	}
	return rules.Unsupported
}
