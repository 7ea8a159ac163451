// Package arbitrary provides gopter generators for the domain types.
// Every generator respects the schema constraints (closed name sets,
// non-negative versions), so property suites across the module draw
// schema-valid inputs from one place.
package arbitrary

import (
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"

	"uatier/internal/agent"
	"uatier/internal/rules"
)

// maxVersion bounds generated versions: large enough to cross any
// realistic floor, small enough to shrink quickly.
const maxVersion = 500

// BrowserName generates a browser identifier from the closed set.
func BrowserName() gopter.Gen {
	return gen.OneConstOf(
		agent.BrowserChrome,
		agent.BrowserFirefox,
		agent.BrowserSafari,
		agent.BrowserEdge,
		agent.BrowserOpera,
	)
}

// OSName generates an OS identifier from the closed set.
func OSName() gopter.Gen {
	return gen.OneConstOf(
		agent.OSWindows,
		agent.OSMacOS,
		agent.OSLinux,
		agent.OSIOS,
		agent.OSAndroid,
	)
}

// Version generates a non-negative version number.
func Version() gopter.Gen {
	return gen.IntRange(0, maxVersion)
}

// SupportTier generates one of the three tiers.
func SupportTier() gopter.Gen {
	return gen.OneConstOf(rules.Unsupported, rules.Allowed, rules.FullySupported)
}

// UserAgent generates a schema-valid user-agent descriptor.
func UserAgent() gopter.Gen {
	return gopter.CombineGens(
		BrowserName(), Version(), OSName(), Version(),
	).Map(func(vals []interface{}) agent.UserAgent {
		return agent.UserAgent{
			Browser: agent.Browser{Name: vals[0].(agent.BrowserName), Version: vals[1].(int)},
			OS:      agent.OS{Name: vals[2].(agent.OSName), Version: vals[3].(int)},
		}
	})
}

// Entry generates a schema-valid compatibility rule.
func Entry() gopter.Gen {
	return gopter.CombineGens(
		BrowserName(), OSName(), SupportTier(), Version(), Version(),
	).Map(func(vals []interface{}) rules.Entry {
		return rules.Entry{
			Browser:           vals[0].(agent.BrowserName),
			OS:                vals[1].(agent.OSName),
			Support:           vals[2].(rules.SupportTier),
			MinAllowedVersion: vals[3].(int),
			MinFullVersion:    vals[4].(int),
		}
	})
}

// Table generates a rule table from generated entries. Colliding
// (browser, OS) pairs follow the table's last-write-wins policy.
func Table() gopter.Gen {
	return gen.SliceOf(Entry()).Map(func(entries []rules.Entry) rules.Table {
		return rules.NewTable(entries)
	})
}
