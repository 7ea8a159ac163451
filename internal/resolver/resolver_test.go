package resolver

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"uatier/internal/agent"
	"uatier/internal/arbitrary"
	"uatier/internal/rules"
)

// agentFor builds a user agent matching an entry's (browser, OS) pair at
// the given versions.
func agentFor(e rules.Entry, browserVersion, osVersion int) agent.UserAgent {
	return agent.UserAgent{
		Browser: agent.Browser{Name: e.Browser, Version: browserVersion},
		OS:      agent.OS{Name: e.OS, Version: osVersion},
	}
}

func TestResolveTier_Scenarios(t *testing.T) {
	tests := []struct {
		name  string
		table rules.Table
		ua    agent.UserAgent
		want  rules.SupportTier
	}{
		{
			name:  "empty table fails closed",
			table: rules.NewTable(nil),
			ua: agent.UserAgent{
				Browser: agent.Browser{Name: agent.BrowserChrome, Version: 103},
				OS:      agent.OS{Name: agent.OSWindows, Version: 10},
			},
			want: rules.Unsupported,
		},
		{
			name: "at the fully supported floor",
			table: rules.NewTable([]rules.Entry{
				{Browser: agent.BrowserChrome, OS: agent.OSWindows, Support: rules.FullySupported, MinFullVersion: 90},
			}),
			ua: agent.UserAgent{
				Browser: agent.Browser{Name: agent.BrowserChrome, Version: 90},
				OS:      agent.OS{Name: agent.OSWindows, Version: 10},
			},
			want: rules.FullySupported,
		},
		{
			name: "below the fully supported floor",
			table: rules.NewTable([]rules.Entry{
				{Browser: agent.BrowserChrome, OS: agent.OSWindows, Support: rules.FullySupported, MinFullVersion: 90},
			}),
			ua: agent.UserAgent{
				Browser: agent.Browser{Name: agent.BrowserChrome, Version: 89},
				OS:      agent.OS{Name: agent.OSWindows, Version: 10},
			},
			want: rules.Unsupported,
		},
		{
			name: "allowed baseline ignores version",
			table: rules.NewTable([]rules.Entry{
				{Browser: agent.BrowserSafari, OS: agent.OSIOS, Support: rules.Allowed, MinFullVersion: 999},
			}),
			ua: agent.UserAgent{
				Browser: agent.Browser{Name: agent.BrowserSafari, Version: 1},
				OS:      agent.OS{Name: agent.OSIOS, Version: 1},
			},
			want: rules.Allowed,
		},
		{
			name: "explicit unsupported baseline dominates",
			table: rules.NewTable([]rules.Entry{
				{Browser: agent.BrowserFirefox, OS: agent.OSLinux, Support: rules.Unsupported, MinFullVersion: 1},
			}),
			ua: agent.UserAgent{
				Browser: agent.Browser{Name: agent.BrowserFirefox, Version: 9999},
				OS:      agent.OS{Name: agent.OSLinux, Version: 5},
			},
			want: rules.Unsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveTier(tt.table, tt.ua)
			if got != tt.want {
				t.Errorf("ResolveTier() = %s, want %s", got, tt.want)
			}
		})
	}
}

// Property: for any table and any agent whose (browser, OS) pair has no
// entry, resolution SHALL return Unsupported. Unlisted pairs fail closed.
func TestResolveTier_UnlistedPair_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("unlisted pair resolves to Unsupported", prop.ForAll(
		func(table rules.Table, u agent.UserAgent) bool {
			// Remove the agent's own pair so the lookup is guaranteed to miss.
			delete(table, rules.DeriveKey(u.Browser.Name, u.OS.Name))
			return ResolveTier(table, u) == rules.Unsupported
		},
		arbitrary.Table(),
		arbitrary.UserAgent(),
	))

	properties.TestingRun(t)
}

// Property: an entry with an Unsupported baseline SHALL resolve to
// Unsupported at every browser and OS version.
func TestResolveTier_UnsupportedBaseline_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("explicit Unsupported baseline dominates any version", prop.ForAll(
		func(e rules.Entry, browserVersion, osVersion int) bool {
			e.Support = rules.Unsupported
			table := rules.NewTable([]rules.Entry{e})
			return ResolveTier(table, agentFor(e, browserVersion, osVersion)) == rules.Unsupported
		},
		arbitrary.Entry(),
		arbitrary.Version(),
		arbitrary.Version(),
	))

	properties.TestingRun(t)
}

// Property: an entry with an Allowed baseline SHALL resolve to Allowed at
// every browser and OS version, regardless of either version floor.
func TestResolveTier_AllowedBaseline_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("Allowed baseline is version independent", prop.ForAll(
		func(e rules.Entry, browserVersion, osVersion int) bool {
			e.Support = rules.Allowed
			table := rules.NewTable([]rules.Entry{e})
			return ResolveTier(table, agentFor(e, browserVersion, osVersion)) == rules.Allowed
		},
		arbitrary.Entry(),
		arbitrary.Version(),
		arbitrary.Version(),
	))

	properties.TestingRun(t)
}

// Property: for a FullySupported entry with floor m, versions >= m SHALL
// resolve to FullySupported and versions < m SHALL resolve to Unsupported.
// The boundary at exactly m is inclusive, and there is no downgrade to
// Allowed below the floor.
func TestResolveTier_FullySupportedThreshold_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("at or above the floor resolves FullySupported", prop.ForAll(
		func(e rules.Entry, delta, osVersion int) bool {
			e.Support = rules.FullySupported
			table := rules.NewTable([]rules.Entry{e})
			u := agentFor(e, e.MinFullVersion+delta, osVersion)
			return ResolveTier(table, u) == rules.FullySupported
		},
		arbitrary.Entry(),
		gen.IntRange(0, 100),
		arbitrary.Version(),
	))

	properties.Property("the boundary at exactly the floor is inclusive", prop.ForAll(
		func(e rules.Entry, osVersion int) bool {
			e.Support = rules.FullySupported
			table := rules.NewTable([]rules.Entry{e})
			u := agentFor(e, e.MinFullVersion, osVersion)
			return ResolveTier(table, u) == rules.FullySupported
		},
		arbitrary.Entry(),
		arbitrary.Version(),
	))

	properties.Property("below the floor resolves Unsupported, never Allowed", prop.ForAll(
		func(e rules.Entry, browserVersion, osVersion int) bool {
			e.Support = rules.FullySupported
			if browserVersion >= e.MinFullVersion {
				browserVersion = e.MinFullVersion - 1
			}
			if browserVersion < 0 {
				// A floor of 0 has no versions below it.
				return true
			}
			table := rules.NewTable([]rules.Entry{e})
			u := agentFor(e, browserVersion, osVersion)
			return ResolveTier(table, u) == rules.Unsupported
		},
		arbitrary.Entry(),
		arbitrary.Version(),
		arbitrary.Version(),
	))

	properties.TestingRun(t)
}

// Property: resolution is deterministic. The same table and agent SHALL
// always produce the same tier.
func TestResolveTier_Deterministic_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("same inputs produce the same tier", prop.ForAll(
		func(table rules.Table, u agent.UserAgent) bool {
			return ResolveTier(table, u) == ResolveTier(table, u)
		},
		arbitrary.Table(),
		arbitrary.UserAgent(),
	))

	properties.TestingRun(t)
}
