package rules

import (
	"fmt"
	"os"
	"strconv"

	"uatier/internal/agent"

	"gopkg.in/yaml.v3"
)

// rulesFile represents the YAML file structure
type rulesFile struct {
	Rules []ruleEntry `yaml:"rules"`
}

// ruleEntry represents a single rule in YAML
type ruleEntry struct {
	Browser           string `yaml:"browser"`
	OS                string `yaml:"os"`
	Support           string `yaml:"support"`
	MinAllowedVersion int    `yaml:"min_allowed_version"`
	MinFullVersion    int    `yaml:"min_full_version"`
}

// Parse parses YAML content into rule entries. Constraint violations
// (unknown identifiers, negative versions) are collected across the whole
// file and returned as a single *ValidationError; malformed YAML fails
// immediately. Values are never silently coerced.
func Parse(content []byte) ([]Entry, error) {
	var rf rulesFile
	if err := yaml.Unmarshal(content, &rf); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	var entries []Entry
	var ruleErrors []RuleError

	for i, raw := range rf.Rules {
		entry, errs := convertRule(i, raw)
		if len(errs) > 0 {
			ruleErrors = append(ruleErrors, errs...)
			continue
		}
		entries = append(entries, entry)
	}

	if len(ruleErrors) > 0 {
		return nil, &ValidationError{Errors: ruleErrors}
	}
	return entries, nil
}

// LoadFromPath reads and parses a rules file.
func LoadFromPath(path string) ([]Entry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(content)
}

// CheckDuplicates reports rules whose (browser, OS) pair collides with an
// earlier rule. The runtime table applies last-write-wins on collisions;
// this check exists so authors notice the shadowed rule.
func CheckDuplicates(entries []Entry) []RuleError {
	seen := make(map[Key]int)
	var errs []RuleError

	for i, e := range entries {
		key := e.Key()
		if first, dup := seen[key]; dup {
			errs = append(errs, RuleError{
				Index:   i,
				Field:   "browser/os",
				Value:   key.String(),
				Message: fmt.Sprintf("duplicate pair, shadows rule %d", first),
			})
			continue
		}
		seen[key] = i
	}
	return errs
}

// convertRule validates one raw rule, collecting every violation.
func convertRule(index int, raw ruleEntry) (Entry, []RuleError) {
	var errs []RuleError

	browser, err := agent.ParseBrowserName(raw.Browser)
	if err != nil {
		errs = append(errs, RuleError{
			Index:   index,
			Field:   "browser",
			Value:   raw.Browser,
			Message: "unknown browser identifier",
			Allowed: browserIdentifiers(),
		})
	}

	osName, err := agent.ParseOSName(raw.OS)
	if err != nil {
		errs = append(errs, RuleError{
			Index:   index,
			Field:   "os",
			Value:   raw.OS,
			Message: "unknown OS identifier",
			Allowed: osIdentifiers(),
		})
	}

	support, err := ParseSupportTier(raw.Support)
	if err != nil {
		errs = append(errs, RuleError{
			Index:   index,
			Field:   "support",
			Value:   raw.Support,
			Message: "unknown support tier",
			Allowed: tierIdentifiers(),
		})
	}

	if raw.MinAllowedVersion < 0 {
		errs = append(errs, RuleError{
			Index:   index,
			Field:   "min_allowed_version",
			Value:   strconv.Itoa(raw.MinAllowedVersion),
			Message: "version must be >= 0",
		})
	}

	if raw.MinFullVersion < 0 {
		errs = append(errs, RuleError{
			Index:   index,
			Field:   "min_full_version",
			Value:   strconv.Itoa(raw.MinFullVersion),
			Message: "version must be >= 0",
		})
	}

	if len(errs) > 0 {
		return Entry{}, errs
	}

	return Entry{
		Browser:           browser,
		OS:                osName,
		Support:           support,
		MinAllowedVersion: raw.MinAllowedVersion,
		MinFullVersion:    raw.MinFullVersion,
	}, nil
}

func browserIdentifiers() []string {
	names := agent.BrowserNames()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}

func osIdentifiers() []string {
	names := agent.OSNames()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}

func tierIdentifiers() []string {
	tiers := SupportTiers()
	out := make([]string, len(tiers))
	for i, t := range tiers {
		out[i] = string(t)
	}
	return out
}
