package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"uatier/internal/agent"
	"uatier/internal/cli"
	"uatier/internal/resolver"
	"uatier/internal/rules"
	"uatier/internal/tableref"
)

// Exit codes:
//
//	0 - success
//	1 - usage error or invalid rules file
//	2 - gate failure (resolved tier below the required floor)
//	3 - rules file missing or unparseable
const (
	exitOK        = 0
	exitError     = 1
	exitGate      = 2
	exitRulesLoad = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Environ(), "."))
}

// run orchestrates the full execution flow.
// It returns an exit code; it is separated from main() to enable testing.
func run(args []string, environ []string, defaultDir string) int {
	cmd, err := cli.ParseArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitError
	}

	rulesPath := resolveRulesPath(cmd.RulesPath, environ, defaultDir)

	switch cmd.Subcommand {
	case cli.SubcommandCheck:
		return runCheck(cmd, rulesPath)
	case cli.SubcommandList:
		return runList(cmd, rulesPath)
	}
	return runResolve(cmd, rulesPath)
}

// runResolve classifies the given agent against the rules file.
func runResolve(cmd cli.Command, rulesPath string) int {
	browser, err := agent.ParseBrowser(cmd.Browser)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitError
	}
	osPart, err := agent.ParseOS(cmd.OS)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitError
	}
	ua := agent.UserAgent{Browser: browser, OS: osPart}

	var floor rules.SupportTier
	if cmd.Gate != "" {
		floor, err = rules.ParseSupportTier(cmd.Gate)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return exitError
		}
	}

	entries, code := loadRules(rulesPath)
	if code != exitOK {
		return code
	}

	// Publish the table through a holder so the read path is the same
	// reference-swap discipline a long-running embedder would use.
	holder := tableref.NewHolder(rules.NewTable(entries))
	tier := resolver.ResolveTier(holder.Load(), ua)

	if cmd.JSONOutput {
		out := struct {
			Browser string `json:"browser"`
			OS      string `json:"os"`
			Tier    string `json:"tier"`
		}{
			Browser: cmd.Browser,
			OS:      cmd.OS,
			Tier:    string(tier),
		}
		data, err := json.Marshal(out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot serialize result: %v\n", err)
			return exitError
		}
		fmt.Println(string(data))
	} else {
		fmt.Println(tier)
	}

	if cmd.Gate != "" && !tier.AtLeast(floor) {
		if cmd.CIMode {
			fmt.Fprintf(os.Stderr, "::error ::tier '%s' is below required '%s' for %s on %s\n", tier, floor, cmd.Browser, cmd.OS)
		} else {
			fmt.Fprintf(os.Stderr, "tier '%s' is below required '%s'\n", tier, floor)
		}
		return exitGate
	}

	return exitOK
}

// runCheck validates the rules file without resolving anything.
func runCheck(cmd cli.Command, rulesPath string) int {
	entries, err := rules.LoadFromPath(rulesPath)
	if err != nil {
		var verr *rules.ValidationError
		if errors.As(err, &verr) {
			reportRuleErrors(cmd, rulesPath, verr.Errors)
			return exitError
		}
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "rules file not found: %s\n", rulesPath)
			return exitRulesLoad
		}
		fmt.Fprintf(os.Stderr, "failed to parse rules: %v\n", err)
		return exitRulesLoad
	}

	// Shadowed rules are legal at runtime (last write wins) but almost
	// always an authoring mistake, so check treats them as errors.
	if dups := rules.CheckDuplicates(entries); len(dups) > 0 {
		reportRuleErrors(cmd, rulesPath, dups)
		return exitError
	}

	if cmd.JSONOutput {
		fmt.Println(formatCheckJSON(true, nil, len(entries), rulesPath))
	} else {
		fmt.Printf("✓ Rules valid (%d rule(s))\n", len(entries))
	}
	return exitOK
}

// runList prints the rule table sorted by derived key.
func runList(cmd cli.Command, rulesPath string) int {
	entries, code := loadRules(rulesPath)
	if code != exitOK {
		return code
	}

	table := rules.NewTable(entries)

	keys := make([]rules.Key, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})

	if cmd.JSONOutput {
		sorted := make([]listedRule, 0, len(keys))
		for _, key := range keys {
			e := table[key]
			sorted = append(sorted, listedRule{
				Key:               key.String(),
				Support:           string(e.Support),
				MinAllowedVersion: e.MinAllowedVersion,
				MinFullVersion:    e.MinFullVersion,
			})
		}
		data, err := json.MarshalIndent(sorted, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot serialize rules: %v\n", err)
			return exitError
		}
		fmt.Println(string(data))
		return exitOK
	}

	if len(keys) == 0 {
		fmt.Println("No rules found")
		return exitOK
	}

	for _, key := range keys {
		e := table[key]
		fmt.Printf("%-24s %-16s min_allowed=%-5d min_full=%d\n",
			key, e.Support, e.MinAllowedVersion, e.MinFullVersion)
	}
	return exitOK
}

// listedRule is the JSON shape of one table row in list output.
type listedRule struct {
	Key               string `json:"key"`
	Support           string `json:"support"`
	MinAllowedVersion int    `json:"minAllowedVersion"`
	MinFullVersion    int    `json:"minFullVersion"`
}

// loadRules reads the rules file, mapping errors to exit codes.
func loadRules(rulesPath string) ([]rules.Entry, int) {
	entries, err := rules.LoadFromPath(rulesPath)
	if err != nil {
		var verr *rules.ValidationError
		if errors.As(err, &verr) {
			for _, msg := range rules.FormatErrors(verr.Errors) {
				fmt.Fprintln(os.Stderr, msg)
			}
			fmt.Fprintf(os.Stderr, "rules file invalid: %s\n", rulesPath)
			return nil, exitError
		}
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "rules file not found: %s\n", rulesPath)
			return nil, exitRulesLoad
		}
		fmt.Fprintf(os.Stderr, "failed to parse rules: %v\n", err)
		return nil, exitRulesLoad
	}
	return entries, exitOK
}

// reportRuleErrors prints validation errors in plain, CI, or JSON form.
func reportRuleErrors(cmd cli.Command, rulesPath string, errs []rules.RuleError) {
	if cmd.JSONOutput {
		fmt.Println(formatCheckJSON(false, errs, 0, rulesPath))
		return
	}
	if cmd.CIMode {
		for _, re := range errs {
			fmt.Fprintf(os.Stderr, "::error file=%s::%s\n", filepath.Base(rulesPath), rules.FormatError(re))
		}
		fmt.Fprintf(os.Stderr, "\n❌ Rules check failed: %d error(s)\n", len(errs))
		return
	}
	for _, msg := range rules.FormatErrors(errs) {
		fmt.Fprintln(os.Stderr, msg)
	}
}

// formatCheckJSON formats check results as JSON.
func formatCheckJSON(valid bool, errs []rules.RuleError, ruleCount int, rulesPath string) string {
	type jsonRuleError struct {
		Rule    int    `json:"rule"`
		Field   string `json:"field"`
		Message string `json:"message"`
	}
	out := struct {
		Valid     bool            `json:"valid"`
		RuleCount int             `json:"ruleCount"`
		Errors    []jsonRuleError `json:"errors"`
		RulesPath string          `json:"rulesPath"`
	}{
		Valid:     valid,
		RuleCount: ruleCount,
		Errors:    make([]jsonRuleError, 0, len(errs)),
		RulesPath: rulesPath,
	}
	for _, re := range errs {
		out.Errors = append(out.Errors, jsonRuleError{
			Rule:    re.Index,
			Field:   re.Field,
			Message: rules.FormatError(re),
		})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return `{"valid":false}`
	}
	return string(data)
}

// resolveRulesPath determines the rules path from flag, env var, or default
func resolveRulesPath(flagValue string, environ []string, defaultDir string) string {
	// Flag takes precedence
	if flagValue != "" {
		if filepath.IsAbs(flagValue) {
			return flagValue
		}
		return filepath.Join(defaultDir, flagValue)
	}

	// Check UATIER_RULES env var
	for _, env := range environ {
		if strings.HasPrefix(env, "UATIER_RULES=") {
			path := strings.TrimPrefix(env, "UATIER_RULES=")
			if filepath.IsAbs(path) {
				return path
			}
			return filepath.Join(defaultDir, path)
		}
	}

	// Default to uatier.yaml in default directory
	return filepath.Join(defaultDir, "uatier.yaml")
}
