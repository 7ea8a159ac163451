package cli

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoSubcommand is returned when no recognized subcommand is provided
var ErrNoSubcommand = errors.New("missing subcommand: usage: uatier <resolve|check|list> [flags]")

// ErrMissingFlagValue is returned when a flag requires a value but none is provided
var ErrMissingFlagValue = errors.New("flag requires a value")

// ErrMissingAgent is returned when resolve is called without a full descriptor
var ErrMissingAgent = errors.New("resolve requires --browser and --os: usage: uatier resolve --browser <name/version> --os <name/version>")

// Subcommand represents the CLI subcommand
type Subcommand string

const (
	SubcommandResolve Subcommand = "resolve"
	SubcommandCheck   Subcommand = "check"
	SubcommandList    Subcommand = "list"
)

// Command represents the parsed CLI input
type Command struct {
	Subcommand Subcommand

	// Resolve flags
	Browser string // --browser <name/version>
	OS      string // --os <name/version>
	Gate    string // --gate <tier>

	// Shared flags
	RulesPath  string // --rules <path>
	JSONOutput bool   // --json
	CIMode     bool   // --ci
}

// ParseArgs parses CLI arguments into a Command.
// It expects args to be os.Args[1:] (excluding the program name).
func ParseArgs(args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, ErrNoSubcommand
	}

	subcommand := Subcommand(args[0])
	switch subcommand {
	case SubcommandResolve, SubcommandCheck, SubcommandList:
	default:
		return Command{}, ErrNoSubcommand
	}

	cmd := Command{
		Subcommand: subcommand,
	}

	i := 1 // Start after subcommand

	for i < len(args) {
		arg := args[i]

		if !strings.HasPrefix(arg, "--") {
			return Command{}, fmt.Errorf("unexpected argument '%s'", arg)
		}

		flagName := strings.TrimPrefix(arg, "--")

		switch flagName {
		case "browser":
			if i+1 >= len(args) {
				return Command{}, ErrMissingFlagValue
			}
			i++
			cmd.Browser = args[i]
		case "os":
			if i+1 >= len(args) {
				return Command{}, ErrMissingFlagValue
			}
			i++
			cmd.OS = args[i]
		case "gate":
			if i+1 >= len(args) {
				return Command{}, ErrMissingFlagValue
			}
			i++
			cmd.Gate = args[i]
		case "rules":
			if i+1 >= len(args) {
				return Command{}, ErrMissingFlagValue
			}
			i++
			cmd.RulesPath = args[i]
		case "json":
			cmd.JSONOutput = true
		case "ci":
			cmd.CIMode = true
		default:
			return Command{}, fmt.Errorf("unknown flag '--%s'", flagName)
		}
		i++
	}

	// Resolve needs the full descriptor; the resolver itself never
	// validates input, so the gap is caught here at the boundary.
	if cmd.Subcommand == SubcommandResolve && (cmd.Browser == "" || cmd.OS == "") {
		return Command{}, ErrMissingAgent
	}

	return cmd, nil
}
