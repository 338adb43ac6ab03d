package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into detection, actions, store, and display.
// The first positional argument after --undo is an operation id; otherwise
// positionals are directories to scan.

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// version is shown in --version and help; override at build time with -ldflags "-X ...config.version=...".
var version = "1.0.0-dev"

// ParseFlags parses args (without the program name) into cfg. On --help or
// --version it prints and exits. On error it returns non-nil (e.g. unknown
// flag, malformed --min value).
func ParseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("unprefix", flag.ContinueOnError)
	fs.Usage = func() { printUsage() }

	var showHelp, showVersion bool

	fs.StringVar(&cfg.FilterPattern, "regex", cfg.FilterPattern, "Regex filter applied to detected prefixes")
	fs.StringVar(&cfg.FilterPattern, "r", cfg.FilterPattern, "Same as --regex")
	fs.BoolVar(&cfg.NoFilter, "no-filter", false, "Accept all prefixes (skip regex filtering)")
	fs.Var(&detectionModeValue{&cfg.Mode}, "mode", "Detection mode: detect-all | delimited | specific | longest")
	fs.Var(&prefixListValue{&cfg.Prefixes}, "prefix", "Literal prefix for specific mode (repeatable)")
	fs.IntVar(&cfg.MinOccurrences, "min", cfg.MinOccurrences, "Minimum files sharing a prefix")

	fs.BoolVar(&cfg.Continuous, "continuous", false, "Read directory paths from stdin, debounced batching")
	fs.BoolVar(&cfg.Continuous, "c", false, "Same as --continuous")
	fs.BoolVar(&cfg.Undo, "undo", false, "Undo an operation (most recent unless an id follows)")
	fs.BoolVar(&cfg.Undo, "u", false, "Same as --undo")
	fs.BoolVar(&cfg.List, "list", false, "List recent rename operations")
	fs.BoolVar(&cfg.List, "l", false, "Same as --list")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Preview only; do not rename or record anything")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")

	fs.StringVar(&cfg.StorePath, "db", "", "Operation store path (default ~/.unprefix/renames.duckdb)")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run store diagnostics and exit")

	fs.Var(&colorModeValue{&cfg.ColorMode}, "color", "Color output: auto | always | never")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")

	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&showVersion, "V", false, "Same as --version")
	fs.BoolVar(&showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&showHelp, "h", false, "Same as --help")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp {
		printUsage()
		os.Exit(0)
	}
	if showVersion {
		fmt.Fprintln(os.Stdout, "unprefix v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

// parsePositionalArgs assigns positionals: the first becomes the operation id
// in undo mode, the rest are directories (trailing slashes normalized).
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.Undo && len(args) > 0 {
		cfg.UndoID = args[0]
		args = args[1:]
	}
	for _, a := range args {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		cfg.Directories = append(cfg.Directories, NormalizeDirArg(a))
	}
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage() {
	const col1 = 28 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "unprefix v" + version + " — shared-prefix detection and reversible bulk rename"},
		{"", ""},
		{"  unprefix [OPTIONS] [DIRECTORIES...]", ""},
		{"  echo './music' | unprefix [OPTIONS]", ""},
		{"", ""},
		{"Detection", ""},
		{"  -r, --regex <pattern>", "Prefix filter (default: " + DefaultFilterPattern + ")"},
		{"  --no-filter", "Accept all prefixes"},
		{"  --mode <name>", "detect-all | delimited | specific | longest (default: detect-all)"},
		{"  --prefix <literal>", "Literal prefix for specific mode (repeatable)"},
		{"  --min <n>", "Minimum files sharing a prefix (default: 2)"},
		{"", ""},
		{"Actions", ""},
		{"  -c, --continuous", "Listen for pasted directory paths on stdin"},
		{"  -u, --undo [id]", "Undo an operation (most recent if no id given)"},
		{"  -l, --list", "List recent rename operations"},
		{"  -d, --dry-run", "Preview only; rename nothing"},
		{"", ""},
		{"Store", ""},
		{"  --db <path>", "Operation store path (default: ~/.unprefix/renames.duckdb)"},
		{"  --check", "Store diagnostics and exit"},
		{"", ""},
		{"Display", ""},
		{"  --color <mode>", "auto | always | never (default: auto)"},
		{"  -v, --verbose", "Verbose output"},
		{"  --log <path>", "Append logs to file"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapters so we can use enum types (DetectionMode, ColorMode)
// and the repeatable --prefix flag with flag.Var.

type detectionModeValue struct{ p *DetectionMode }

func (d *detectionModeValue) String() string {
	if d.p == nil {
		return ""
	}
	return string(*d.p)
}

func (d *detectionModeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "detect-all":
		*d.p = ModeDetectAll
	case "delimited":
		*d.p = ModeDelimited
	case "specific":
		*d.p = ModeSpecific
	case "longest":
		*d.p = ModeLongest
	default:
		return fmt.Errorf("invalid mode %q (use 'detect-all', 'delimited', 'specific' or 'longest')", s)
	}
	return nil
}

type colorModeValue struct{ p *ColorMode }

func (c *colorModeValue) String() string {
	if c.p == nil {
		return ""
	}
	return string(*c.p)
}

func (c *colorModeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "auto":
		*c.p = ColorAuto
	case "always":
		*c.p = ColorAlways
	case "never":
		*c.p = ColorNever
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
	}
	return nil
}

type prefixListValue struct{ p *[]string }

func (v *prefixListValue) String() string {
	if v.p == nil {
		return ""
	}
	return strings.Join(*v.p, ",")
}

func (v *prefixListValue) Set(s string) error {
	if s == "" {
		return fmt.Errorf("--prefix must not be empty")
	}
	*v.p = append(*v.p, s)
	return nil
}
