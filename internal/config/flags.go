package config

// This file binds the global CLI flags onto a pflag.FlagSet.
// Flags are grouped into paths, display, and behavior.
// Color switches (--color, --no-color) write straight into ColorMode, with
// --no-color taking precedence when both are given.

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// BindFlags registers the global flags on fs, writing into cfg.
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	definePathFlags(fs, cfg)
	defineDisplayFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg)
}

// definePathFlags registers -r/--root and -c/--config.
func definePathFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVarP(&cfg.DataRoot, "root", "r", cfg.DataRoot, "Data root holding raw/, processed/, interim/ and external/")
	fs.StringVarP(&cfg.ConfigFile, "config", "c", "", "YAML config and recipe file")
}

// defineDisplayFlags registers --log, --log-format, --color, --no-color, -v/--verbose.
func defineDisplayFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVarP(&cfg.LogFile, "log", "l", "", "Append logs to file")
	fs.Var(&logFormatValue{&cfg.LogFormat}, "log-format", "Console log format: text | json")
	fs.Var(&colorModeValue{&cfg.ColorMode}, "color-mode", "Color output: auto | always | never")

	color := fs.VarPF(&colorSwitch{p: &cfg.ColorMode, on: ColorAlways}, "color", "", "Force colored logs")
	color.NoOptDefVal = "true"
	noColor := fs.VarPF(&colorSwitch{p: &cfg.ColorMode, on: ColorNever, wins: true}, "no-color", "", "Disable colored logs")
	noColor.NoOptDefVal = "true"

	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
}

// defineBehaviorFlags registers -d/--dry-run.
func defineBehaviorFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.BoolVarP(&cfg.DryRun, "dry-run", "d", false, "Preview only; do not write output tables")
}

// pflag.Value adapters so enum types (LogFormat, ColorMode) work with fs.Var.

type logFormatValue struct{ p *LogFormat }

func (v *logFormatValue) String() string { return string(*v.p) }
func (v *logFormatValue) Type() string   { return "format" }
func (v *logFormatValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "text":
		*v.p = LogText
	case "json":
		*v.p = LogJSON
	default:
		return fmt.Errorf("invalid log format %q (use 'text' or 'json')", s)
	}
	return nil
}

type colorModeValue struct{ p *ColorMode }

func (v *colorModeValue) String() string { return string(*v.p) }
func (v *colorModeValue) Type() string   { return "mode" }
func (v *colorModeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "auto":
		*v.p = ColorAuto
	case "always":
		*v.p = ColorAlways
	case "never":
		*v.p = ColorNever
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
	}
	return nil
}

// colorSwitch is a boolean flag that pins ColorMode to on when set. A
// switch without wins does not override ColorNever.
type colorSwitch struct {
	p    *ColorMode
	on   ColorMode
	wins bool
}

func (v *colorSwitch) String() string { return fmt.Sprint(*v.p == v.on) }
func (v *colorSwitch) Type() string   { return "bool" }
func (v *colorSwitch) Set(s string) error {
	switch strings.ToLower(s) {
	case "true", "1":
		if v.wins || *v.p != ColorNever {
			*v.p = v.on
		}
	case "false", "0":
		// leave the mode as is
	default:
		return fmt.Errorf("invalid boolean %q", s)
	}
	return nil
}
