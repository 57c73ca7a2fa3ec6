// Package config holds runtime configuration: defaults, CLI flag binding,
// recipe files, and validation.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mlderes/dstoolkit/internal/cleaning"
	"github.com/mlderes/dstoolkit/internal/datastore"
)

// Version is reported by --version; override at build time with
// -ldflags "-X github.com/mlderes/dstoolkit/internal/config.Version=...".
var Version = "0.1.0-dev"

// --- Enum types for validated string fields ---

// LogFormat selects the console log encoding.
type LogFormat string

const (
	LogText LogFormat = "text" // Human-readable console lines (default).
	LogJSON LogFormat = "json" // One JSON object per line.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// then by [LoadFile] and the CLI flags, before being passed by pointer to
// packages that need it.
type Config struct {
	// Paths.
	DataRoot   string `yaml:"root"`
	ConfigFile string `yaml:"-"`

	// Display and logging.
	LogFile   string    `yaml:"log"`
	LogFormat LogFormat `yaml:"log_format"` // Default: "text".
	ColorMode ColorMode `yaml:"color"`      // Default: "auto".
	Verbose   bool      `yaml:"verbose"`

	// Behavior.
	DryRun bool `yaml:"dry_run"`

	// Recipe executed by the run command.
	Recipe `yaml:",inline"`
}

// Recipe describes one read, clean, write pass over the data folder.
type Recipe struct {
	Input  InputSpec    `yaml:"input"`
	Output OutputSpec   `yaml:"output"`
	Steps  []StepConfig `yaml:"steps"`
}

// InputSpec locates the table to read: the newest {pattern}*.csv in area.
type InputSpec struct {
	Area     string `yaml:"area"`      // Default: "raw".
	Pattern  string `yaml:"pattern"`   // Filename prefix; required.
	IndexCol int    `yaml:"index_col"` // Default: 0. -1 reads without an index.
}

// OutputSpec names the table to write.
type OutputSpec struct {
	Area        string `yaml:"area"`         // Default: "processed".
	Stem        string `yaml:"stem"`         // Required.
	Timestamped bool   `yaml:"timestamped"`  // Default: true.
	AlsoLatest  bool   `yaml:"also_latest"`  // Also write {stem}_latest.csv.
	FloatFormat string `yaml:"float_format"` // Default: "%.3f".
	NAValue     string `yaml:"na_value"`
	DateFormat  string `yaml:"date_format"`
	IndexLabel  string `yaml:"index_label"`
	SkipIndex   bool   `yaml:"skip_index"`
}

// StepConfig is one cleaning operation. Which fields apply depends on Op.
type StepConfig struct {
	Op          string `yaml:"op"`
	Description string `yaml:"description"`

	Columns any    `yaml:"columns"` // "all", a name, or a list of names
	Errors  string `yaml:"errors"`  // ignore | raise | coerce

	// replace_in_column_names
	Find    string `yaml:"find"` // Default: " ".
	Replace string `yaml:"replace"`

	// remove_na_rows
	How       string `yaml:"how"`
	Threshold int    `yaml:"threshold"`
	Subset    any    `yaml:"subset"`

	// force_data_types
	Types map[string]string `yaml:"types"`

	// merge_and_fill_gaps
	Left  string `yaml:"left"`
	Right string `yaml:"right"`

	// replace_values
	Replacements map[any]any `yaml:"replacements"`
}

// DefaultConfig returns a Config with all defaults applied.
func DefaultConfig() Config {
	return Config{
		DataRoot:  "data",
		LogFormat: LogText,
		ColorMode: ColorAuto,
		Recipe: Recipe{
			Input: InputSpec{
				Area:     datastore.AreaRaw,
				IndexCol: 0,
			},
			Output: OutputSpec{
				Area:        datastore.AreaProcessed,
				Timestamped: true,
				FloatFormat: "%.3f",
			},
		},
	}
}

// Validate checks that enum fields hold valid values and that the data root
// is set.
func (c *Config) Validate() error {
	switch c.LogFormat {
	case LogText, LogJSON:
		// valid
	default:
		return errors.New("invalid log format (use 'text' or 'json')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if strings.TrimSpace(c.DataRoot) == "" {
		return errors.New("data root must not be empty")
	}
	return nil
}

// ValidateRecipe checks the parts of the recipe the run command needs.
// Step operation names are checked by the pipeline when it builds steps.
func (c *Config) ValidateRecipe() error {
	r := &c.Recipe
	if r.Input.Pattern == "" {
		return errors.New("recipe input.pattern must not be empty")
	}
	if r.Output.Stem == "" {
		return errors.New("recipe output.stem must not be empty")
	}
	if err := validArea("input.area", r.Input.Area); err != nil {
		return err
	}
	if err := validArea("output.area", r.Output.Area); err != nil {
		return err
	}
	if r.Input.IndexCol < -1 {
		return fmt.Errorf("recipe input.index_col must be -1 or a column number (got %d)", r.Input.IndexCol)
	}
	for i, s := range r.Steps {
		if s.Op == "" {
			return fmt.Errorf("recipe step %d: op must not be empty", i+1)
		}
		if _, err := cleaning.ParsePolicy(s.Errors); err != nil {
			return fmt.Errorf("recipe step %d (%s): %w", i+1, s.Op, err)
		}
	}
	return nil
}

func validArea(field, area string) error {
	for _, a := range datastore.Areas {
		if a == area {
			return nil
		}
	}
	return fmt.Errorf("recipe %s %q is not one of %s", field, area, strings.Join(datastore.Areas, ", "))
}
