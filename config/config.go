// Package config provides the configuration of the dump reformatter.
// Settings come from an optional YAML file, environment variables and
// command-line flags, in ascending order of precedence, with defaults
// defined via struct tags and validation before any processing starts.
package config

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/Semiranis/mysqldump-reformat/logging"
	"github.com/Semiranis/mysqldump-reformat/splitter"
	"github.com/caarlos0/env/v11"
	"github.com/creasty/defaults"
	"github.com/goccy/go-yaml"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

// envPrefix is the prefix of all environment variables recognized by the tool.
const envPrefix = "MYSQLDUMP_REFORMAT_"

// Config holds the complete configuration of a reformatting run.
type Config struct {
	// Input is the path of the SQL dump to read.
	Input string `yaml:"input" env:"INPUT"`
	// Output is the path to write the reformatted dump to. Writing over the
	// input file works but risks the only copy should the write fail midway.
	Output string `yaml:"output" env:"OUTPUT"`
	// MaxLineLength caps the character length of emitted INSERT statements.
	// The default matches a conservative client buffer size. Zero disables
	// the cap.
	MaxLineLength int `yaml:"max_line_length" env:"MAX_LINE_LENGTH" default:"1048576"`
	// MaxTuplesPerLine caps the number of value tuples per emitted INSERT
	// statement. Zero disables the cap.
	MaxTuplesPerLine int `yaml:"max_tuples_per_line" env:"MAX_TUPLES_PER_LINE"`
	// Force skips the confirmation before overwriting an existing output file.
	Force bool `yaml:"force" env:"FORCE"`

	Logging logging.Config `yaml:"logging" envPrefix:"LOGGING_"`
}

// Limits returns the splitter limits configured here.
func (c *Config) Limits() splitter.Limits {
	return splitter.Limits{
		MaxLineLength:    c.MaxLineLength,
		MaxTuplesPerLine: c.MaxTuplesPerLine,
	}
}

// Validate checks constraints in the configuration and returns an error if they are violated.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.New("input path must be given")
	}

	if c.Output == "" {
		return errors.New("output path must be given")
	}

	if err := c.Limits().Validate(); err != nil {
		return errors.WithStack(err)
	}

	return c.Logging.Validate()
}

// EnvOptions is a type alias for [env.Options], so that only this package needs to import [env].
type EnvOptions = env.Options

// Load assembles the configuration: struct tag defaults first, then the YAML
// file if one is given, then environment variables, then flag overrides, and
// validates the result. Any error here means no processing has started.
func Load(f Flags, opts EnvOptions) (*Config, error) {
	var cfg Config

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "can't set config defaults")
	}

	if f.Config != "" {
		if err := fromYAMLFile(f.Config, &cfg); err != nil {
			return nil, err
		}
	}

	opts.Prefix = envPrefix
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, errors.Wrap(err, "can't parse environment variables")
	}

	f.override(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// fromYAMLFile parses the given YAML file into cfg,
// rejecting unknown fields so typos surface instead of being ignored.
func fromYAMLFile(name string, cfg *Config) error {
	// #nosec G304 -- accept user-controlled input for the config file.
	f, err := os.Open(name)
	if err != nil {
		return errors.Wrap(err, "can't open YAML file "+name)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	d := yaml.NewDecoder(f, yaml.DisallowUnknownField())
	if err := d.Decode(cfg); err != nil {
		// FormatError prettifies parser errors where possible.
		err = stderrors.New(yaml.FormatError(err, true, true))
		return errors.Wrap(err, "can't parse YAML file "+name)
	}

	return nil
}

// Flags are the command-line flags of the tool. Flags set on the command line
// take precedence over file- and environment-derived settings.
type Flags struct {
	Config        string `short:"c" long:"config" description:"Path to an optional YAML config file"`
	Input         string `short:"i" long:"input" description:"Path of the SQL dump to reformat"`
	Output        string `short:"o" long:"output" description:"Path to write the reformatted dump to"`
	MaxLineLength int    `long:"max-line-length" description:"Maximum length in characters of an emitted INSERT statement (0 disables the cap)"`
	MaxTuples     int    `long:"max-tuples" description:"Maximum number of value tuples per emitted INSERT statement (0 disables the cap)"`
	Force         bool   `short:"f" long:"force" description:"Overwrite an existing output file without asking"`

	maxLineLengthSet bool
}

// override copies flag values over cfg. Only flags the user actually set on
// the command line win, which is why override consults the go-flags parser
// state recorded by ParseFlags rather than comparing against zero values:
// --max-line-length=0 is a valid way to disable the length cap.
func (f Flags) override(cfg *Config) {
	if f.Input != "" {
		cfg.Input = f.Input
	}

	if f.Output != "" {
		cfg.Output = f.Output
	}

	if f.maxLineLengthSet {
		cfg.MaxLineLength = f.MaxLineLength
	}

	if f.MaxTuples > 0 {
		cfg.MaxTuplesPerLine = f.MaxTuples
	}

	if f.Force {
		cfg.Force = true
	}
}

// ParseFlags parses the command line into f.
//
// ParseFlags adds a default help options group with -h and --help. If either
// is given, the help message goes to stdout and the process exits. Errors are
// not printed automatically, error handling is the caller's responsibility.
func ParseFlags(f *Flags) error {
	parser := flags.NewParser(f, flags.Default^flags.PrintErrors)

	if _, err := parser.Parse(); err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && errors.Is(flagErr.Type, flags.ErrHelp) {
			_, _ = fmt.Fprintln(os.Stdout, flagErr)
			os.Exit(0)
		}

		return errors.Wrap(err, "can't parse CLI flags")
	}

	if opt := parser.FindOptionByLongName("max-line-length"); opt != nil {
		f.maxLineLengthSet = opt.IsSet()
	}

	return nil
}
