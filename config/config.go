// Package config builds the immutable RunConfig for a hashing run from
// defaults, an optional YAML file, the environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dendrascience/iocify/util"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// Configuration errors. Every error returned by Settings.Build wraps
// ErrInvalidConfig together with one of these.
var (
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrNoAlgorithm        = errors.New("you must choose at least one hashing algorithm (md5, sha1, sha256)")
	ErrMultipleAlgorithms = errors.New("only one hashing algorithm may be selected per run")
	ErrUnknownAlgorithm   = util.ErrUnknownAlgorithm
	ErrInvalidDelimiter   = errors.New("delimiter must be a single character other than a quote or line break")
	ErrMissingSource      = errors.New("source directory is required")
	ErrMissingOutput      = errors.New("output path is required")
	ErrInvalidWorkers     = util.ErrInvalidWorkerCount
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "IOCIFY_"

// RunConfig is the validated, immutable configuration of one run.
type RunConfig struct {
	Source    string
	Output    string
	Delimiter rune
	Algorithm util.Algorithm
	Workers   int
	Absolute  bool
	Summary   string
	LogLevel  string
}

// FileConfig mirrors the YAML config file.
type FileConfig struct {
	Source    string `yaml:"source"`
	Output    string `yaml:"output"`
	Delimiter string `yaml:"delimiter"`
	Algorithm string `yaml:"algorithm"`
	Processes int    `yaml:"processes"`
	Absolute  bool   `yaml:"absolute"`
	Summary   string `yaml:"summary"`
	LogLevel  string `yaml:"log_level"`
}

// LoadFile reads a YAML config file.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, err
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// Settings holds unvalidated inputs while the layers are applied.
type Settings struct {
	Source     string
	Output     string
	Delimiter  string
	Algorithms []string
	Processes  int
	Absolute   bool
	Summary    string
	LogLevel   string
}

// Defaults returns the settings used when nothing else is configured.
func Defaults() Settings {
	return Settings{
		Delimiter: ",",
		Processes: util.DefaultWorkers,
		LogLevel:  "info",
	}
}

// ApplyFile overlays every non-zero field of fc.
func (s *Settings) ApplyFile(fc *FileConfig) {
	if fc == nil {
		return
	}
	if fc.Source != "" {
		s.Source = fc.Source
	}
	if fc.Output != "" {
		s.Output = fc.Output
	}
	if fc.Delimiter != "" {
		s.Delimiter = fc.Delimiter
	}
	if fc.Algorithm != "" {
		s.Algorithms = []string{fc.Algorithm}
	}
	if fc.Processes != 0 {
		s.Processes = fc.Processes
	}
	if fc.Absolute {
		s.Absolute = true
	}
	if fc.Summary != "" {
		s.Summary = fc.Summary
	}
	if fc.LogLevel != "" {
		s.LogLevel = fc.LogLevel
	}
}

// ApplyEnv overlays IOCIFY_* variables found through lookup, which is
// normally os.LookupEnv.
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(EnvPrefix + key)
		return v, ok && v != ""
	}
	if v, ok := get("SOURCE"); ok {
		s.Source = v
	}
	if v, ok := get("OUTPUT"); ok {
		s.Output = v
	}
	if v, ok := get("DELIMITER"); ok {
		s.Delimiter = v
	}
	if v, ok := get("ALGORITHM"); ok {
		s.Algorithms = []string{v}
	}
	if v, ok := get("PROCESSES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sPROCESSES=%q: %w", ErrInvalidConfig, EnvPrefix, v, ErrInvalidWorkers)
		}
		s.Processes = n
	}
	if v, ok := get("SUMMARY"); ok {
		s.Summary = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		s.LogLevel = v
	}
	return nil
}

// Build validates the settings and returns the run configuration.
func (s Settings) Build() (RunConfig, error) {
	invalid := func(err error) (RunConfig, error) {
		return RunConfig{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if s.Source == "" {
		return invalid(ErrMissingSource)
	}
	if s.Output == "" {
		return invalid(ErrMissingOutput)
	}
	algo, err := SelectAlgorithm(s.Algorithms)
	if err != nil {
		return invalid(err)
	}
	if s.Processes <= 0 {
		return invalid(fmt.Errorf("%w: got %d", ErrInvalidWorkers, s.Processes))
	}
	delim, err := ParseDelimiter(s.Delimiter)
	if err != nil {
		return invalid(err)
	}

	return RunConfig{
		Source:    s.Source,
		Output:    s.Output,
		Delimiter: delim,
		Algorithm: algo,
		Workers:   s.Processes,
		Absolute:  s.Absolute,
		Summary:   s.Summary,
		LogLevel:  s.LogLevel,
	}, nil
}

// SelectAlgorithm resolves the selected algorithm names to exactly one
// Algorithm. Repeating the same name counts once.
func SelectAlgorithm(names []string) (util.Algorithm, error) {
	var selected []util.Algorithm
	for _, name := range names {
		a, err := util.ParseAlgorithm(name)
		if err != nil {
			return 0, err
		}
		if !slices.Contains(selected, a) {
			selected = append(selected, a)
		}
	}
	switch len(selected) {
	case 0:
		return 0, ErrNoAlgorithm
	case 1:
		return selected[0], nil
	}
	return 0, fmt.Errorf("%w: got %d", ErrMultipleAlgorithms, len(selected))
}

// ParseDelimiter accepts a single character. "\t" and "tab" select a tab.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelimiter, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	switch r {
	case '"', '\r', '\n', utf8.RuneError:
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelimiter, s)
	}
	return r, nil
}
