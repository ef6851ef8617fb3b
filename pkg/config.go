package treeutils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-ini/ini"
)

const maxHashWorkers = 256

// ConfigEnvVar names an explicit config file, overriding the XDG location
const ConfigEnvVar = "TREEUTILS_CONFIG"

// Config represents the treeutils configuration
type Config struct {
	configPath string
	ini        *ini.File
}

// HashConfig represents hash algorithm configuration
type HashConfig struct {
	Algorithm string // blake3, blake2b, sha256, sha512, sha1
	Buffer    string // read chunk size, human readable
}

// PerformanceConfig represents performance-related configuration
type PerformanceConfig struct {
	HashWorkers int // 0 means one per CPU
	QueueDepth  int // 0 means unbounded
}

// WalkConfig represents traversal configuration
type WalkConfig struct {
	IncludeEmpty bool
	Exclude      []string // gitignore-style patterns
	ExcludeFile  string   // optional file of additional patterns
}

// DiffConfig represents diff engine configuration
type DiffConfig struct {
	CopyMatch         string // farthest or closest
	RelativeCopyPaths bool
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Color    string // auto, always, never
	Progress string // auto, always, never
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // 0=quiet, 1=basic, 2=detailed, 3=trace
	Debug string // comma-separated debug flags
}

// AllConfig represents all configuration options
type AllConfig struct {
	Hash        *HashConfig
	Performance *PerformanceConfig
	Walk        *WalkConfig
	Diff        *DiffConfig
	Output      *OutputConfig
	Verbose     *VerboseConfig
}

// configDefault is one key with its default and validator
type configDefault struct {
	section  string
	key      string
	value    string
	validate func(string) error
}

var configDefaults = []configDefault{
	{"hash", "algorithm", DefaultHashAlgorithm, ValidateHashAlgorithm},
	{"hash", "buffer", "64K", validateHumanSize},
	{"performance", "hash_workers", "0", validateIntString(ValidateHashWorkers)},
	{"performance", "queue_depth", "0", validateIntString(ValidateQueueDepth)},
	{"walk", "include_empty", "false", validateBoolString},
	{"walk", "exclude", "", nil},
	{"walk", "exclude_file", "", nil},
	{"diff", "copy_match", "farthest", ValidateCopyMatch},
	{"diff", "relative_copy_paths", "false", validateBoolString},
	{"output", "color", "auto", ValidateWhenMode},
	{"output", "progress", "auto", ValidateWhenMode},
	{"verbose", "level", "0", validateIntString(ValidateVerboseLevel)},
	{"verbose", "debug", "", ValidateDebugFlags},
}

// DefaultConfigPath resolves $TREEUTILS_CONFIG, then
// $XDG_CONFIG_HOME/treeutils/config, then ~/.config/treeutils/config
func DefaultConfigPath() string {
	if p := os.Getenv(ConfigEnvVar); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "treeutils", "config")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "treeutils", "config")
}

// NewDefaultConfig returns a config holding only defaults, recorded as loaded from path
func NewDefaultConfig(path string) *Config {
	cfg := &Config{configPath: path, ini: ini.Empty()}
	cfg.setDefaults()
	return cfg
}

// LoadConfig loads configuration from path, or from DefaultConfigPath when
// path is empty. A missing file yields defaults and is not created.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	if path == "" {
		return NewDefaultConfig(path), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		VerboseLog(2, "no config at %s, using defaults", path)
		return NewDefaultConfig(path), nil
	}

	iniFile, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	cfg := &Config{configPath: path, ini: iniFile}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// setDefaults sets default configuration values
func (c *Config) setDefaults() {
	for _, d := range configDefaults {
		c.ini.Section(d.section).Key(d.key).SetValue(d.value)
	}
}

// Path returns the file the config was loaded from or will be saved to
func (c *Config) Path() string {
	return c.configPath
}

// value returns the configured string or the built-in default
func (c *Config) value(section, key string) string {
	if c.ini.HasSection(section) {
		s := c.ini.Section(section)
		if s.HasKey(key) {
			return strings.TrimSpace(s.Key(key).String())
		}
	}
	for _, d := range configDefaults {
		if d.section == section && d.key == key {
			return d.value
		}
	}
	return ""
}

func (c *Config) intValue(section, key string) int {
	n, err := strconv.Atoi(c.value(section, key))
	if err != nil {
		return 0
	}
	return n
}

func (c *Config) boolValue(section, key string) bool {
	b, err := strconv.ParseBool(c.value(section, key))
	return err == nil && b
}

// GetHashConfig returns the hash configuration
func (c *Config) GetHashConfig() *HashConfig {
	return &HashConfig{
		Algorithm: c.value("hash", "algorithm"),
		Buffer:    c.value("hash", "buffer"),
	}
}

// GetPerformanceConfig returns the performance configuration
func (c *Config) GetPerformanceConfig() *PerformanceConfig {
	return &PerformanceConfig{
		HashWorkers: c.intValue("performance", "hash_workers"),
		QueueDepth:  c.intValue("performance", "queue_depth"),
	}
}

// GetWalkConfig returns the traversal configuration
func (c *Config) GetWalkConfig() *WalkConfig {
	return &WalkConfig{
		IncludeEmpty: c.boolValue("walk", "include_empty"),
		Exclude:      ParseExcludeList(c.value("walk", "exclude")),
		ExcludeFile:  c.value("walk", "exclude_file"),
	}
}

// GetDiffConfig returns the diff configuration
func (c *Config) GetDiffConfig() *DiffConfig {
	return &DiffConfig{
		CopyMatch:         c.value("diff", "copy_match"),
		RelativeCopyPaths: c.boolValue("diff", "relative_copy_paths"),
	}
}

// GetOutputConfig returns the output configuration
func (c *Config) GetOutputConfig() *OutputConfig {
	return &OutputConfig{
		Color:    c.value("output", "color"),
		Progress: c.value("output", "progress"),
	}
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	return &VerboseConfig{
		Level: c.intValue("verbose", "level"),
		Debug: c.value("verbose", "debug"),
	}
}

// GetAllConfig returns all configuration options
func (c *Config) GetAllConfig() *AllConfig {
	return &AllConfig{
		Hash:        c.GetHashConfig(),
		Performance: c.GetPerformanceConfig(),
		Walk:        c.GetWalkConfig(),
		Diff:        c.GetDiffConfig(),
		Output:      c.GetOutputConfig(),
		Verbose:     c.GetVerboseConfig(),
	}
}

// SupportedOverrideKeys lists every "section.key" accepted by ApplyOverrides
func SupportedOverrideKeys() []string {
	keys := make([]string, 0, len(configDefaults))
	for _, d := range configDefaults {
		keys = append(keys, d.section+"."+d.key)
	}
	sort.Strings(keys)
	return keys
}

// ApplyOverrides applies command-line overrides to the configuration.
// Accepts strings like "hash.algorithm:sha256", "output.progress:never",
// "verbose.level:2". Values are validated before anything is applied.
func (c *Config) ApplyOverrides(overrides []string) error {
	type pending struct{ section, key, value string }
	var changes []pending

	for _, override := range overrides {
		parts := strings.SplitN(override, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid override format '%s', expected 'section.key:value'", override)
		}

		name := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])

		d, ok := lookupConfigDefault(name)
		if !ok {
			return fmt.Errorf("unsupported override key '%s' (supported: %s)", name, strings.Join(SupportedOverrideKeys(), ", "))
		}
		if d.validate != nil {
			if err := d.validate(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
		}
		changes = append(changes, pending{d.section, d.key, value})
	}

	for _, ch := range changes {
		c.ini.Section(ch.section).Key(ch.key).SetValue(ch.value)
	}
	return nil
}

func lookupConfigDefault(name string) (configDefault, bool) {
	section, key, ok := strings.Cut(name, ".")
	if !ok {
		return configDefault{}, false
	}
	for _, d := range configDefaults {
		if d.section == section && d.key == key {
			return d, true
		}
	}
	return configDefault{}, false
}

// Validate checks every known key present in the configuration
func (c *Config) Validate() error {
	for _, d := range configDefaults {
		if d.validate == nil {
			continue
		}
		if err := d.validate(c.value(d.section, d.key)); err != nil {
			return fmt.Errorf("%s.%s: %w", d.section, d.key, err)
		}
	}
	return nil
}

// ValidateHashAlgorithm validates that a hash algorithm is supported
func ValidateHashAlgorithm(algorithm string) error {
	if _, ok := HashTypeFromName(algorithm); !ok {
		return fmt.Errorf("%w: %s (supported: blake3, blake2b, sha256, sha512, sha1)", ErrUnsupportedHash, algorithm)
	}
	return nil
}

// ValidateVerboseLevel validates that a verbose level is valid
func ValidateVerboseLevel(level int) error {
	if level < 0 || level > 3 {
		return fmt.Errorf("invalid verbose level: %d (supported: 0-3)", level)
	}
	return nil
}

// ValidateDebugFlags rejects flags the pipeline does not know about
func ValidateDebugFlags(debug string) error {
	for name := range parseDebugFlags(debug) {
		known := false
		for _, k := range knownDebugFlags {
			if name == k {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown debug flag: %s (supported: %s)", name, strings.Join(knownDebugFlags, ", "))
		}
	}
	return nil
}

// ValidateHashWorkers validates that the hash worker count is reasonable.
// Zero selects one worker per CPU.
func ValidateHashWorkers(workers int) error {
	if workers < 0 {
		return fmt.Errorf("hash workers must not be negative, got: %d", workers)
	}
	if workers > maxHashWorkers {
		return fmt.Errorf("hash workers should not exceed %d, got: %d", maxHashWorkers, workers)
	}
	return nil
}

// ValidateQueueDepth validates the hash queue bound. Zero means unbounded.
func ValidateQueueDepth(depth int) error {
	if depth < 0 {
		return fmt.Errorf("queue depth must not be negative, got: %d", depth)
	}
	return nil
}

// ValidateCopyMatch validates the copy attribution strategy
func ValidateCopyMatch(match string) error {
	_, err := ParseCopyMatch(match)
	return err
}

// ValidateWhenMode validates auto/always/never settings
func ValidateWhenMode(mode string) error {
	switch strings.ToLower(mode) {
	case "auto", "always", "never":
		return nil
	default:
		return fmt.Errorf("unsupported mode: %s (supported: auto, always, never)", mode)
	}
}

func validateHumanSize(s string) error {
	_, err := ParseHumanSize(s)
	return err
}

func validateBoolString(s string) error {
	if _, err := strconv.ParseBool(s); err != nil {
		return fmt.Errorf("expected a boolean, got: %s", s)
	}
	return nil
}

func validateIntString(check func(int) error) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("expected an integer, got: %s", s)
		}
		return check(n)
	}
}
