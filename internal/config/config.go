package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	dserrors "deadsym/internal/errors"
)

// FileName is the project-level configuration file looked up in the project root.
const FileName = "deadsym.toml"

// CurrentVersion is the only supported configuration schema version.
const CurrentVersion = 1

// Config represents the complete deadsym configuration.
type Config struct {
	Version int `json:"version" mapstructure:"version" toml:"version" validate:"eq=1"`

	Code      CodeConfig      `json:"code" mapstructure:"code" toml:"code"`
	Resources ResourcesConfig `json:"resources" mapstructure:"resources" toml:"resources"`
	Classes   ClassesConfig   `json:"classes" mapstructure:"classes" toml:"classes"`
	Scan      ScanConfig      `json:"scan" mapstructure:"scan" toml:"scan"`
	Evidence  EvidenceConfig  `json:"evidence" mapstructure:"evidence" toml:"evidence"`
	Output    OutputConfig    `json:"output" mapstructure:"output" toml:"output"`
	Logging   LoggingConfig   `json:"logging" mapstructure:"logging" toml:"logging"`
}

// CodeConfig selects the source files searched for references.
type CodeConfig struct {
	Extensions  []string `json:"extensions" mapstructure:"extensions" toml:"extensions" validate:"min=1,dive,startswith=."`
	IgnorePaths []string `json:"ignorePaths" mapstructure:"ignore_paths" toml:"ignore_paths"`
}

// ResourcesConfig controls resource collection.
type ResourcesConfig struct {
	Extensions      []string `json:"extensions" mapstructure:"extensions" toml:"extensions" validate:"min=1,dive,startswith=."`
	ExcludePatterns []string `json:"excludePatterns,omitempty" mapstructure:"exclude_patterns" toml:"exclude_patterns,omitempty"`
	Grouping        bool     `json:"grouping" mapstructure:"grouping" toml:"grouping"`
}

// ClassesConfig controls class collection and filtering.
type ClassesConfig struct {
	// Extensions are the files searched for declarations and class references.
	Extensions          []string `json:"extensions" mapstructure:"extensions" toml:"extensions" validate:"min=1,dive,startswith=."`
	DeclarationPatterns []string `json:"declarationPatterns" mapstructure:"declaration_patterns" toml:"declaration_patterns" validate:"min=1"`
	IgnorePrefixes      []string `json:"ignorePrefixes" mapstructure:"ignore_prefixes" toml:"ignore_prefixes"`
	Whitelist           string   `json:"whitelist,omitempty" mapstructure:"whitelist" toml:"whitelist,omitempty"`
	ExcludePatterns     []string `json:"excludePatterns,omitempty" mapstructure:"exclude_patterns" toml:"exclude_patterns,omitempty"`
	Swift               bool     `json:"swift" mapstructure:"swift" toml:"swift"`
	Grouping            bool     `json:"grouping" mapstructure:"grouping" toml:"grouping"`
}

// ScanConfig tunes the reference scanner.
type ScanConfig struct {
	Workers            int  `json:"workers" mapstructure:"workers" toml:"workers" validate:"min=1,max=64"`
	ProgressIntervalMs int  `json:"progressIntervalMs" mapstructure:"progress_interval_ms" toml:"progress_interval_ms" validate:"min=0"`
	SkipDuplicates     bool `json:"skipDuplicates" mapstructure:"skip_duplicates" toml:"skip_duplicates"`
}

// EvidenceConfig points at optional evidence inputs.
type EvidenceConfig struct {
	KeepFile  string `json:"keepFile,omitempty" mapstructure:"keep_file" toml:"keep_file,omitempty"`
	ScipIndex string `json:"scipIndex,omitempty" mapstructure:"scip_index" toml:"scip_index,omitempty"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Format string `json:"format" mapstructure:"format" toml:"format" validate:"oneof=human json yaml sarif"`
	Color  string `json:"color" mapstructure:"color" toml:"color" validate:"oneof=auto always never"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `json:"level" mapstructure:"level" toml:"level" validate:"omitempty,oneof=debug info warn warning error silent"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Code: CodeConfig{
			Extensions:  []string{".m"},
			IgnorePaths: []string{},
		},
		Resources: ResourcesConfig{
			Extensions: []string{".png", ".svga", ".mp3", ".mp4"},
			Grouping:   true,
		},
		Classes: ClassesConfig{
			Extensions: []string{".h", ".m"},
			DeclarationPatterns: []string{
				`@implementation\s+([A-Za-z_][A-Za-z0-9_]*)`,
				`@interface\s+([A-Za-z_][A-Za-z0-9_]*)`,
			},
			IgnorePrefixes: []string{"NS", "UI"},
			Swift:          true,
			Grouping:       false,
		},
		Scan: ScanConfig{
			Workers:            1,
			ProgressIntervalMs: 1000,
			SkipDuplicates:     true,
		},
		Output: OutputConfig{
			Format: "human",
			Color:  "auto",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// LoadConfig loads deadsym.toml from root, applying DEADSYM_* environment
// overrides. A missing file yields the defaults.
func LoadConfig(root string) (*Config, error) {
	v := newViper()
	v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
	v.AddConfigPath(root)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, dserrors.New(dserrors.ConfigInvalid, "failed to read "+FileName, err)
		}
	}
	return decode(v)
}

// LoadConfigFile loads an explicitly named configuration file. Unlike
// LoadConfig, a missing file is an error.
func LoadConfigFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, dserrors.New(dserrors.ConfigInvalid, "failed to read "+path, err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetConfigType("toml")

	v.SetEnvPrefix("DEADSYM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, dserrors.New(dserrors.ConfigInvalid, "failed to decode configuration", err)
	}
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("version", d.Version)
	v.SetDefault("code.extensions", d.Code.Extensions)
	v.SetDefault("code.ignore_paths", d.Code.IgnorePaths)
	v.SetDefault("resources.extensions", d.Resources.Extensions)
	v.SetDefault("resources.exclude_patterns", d.Resources.ExcludePatterns)
	v.SetDefault("resources.grouping", d.Resources.Grouping)
	v.SetDefault("classes.extensions", d.Classes.Extensions)
	v.SetDefault("classes.declaration_patterns", d.Classes.DeclarationPatterns)
	v.SetDefault("classes.ignore_prefixes", d.Classes.IgnorePrefixes)
	v.SetDefault("classes.whitelist", d.Classes.Whitelist)
	v.SetDefault("classes.exclude_patterns", d.Classes.ExcludePatterns)
	v.SetDefault("classes.swift", d.Classes.Swift)
	v.SetDefault("classes.grouping", d.Classes.Grouping)
	v.SetDefault("scan.workers", d.Scan.Workers)
	v.SetDefault("scan.progress_interval_ms", d.Scan.ProgressIntervalMs)
	v.SetDefault("scan.skip_duplicates", d.Scan.SkipDuplicates)
	v.SetDefault("evidence.keep_file", d.Evidence.KeepFile)
	v.SetDefault("evidence.scip_index", d.Evidence.ScipIndex)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.color", d.Output.Color)
	v.SetDefault("logging.level", d.Logging.Level)
}

// Normalize lower-cases extensions and adds a missing leading dot.
func (c *Config) Normalize() {
	c.Code.Extensions = NormalizeExtensions(c.Code.Extensions)
	c.Resources.Extensions = NormalizeExtensions(c.Resources.Extensions)
	c.Classes.Extensions = NormalizeExtensions(c.Classes.Extensions)
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			first := verrs[0]
			cfgErr := &ConfigError{
				Field:   first.Namespace(),
				Message: fmt.Sprintf("failed %q validation (value %v)", first.Tag(), first.Value()),
			}
			return dserrors.New(dserrors.ConfigInvalid, "invalid configuration", cfgErr)
		}
		return dserrors.New(dserrors.ConfigInvalid, "invalid configuration", err)
	}

	for _, p := range c.Classes.DeclarationPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return dserrors.New(dserrors.ConfigInvalid, "invalid declaration pattern",
				&ConfigError{Field: "classes.declaration_patterns", Message: err.Error()})
		}
		if re.NumSubexp() < 1 {
			return dserrors.New(dserrors.ConfigInvalid, "invalid declaration pattern",
				&ConfigError{Field: "classes.declaration_patterns", Message: "pattern " + p + " has no capture group"})
		}
	}
	return nil
}

// WriteDefault writes the default configuration to <root>/deadsym.toml.
// An existing file is only replaced when force is set.
func WriteDefault(root string, force bool) (string, error) {
	path := filepath.Join(root, FileName)
	if _, err := os.Stat(path); err == nil && !force {
		return path, fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	data, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return path, fmt.Errorf("failed to encode default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return path, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
