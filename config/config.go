// Package config loads the analysis profile used by the insights CLI.
//
// A profile is read from an optional YAML or JSON file and overridden by
// INSIGHTS_* environment variables, where nested keys join with an
// underscore (graph.min_misses → INSIGHTS_GRAPH_MIN_MISSES). Every loaded
// profile is validated before it is returned.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/katalvlaran/insights/missgraph"
	"github.com/katalvlaran/insights/rubric"
	"github.com/katalvlaran/insights/simu"
)

// ErrInvalidConfig wraps every load or validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// EnvPrefix is the environment prefix of overrides.
const EnvPrefix = "INSIGHTS"

var validate = validator.New()

// Config is one analysis profile.
type Config struct {
	Seed       int64    `mapstructure:"seed"`
	Students   int      `mapstructure:"students" validate:"gte=0,lte=999"`
	StudentIDs []string `mapstructure:"student_ids" validate:"omitempty,unique,dive,required"`
	Attempts   int      `mapstructure:"attempts" validate:"gte=0,lte=100"`
	Scenarios  []string `mapstructure:"scenarios" validate:"min=1,dive,required"`
	Modes      []string `mapstructure:"modes" validate:"min=1,dive,required"`

	Graph       GraphConfig       `mapstructure:"graph"`
	Correlation CorrelationConfig `mapstructure:"correlation"`
	Log         LogConfig         `mapstructure:"log"`

	// Criteria replaces the built-in proactive rubric when set.
	Criteria *CriteriaConfig `mapstructure:"criteria"`
}

// GraphConfig drives miss-graph construction.
type GraphConfig struct {
	Granularity   string   `mapstructure:"granularity" validate:"oneof=element domain"`
	MissThreshold float64  `mapstructure:"miss_threshold" validate:"gte=0,lte=4"`
	MinMisses     int      `mapstructure:"min_misses" validate:"gte=1"`
	Focus         []string `mapstructure:"focus" validate:"omitempty,dive,required"`
}

// CorrelationConfig drives the correlation analyzer.
type CorrelationConfig struct {
	MaxP    float64 `mapstructure:"max_p" validate:"gt=0,lte=1"`
	MinAbsR float64 `mapstructure:"min_abs_r" validate:"gte=0,lte=1"`
}

// LogConfig drives the process logger. An empty File disables file output.
type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress"`
}

// CriteriaConfig is a custom criteria set in domain order.
type CriteriaConfig struct {
	Name    string         `mapstructure:"name" validate:"required"`
	Domains []DomainConfig `mapstructure:"domains" validate:"required,min=1,dive"`
}

// DomainConfig is one domain of a custom criteria set.
type DomainConfig struct {
	Name     string   `mapstructure:"name" validate:"required"`
	Elements []string `mapstructure:"elements" validate:"required,min=1,dive,required"`
}

// Default returns the built-in profile.
func Default() *Config {
	return &Config{
		Seed:      42,
		Students:  12,
		Attempts:  5,
		Scenarios: append([]string(nil), simu.DefaultScenarios...),
		Modes:     append([]string(nil), simu.DefaultModes...),
		Graph: GraphConfig{
			Granularity:   missgraph.Element.String(),
			MissThreshold: missgraph.DefaultMissThreshold,
			MinMisses:     missgraph.DefaultMinMisses,
		},
		Correlation: CorrelationConfig{MaxP: 0.05, MinAbsR: 0.3},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
	}
}

// Load reads path (skipped when empty), applies environment overrides on
// top of Default and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidConfig, path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("seed", d.Seed)
	v.SetDefault("students", d.Students)
	v.SetDefault("student_ids", d.StudentIDs)
	v.SetDefault("attempts", d.Attempts)
	v.SetDefault("scenarios", d.Scenarios)
	v.SetDefault("modes", d.Modes)

	v.SetDefault("graph.granularity", d.Graph.Granularity)
	v.SetDefault("graph.miss_threshold", d.Graph.MissThreshold)
	v.SetDefault("graph.min_misses", d.Graph.MinMisses)
	v.SetDefault("graph.focus", d.Graph.Focus)

	v.SetDefault("correlation.max_p", d.Correlation.MaxP)
	v.SetDefault("correlation.min_abs_r", d.Correlation.MinAbsR)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("log.compress", d.Log.Compress)
}

// Validate checks struct tags and that a custom criteria set builds.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.CriteriaSet(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return nil
}

// IDs returns StudentIDs when set, otherwise Students generated ids
// S01, S02, ...
func (c *Config) IDs() []string {
	if len(c.StudentIDs) > 0 {
		return append([]string(nil), c.StudentIDs...)
	}
	ids := make([]string, c.Students)
	for i := range ids {
		ids[i] = fmt.Sprintf("S%02d", i+1)
	}

	return ids
}

// AttemptList returns 1..Attempts.
func (c *Config) AttemptList() []int {
	out := make([]int, c.Attempts)
	for i := range out {
		out[i] = i + 1
	}

	return out
}

// CriteriaSet builds the custom criteria set, or the proactive rubric when
// none is configured.
func (c *Config) CriteriaSet() (*rubric.CriteriaSet, error) {
	if c.Criteria == nil {
		return rubric.Proactive(), nil
	}
	domains := make([]rubric.Domain, len(c.Criteria.Domains))
	for i, d := range c.Criteria.Domains {
		domains[i] = rubric.Domain{Name: d.Name, Elements: d.Elements}
	}

	return rubric.New(c.Criteria.Name, domains)
}

// MissGraphOptions translates the graph section into missgraph options.
func (c *Config) MissGraphOptions() ([]missgraph.Option, error) {
	g, err := missgraph.ParseGranularity(c.Graph.Granularity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	opts := []missgraph.Option{
		missgraph.WithGranularity(g),
		missgraph.WithMissThreshold(c.Graph.MissThreshold),
		missgraph.WithMinMisses(c.Graph.MinMisses),
	}
	if len(c.Graph.Focus) > 0 {
		opts = append(opts, missgraph.WithFocus(c.Graph.Focus...))
	}

	return opts, nil
}
