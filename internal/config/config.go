package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/modelgraph/internal/graph"
)

// Environment variables that override file settings.
const (
	EnvLogLevel     = "MODELGRAPH_LOG_LEVEL"
	EnvFuzzy        = "MODELGRAPH_FUZZY"
	EnvFuzzyCutoff  = "MODELGRAPH_FUZZY_CUTOFF"
	EnvFuzzyLimit   = "MODELGRAPH_FUZZY_LIMIT"
	EnvCiteMaxLen   = "MODELGRAPH_CITE_MAX_LEN"
	EnvGraphJSONOut = "MODELGRAPH_GRAPH_JSON_OUT"
)

// ProjectConfig holds settings loaded from modelgraph.yml.
type ProjectConfig struct {
	LogLevel     string         `yaml:"logLevel,omitempty" validate:"oneof=debug info warn error"`
	GraphJSONOut string         `yaml:"graphJsonOut,omitempty"`
	Resolver     ResolverConfig `yaml:"resolver"`
	Cite         CiteConfig     `yaml:"cite"`
	Batch        BatchConfig    `yaml:"batch"`
	Watch        WatchConfig    `yaml:"watch"`
	Diagram      DiagramConfig  `yaml:"diagram"`
}

// ResolverConfig tunes entity resolution.
type ResolverConfig struct {
	Fuzzy  bool    `yaml:"fuzzy"`
	Cutoff float64 `yaml:"cutoff" validate:"gte=0,lte=100"`
	Limit  int     `yaml:"limit" validate:"gte=1"`
}

// CiteConfig tunes snippet citations.
type CiteConfig struct {
	MaxLen       int `yaml:"maxLen" validate:"gte=1"`
	ContextLines int `yaml:"contextLines" validate:"gte=0"`
}

// BatchConfig tunes batch resolution.
type BatchConfig struct {
	Concurrency int    `yaml:"concurrency" validate:"gte=1,lte=64"`
	OutDir      string `yaml:"outDir" validate:"required"`
}

// WatchConfig tunes model file watching.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" validate:"gte=0"`
}

// DiagramConfig tunes Mermaid output.
type DiagramConfig struct {
	MaxNodes int `yaml:"maxNodes" validate:"gte=0"`
}

// Default returns the built-in settings.
func Default() *ProjectConfig {
	opts := graph.DefaultResolverOptions()
	return &ProjectConfig{
		LogLevel: "info",
		Resolver: ResolverConfig{
			Fuzzy:  opts.Fuzzy,
			Cutoff: opts.Cutoff,
			Limit:  opts.Limit,
		},
		Cite:    CiteConfig{MaxLen: 600},
		Batch:   BatchConfig{Concurrency: 4, OutDir: "results"},
		Watch:   WatchConfig{Debounce: 500 * time.Millisecond},
		Diagram: DiagramConfig{MaxNodes: 200},
	}
}

// Load reads modelgraph.yml or modelgraph.yaml from dir over the defaults,
// applies environment overrides and validates the result. A missing file is
// not an error.
func Load(dir string) (*ProjectConfig, error) {
	cfg := Default()
	for _, name := range []string{"modelgraph.yml", "modelgraph.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		break
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints.
func (c *ProjectConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ResolverOptions converts the resolver settings.
func (c *ProjectConfig) ResolverOptions() graph.ResolverOptions {
	return graph.ResolverOptions{
		Fuzzy:  c.Resolver.Fuzzy,
		Cutoff: c.Resolver.Cutoff,
		Limit:  c.Resolver.Limit,
	}
}

func (c *ProjectConfig) applyEnv() error {
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvGraphJSONOut); ok {
		c.GraphJSONOut = v
	}
	if v, ok := os.LookupEnv(EnvFuzzy); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvFuzzy, err)
		}
		c.Resolver.Fuzzy = b
	}
	if v, ok := os.LookupEnv(EnvFuzzyCutoff); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvFuzzyCutoff, err)
		}
		c.Resolver.Cutoff = f
	}
	if v, ok := os.LookupEnv(EnvFuzzyLimit); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvFuzzyLimit, err)
		}
		c.Resolver.Limit = n
	}
	if v, ok := os.LookupEnv(EnvCiteMaxLen); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCiteMaxLen, err)
		}
		c.Cite.MaxLen = n
	}
	return nil
}

// LoadDotenv loads variables from a .env file without overriding ones
// already set. An empty path tries ./.env and ignores its absence.
func LoadDotenv(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
