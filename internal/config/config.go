package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/formblock/formstool/internal/support"
	"github.com/joho/godotenv"
)

// DefaultFileName is looked up in the repository root when --config is not given.
const DefaultFileName = ".formstool.json"

// Config is the compiled-in configuration with optional overrides.
type Config struct {
	SchemaVersion string        `json:"schemaVersion"`
	Paths         PathsConfig   `json:"paths"`
	Hook          HookConfig    `json:"hook"`
	Runtime       RuntimeConfig `json:"runtime"`
	Logging       LoggingConfig `json:"logging"`
}

// PathsConfig holds repository-relative locations of the form block.
type PathsConfig struct {
	Root             string `json:"root"`
	MappingFile      string `json:"mappingFile"`
	ManifestFile     string `json:"manifestFile"`
	CustomComponents string `json:"customComponents"`
	OOTBComponents   string `json:"ootbComponents"`
	BaseModels       string `json:"baseModels"`
}

type HookConfig struct {
	LintCommand      string   `json:"lintCommand"`
	BuildJSONCommand string   `json:"buildJsonCommand"`
	PartialGlobs     []string `json:"partialGlobs"`
	ComponentGlobs   []string `json:"componentGlobs"`
	GeneratedFiles   []string `json:"generatedFiles"`
}

type RuntimeConfig struct {
	CodeBasePath    string `json:"codeBasePath"`
	ModuleCacheSize int    `json:"moduleCacheSize"`
}

type LoggingConfig struct {
	Level string `json:"level"`
	JSON  bool   `json:"json"`
}

type Flags struct {
	ConfigPath string
	Root       string
	LogLevel   string
	LogJSON    bool
}

// Default returns the compiled-in defaults.
func Default() Config {
	return Config{
		SchemaVersion: "1.0",
		Paths: PathsConfig{
			Root:             ".",
			MappingFile:      "blocks/form/mappings.js",
			ManifestFile:     "blocks/form/components.yaml",
			CustomComponents: "blocks/form/custom-components",
			OOTBComponents:   "blocks/form/components",
			BaseModels:       "blocks/form/models/form-components",
		},
		Hook: HookConfig{
			LintCommand:      "npm run lint",
			BuildJSONCommand: "npm run build:json --silent",
			PartialGlobs:     []string{"**/_*.json", "**/_*/**/*.json"},
			ComponentGlobs: []string{
				"blocks/form/custom-components/**",
				"blocks/form/components/**",
				"blocks/form/mappings.js",
			},
			GeneratedFiles: []string{
				"component-models.json",
				"component-definition.json",
				"component-filters.json",
			},
		},
		Runtime: RuntimeConfig{
			CodeBasePath:    "",
			ModuleCacheSize: 128,
		},
		Logging: LoggingConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// Load reads a JSON config from disk.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(support.StripBOM(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve applies defaults, the optional config file, environment overrides
// and flags, in that order, then validates. It returns the path of the file
// that was loaded, if any.
func Resolve(flags Flags) (Config, string, error) {
	_ = godotenv.Load()

	cfg := Default()
	root := firstNonEmpty(flags.Root, os.Getenv("FORMSTOOL_ROOT"), cfg.Paths.Root)

	cfgPath := flags.ConfigPath
	if cfgPath == "" {
		candidate := filepath.Join(root, DefaultFileName)
		if _, err := os.Stat(candidate); err == nil {
			cfgPath = candidate
		}
	}
	if cfgPath != "" {
		loaded, err := Load(cfgPath)
		if err != nil {
			return Config{}, "", err
		}
		mergeConfigDefaults(&loaded, &cfg)
		if !filepath.IsAbs(loaded.Paths.Root) {
			loaded.Paths.Root = filepath.Join(filepath.Dir(cfgPath), loaded.Paths.Root)
		}
		cfg = loaded
	}

	applyEnv(&cfg)
	if flags.Root != "" {
		cfg.Paths.Root = flags.Root
	}
	if flags.LogLevel != "" {
		cfg.Logging.Level = flags.LogLevel
	}
	if flags.LogJSON {
		cfg.Logging.JSON = true
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, "", err
	}
	return cfg, cfgPath, nil
}

// Validate checks the resolved configuration for consistency.
func (c *Config) Validate() error {
	if c.SchemaVersion != "1.0" {
		return fmt.Errorf("unsupported schemaVersion: %s (expected 1.0)", c.SchemaVersion)
	}
	required := map[string]string{
		"paths.mappingFile":      c.Paths.MappingFile,
		"paths.customComponents": c.Paths.CustomComponents,
		"paths.ootbComponents":   c.Paths.OOTBComponents,
	}
	for key, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
	}
	if c.Runtime.ModuleCacheSize < 0 {
		return fmt.Errorf("runtime.moduleCacheSize must be >= 0")
	}
	return nil
}

// Abs resolves a repository-relative path against Paths.Root.
func (c *Config) Abs(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.Paths.Root, filepath.FromSlash(rel))
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("FORMSTOOL_ROOT")); v != "" {
		cfg.Paths.Root = v
	}
	if v := strings.TrimSpace(os.Getenv("FORMSTOOL_LOG_LEVEL")); v != "" {
		cfg.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("FORMSTOOL_LINT_CMD")); v != "" {
		cfg.Hook.LintCommand = v
	}
	if v := strings.TrimSpace(os.Getenv("FORMSTOOL_BUILD_JSON_CMD")); v != "" {
		cfg.Hook.BuildJSONCommand = v
	}
}

func mergeConfigDefaults(cfg *Config, defaults *Config) {
	if cfg.SchemaVersion == "" {
		cfg.SchemaVersion = defaults.SchemaVersion
	}
	if cfg.Paths.Root == "" {
		cfg.Paths.Root = defaults.Paths.Root
	}
	if cfg.Paths.MappingFile == "" {
		cfg.Paths.MappingFile = defaults.Paths.MappingFile
	}
	if cfg.Paths.ManifestFile == "" {
		cfg.Paths.ManifestFile = defaults.Paths.ManifestFile
	}
	if cfg.Paths.CustomComponents == "" {
		cfg.Paths.CustomComponents = defaults.Paths.CustomComponents
	}
	if cfg.Paths.OOTBComponents == "" {
		cfg.Paths.OOTBComponents = defaults.Paths.OOTBComponents
	}
	if cfg.Paths.BaseModels == "" {
		cfg.Paths.BaseModels = defaults.Paths.BaseModels
	}
	if cfg.Hook.LintCommand == "" {
		cfg.Hook.LintCommand = defaults.Hook.LintCommand
	}
	if cfg.Hook.BuildJSONCommand == "" {
		cfg.Hook.BuildJSONCommand = defaults.Hook.BuildJSONCommand
	}
	if len(cfg.Hook.PartialGlobs) == 0 {
		cfg.Hook.PartialGlobs = defaults.Hook.PartialGlobs
	}
	if len(cfg.Hook.ComponentGlobs) == 0 {
		cfg.Hook.ComponentGlobs = defaults.Hook.ComponentGlobs
	}
	if len(cfg.Hook.GeneratedFiles) == 0 {
		cfg.Hook.GeneratedFiles = defaults.Hook.GeneratedFiles
	}
	if cfg.Runtime.ModuleCacheSize == 0 {
		cfg.Runtime.ModuleCacheSize = defaults.Runtime.ModuleCacheSize
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
