package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tristendillon/capnp-stubgen/core/errors"
	"github.com/tristendillon/capnp-stubgen/core/logger"
)

// FileName is the config file looked up in the working directory.
const FileName = "stubgen.yaml"

// Config drives one generation run.
type Config struct {
	Paths     []string `yaml:"paths"`
	Excludes  []string `yaml:"excludes"`
	Clean     []string `yaml:"clean"`
	Output    string   `yaml:"output"`
	Recursive bool     `yaml:"recursive"`
	Parser    Parser   `yaml:"parser"`
	Format    Format   `yaml:"format"`
}

// Parser configures the external schema parser bridge: the command is run
// once per schema file and must print the serialized schema graph on stdout.
type Parser struct {
	Command []string `yaml:"command"`
}

// Format configures the best-effort cosmetic passes applied to the written
// stub files.
type Format struct {
	Command      []string `yaml:"command"`
	ImportSorter []string `yaml:"import_sorter"`
}

func Default() *Config {
	return &Config{
		Paths:     []string{"**/*.capnp"},
		Recursive: true,
		Parser: Parser{
			Command: []string{"capnp-graph"},
		},
	}
}

// Load reads the config from the working directory, falling back to the
// default config when no file is present.
func Load() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "cannot determine working dir")
	}
	return LoadFrom(wd)
}

// LoadFrom reads the config from a specific directory.
func LoadFrom(dir string) (*Config, error) {
	filePath := filepath.Join(dir, FileName)

	if _, err := os.Stat(filePath); err != nil {
		logger.Debug("No config file found, using default config")
		return Default(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", filePath)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse yaml")
	}
	logger.Debug("Config file found: %s", filePath)
	logger.Debug("Config: %+v", cfg)

	return cfg, nil
}
