package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the clewn configuration.
type Config struct {
	NetBeans NetBeansConfig `toml:"netbeans" yaml:"netbeans"`
	Signs    SignsConfig    `toml:"signs" yaml:"signs"`
	Logging  LoggingConfig  `toml:"logging" yaml:"logging"`
}

// NetBeansConfig configures the editor connection.
type NetBeansConfig struct {
	// Listen is the address the editor connects to.
	Listen string `toml:"listen" yaml:"listen"`
}

// SignsConfig holds the background color tokens for the three sign
// variants. The values are passed verbatim to the editor.
type SignsConfig struct {
	EnabledBg  string `toml:"enabledBg" yaml:"enabledBg"`
	DisabledBg string `toml:"disabledBg" yaml:"disabledBg"`
	FrameBg    string `toml:"frameBg" yaml:"frameBg"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" yaml:"level"`

	// File is an optional log file path; empty logs to stderr.
	File string `toml:"file" yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		NetBeans: NetBeansConfig{
			Listen: "127.0.0.1:3219",
		},
		Signs: SignsConfig{
			EnabledBg:  "Cyan",
			DisabledBg: "Green",
			FrameBg:    "Magenta",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration file at path on top of the defaults, then
// applies environment overrides. An empty path or a missing file yields
// the defaults. The format is selected by extension: .toml, .yaml, .yml.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Missing file, defaults apply.
		case err != nil:
			return nil, err
		default:
			if err := unmarshal(path, data, cfg); err != nil {
				return nil, err
			}
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// unmarshal parses data into cfg according to the file extension.
func unmarshal(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return &ParseError{Path: path, Err: err}
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return &ParseError{Path: path, Err: err}
		}
	default:
		return &ParseError{Path: path, Err: ErrUnsupportedFormat}
	}
	return nil
}

// Environment overrides, applied after the file.
const (
	EnvListen   = "CLEWN_LISTEN"
	EnvLogLevel = "CLEWN_LOG_LEVEL"
	EnvLogFile  = "CLEWN_LOG_FILE"
)

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvListen); ok {
		cfg.NetBeans.Listen = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		cfg.Logging.Level = v
	}
	if v, ok := os.LookupEnv(EnvLogFile); ok {
		cfg.Logging.File = v
	}
}
