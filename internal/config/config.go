package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"
)

const AppName = "studio"

type (
	StorageConfig struct {
		DBPath  string `yaml:"db_path" validate:"required"`
		DataDir string `yaml:"data_dir" validate:"required"`
	}

	ExportConfig struct {
		OutputDir    string        `yaml:"output_dir" validate:"required"`
		AssetDir     string        `yaml:"asset_dir"`
		Scale        float64       `yaml:"scale" validate:"gt=0,lte=4"`
		CanvasWidth  int           `yaml:"canvas_width" validate:"min=100,max=10000"`
		CanvasHeight int           `yaml:"canvas_height" validate:"min=100,max=10000"`
		SettleDelay  time.Duration `yaml:"settle_delay" validate:"gte=0"`
	}

	AutosaveConfig struct {
		Enabled  bool   `yaml:"enabled"`
		Schedule string `yaml:"schedule" validate:"required_if=Enabled true"`
	}

	TemplatesConfig struct {
		Dir   string `yaml:"dir"`
		Watch bool   `yaml:"watch"`
	}

	Config struct {
		Version   int             `yaml:"version" validate:"eq=1"`
		Storage   StorageConfig   `yaml:"storage"`
		Export    ExportConfig    `yaml:"export"`
		Autosave  AutosaveConfig  `yaml:"autosave"`
		Templates TemplatesConfig `yaml:"templates"`
		Logging   LoggingConfig   `yaml:"logging"`
	}
)

// Default returns the built-in configuration. Paths live under the user
// configuration directory.
func Default() *Config {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	root := filepath.Join(base, AppName)
	return &Config{
		Version: 1,
		Storage: StorageConfig{
			DBPath:  filepath.Join(root, AppName+".db"),
			DataDir: filepath.Join(root, "data"),
		},
		Export: ExportConfig{
			OutputDir:    filepath.Join(root, "exports"),
			AssetDir:     filepath.Join(root, "data"),
			Scale:        2,
			CanvasWidth:  1000,
			CanvasHeight: 1414,
			SettleDelay:  300 * time.Millisecond,
		},
		Autosave: AutosaveConfig{
			Enabled:  true,
			Schedule: "@every 1m",
		},
		Templates: TemplatesConfig{
			Dir:   filepath.Join(root, "templates"),
			Watch: true,
		},
		Logging: LoggingConfig{
			ConsoleLogger: LoggerConfig{Level: "normal"},
			FileLogger: LoggerConfig{
				Level:       "none",
				Destination: filepath.Join(root, AppName+".log"),
				Mode:        "rotate",
			},
		},
	}
}

func unmarshalConfig(data []byte, cfg *Config) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	return cfg, nil
}

// LoadConfiguration superimposes the file at path (if any) on top of the
// built-in defaults and validates the result.
func LoadConfiguration(path string) (*Config, error) {
	cfg := Default()
	if len(path) > 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if len(bytes.TrimSpace(data)) > 0 {
			if cfg, err = unmarshalConfig(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to process configuration file: %w", err)
			}
		}
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints declared in struct tags.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
