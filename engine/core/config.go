package core

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultLogPrefix is the logger prefix used until a configuration is applied.
const DefaultLogPrefix string = "MeshOps 🧊 "

// Center policies accepted by SceneConfig.CenterPolicy.
const (
	CenterPolicyAllGeometry    string = "all-geometry"
	CenterPolicyDirectChildren string = "direct-children"
)

type LogConfig struct {
	Level  string `toml:"level"`
	Prefix string `toml:"prefix"`
}

type JobsConfig struct {
	// Workers is the number of goroutines collision cooking runs on.
	Workers int `toml:"workers"`
	// QueueSize is the buffer of the job channel.
	QueueSize int `toml:"queue_size"`
}

type SceneConfig struct {
	// DeferredQueueSize bounds the tasks waiting for the next Update.
	DeferredQueueSize int    `toml:"deferred_queue_size"`
	CenterPolicy      string `toml:"center_policy"`
	NameDelimiter     string `toml:"name_delimiter"`
}

type AssetsConfig struct {
	BasePath string `toml:"base_path"`
	// Watch enables cache invalidation on file changes.
	Watch bool `toml:"watch"`
}

// Config holds every tunable of the module. It is usually read from a
// TOML file with LoadConfig.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Jobs   JobsConfig   `toml:"jobs"`
	Scene  SceneConfig  `toml:"scene"`
	Assets AssetsConfig `toml:"assets"`
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Prefix: DefaultLogPrefix,
		},
		Jobs: JobsConfig{
			Workers:   2,
			QueueSize: 64,
		},
		Scene: SceneConfig{
			DeferredQueueSize: 256,
			CenterPolicy:      CenterPolicyAllGeometry,
			NameDelimiter:     "_",
		},
		Assets: AssetsConfig{
			BasePath: "assets",
			Watch:    false,
		},
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig decodes TOML data on top of DefaultConfig and validates the result.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Jobs.Workers <= 0 {
		return fmt.Errorf("jobs.workers must be positive, got %d: %w", c.Jobs.Workers, ErrInvalidArgument)
	}
	if c.Jobs.QueueSize < 0 {
		return fmt.Errorf("jobs.queue_size must not be negative, got %d: %w", c.Jobs.QueueSize, ErrInvalidArgument)
	}
	if c.Scene.DeferredQueueSize <= 0 {
		return fmt.Errorf("scene.deferred_queue_size must be positive, got %d: %w", c.Scene.DeferredQueueSize, ErrInvalidArgument)
	}
	switch c.Scene.CenterPolicy {
	case CenterPolicyAllGeometry, CenterPolicyDirectChildren:
	default:
		return fmt.Errorf("unknown scene.center_policy %q: %w", c.Scene.CenterPolicy, ErrInvalidArgument)
	}
	if c.Scene.NameDelimiter == "" {
		return fmt.Errorf("scene.name_delimiter must not be empty: %w", ErrInvalidArgument)
	}
	return nil
}
