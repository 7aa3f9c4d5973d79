// Package config loads the voxnote configuration from a YAML file with
// environment-variable overrides. A missing config file is not an error;
// every setting has a default.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

const (
	defaultAPIBase       = "http://localhost:8000"
	defaultMaxFileSize   = "10MiB"
	defaultTimeout       = "300s"
	defaultNotifyVisible = "4s"
)

type Config struct {
	Endpoints     EndpointsConfig     `yaml:"endpoints"`
	Upload        UploadConfig        `yaml:"upload"`
	Audio         AudioConfig         `yaml:"audio"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`

	// Derived values, populated by Validate.
	MaxFileSize    int64         `yaml:"-"`
	RequestTimeout time.Duration `yaml:"-"`
	NotifyDuration time.Duration `yaml:"-"`
}

type EndpointsConfig struct {
	Transcription string `yaml:"transcription"`
	Summarization string `yaml:"summarization"`
	Timeout       string `yaml:"timeout"`
}

type UploadConfig struct {
	// MaxFileSize is a human-readable size such as "10MiB".
	MaxFileSize string `yaml:"max_file_size"`
	// AllowedTypes maps accepted media types to true. It replaces the
	// default allow-list entirely when set.
	AllowedTypes map[string]bool `yaml:"allowed_types"`
}

type AudioConfig struct {
	// Dir is the directory scanned and watched for candidate audio files.
	Dir string `yaml:"dir"`
}

type NotificationsConfig struct {
	Duration string `yaml:"duration"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultAllowedTypes covers the WAV and MP3/M4A family encodings accepted
// out of the box.
func DefaultAllowedTypes() map[string]bool {
	return map[string]bool{
		"audio/wav":   true,
		"audio/x-wav": true,
		"audio/wave":  true,
		"audio/mpeg":  true,
		"audio/mp3":   true,
		"audio/mp4":   true,
		"audio/m4a":   true,
		"audio/x-m4a": true,
		"audio/aac":   true,
	}
}

// Load reads the config file at path, applies environment overrides, and
// fills in defaults. A missing file yields a pure-default configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults only.
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("VOXNOTE_TRANSCRIPTION_URL"); v != "" {
		c.Endpoints.Transcription = v
	}
	if v := os.Getenv("VOXNOTE_SUMMARIZATION_URL"); v != "" {
		c.Endpoints.Summarization = v
	}
	if v := os.Getenv("VOXNOTE_AUDIO_DIR"); v != "" {
		c.Audio.Dir = v
	}
	if v := os.Getenv("VOXNOTE_MAX_FILE_SIZE"); v != "" {
		c.Upload.MaxFileSize = v
	}
	if v := os.Getenv("VOXNOTE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("VOXNOTE_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
}

// Validate applies defaults and resolves derived values. It is called by
// Load but exported so hand-built configs in tests can be completed too.
func (c *Config) Validate() error {
	base := strings.TrimRight(apiBase(), "/")
	if c.Endpoints.Transcription == "" {
		c.Endpoints.Transcription = base + "/transcribe"
	}
	if c.Endpoints.Summarization == "" {
		c.Endpoints.Summarization = base + "/summarize_and_notes"
	}
	if c.Endpoints.Timeout == "" {
		c.Endpoints.Timeout = defaultTimeout
	}
	if c.Upload.MaxFileSize == "" {
		c.Upload.MaxFileSize = defaultMaxFileSize
	}
	if len(c.Upload.AllowedTypes) == 0 {
		c.Upload.AllowedTypes = DefaultAllowedTypes()
	}
	if c.Audio.Dir == "" {
		c.Audio.Dir = "."
	}
	if c.Notifications.Duration == "" {
		c.Notifications.Duration = defaultNotifyVisible
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.File == "" {
		c.Logging.File = "voxnote.log"
	}

	size, err := humanize.ParseBytes(c.Upload.MaxFileSize)
	if err != nil {
		return fmt.Errorf("upload.max_file_size %q: %w", c.Upload.MaxFileSize, err)
	}
	c.MaxFileSize = int64(size)

	c.RequestTimeout, err = time.ParseDuration(c.Endpoints.Timeout)
	if err != nil {
		return fmt.Errorf("endpoints.timeout %q: %w", c.Endpoints.Timeout, err)
	}

	c.NotifyDuration, err = time.ParseDuration(c.Notifications.Duration)
	if err != nil {
		return fmt.Errorf("notifications.duration %q: %w", c.Notifications.Duration, err)
	}

	return nil
}

// apiBase returns the base URL that default endpoint paths hang off.
func apiBase() string {
	if v := os.Getenv("API_URL"); v != "" {
		return v
	}
	return defaultAPIBase
}
