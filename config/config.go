package config

import (
	"encoding/json"
	"errors"
	"fftpeg/file_io"
	L "fftpeg/logger"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type FormatPolicy struct {
	Format            string `json:"format"`
	MergeOutputFormat string `json:"merge_output_format,omitempty"`
}

type AutoTagRule struct {
	Source  string `json:"source"`
	Tag     string `json:"tag"`
	Enabled bool   `json:"enabled"`
}

type Config struct {
	DownloadPath     string                  `json:"download_path"`
	OrganizeBySource bool                    `json:"organize_by_source"`
	OrganizeByTag    bool                    `json:"organize_by_tag"`
	OrganizeByDate   bool                    `json:"organize_by_date"`
	SourceFormats    map[string]FormatPolicy `json:"source_formats"`
	AutoTagRules     []AutoTagRule           `json:"auto_tag_rules"`
	YtdlpPath        string                  `json:"ytdlp_path,omitempty"`
	FfmpegPath       string                  `json:"ffmpeg_path,omitempty"`
	SweepInterval    string                  `json:"sweep_interval"`
	ListenAddr       string                  `json:"listen_addr"`
	TagCacheSize     int                     `json:"tag_cache_size"`
}

const DefaultSource = "default"

var platforms = []string{"youtube", "twitter", "instagram", "vimeo", "tiktok", "twitch", "reddit"}

func Default() *Config {
	formats := make(map[string]FormatPolicy, len(platforms)+1)
	rules := make([]AutoTagRule, 0, len(platforms))
	for _, p := range platforms {
		formats[p] = FormatPolicy{Format: "best"}
		rules = append(rules, AutoTagRule{Source: p, Tag: p, Enabled: true})
	}
	formats["youtube"] = FormatPolicy{
		Format:            "bestvideo[height<=1080]+bestaudio/best[height<=1080]",
		MergeOutputFormat: "mp4",
	}
	formats["instagram"] = FormatPolicy{Format: "best[height<=720]"}
	formats[DefaultSource] = FormatPolicy{Format: "best"}

	return &Config{
		DownloadPath:     "~/Videos/fftpeg/downloads",
		OrganizeBySource: true,
		OrganizeByTag:    true,
		OrganizeByDate:   true,
		SourceFormats:    formats,
		AutoTagRules:     rules,
		SweepInterval:    "1h",
		ListenAddr:       "127.0.0.1:9464",
		TagCacheSize:     256,
	}
}

// Load reads the config at configPath over the built-in defaults. A missing
// file is created from the defaults.
func Load(configPath string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: could not open config file %s: %w", configPath, err)
		}
		L.Debug(fmt.Sprintf("config: %s does not exist, writing defaults", configPath))
		err = cfg.Save(configPath)
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}
	err = json.Unmarshal(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("config: malformed config %s: %w", configPath, err)
	}
	err = validate(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: could not validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Save(configPath string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: could not encode config: %w", err)
	}
	_, err = file_io.WriteToFile(configPath, append(data, '\n'), file_io.WRITE_OVERWRITE)
	if err != nil {
		return fmt.Errorf("config: could not write %s: %w", configPath, err)
	}
	return nil
}

func (c *Config) ToJson() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatFor returns the policy for source, falling back to the default entry.
func (c *Config) FormatFor(source string) FormatPolicy {
	if policy, ok := c.SourceFormats[source]; ok && policy.Format != "" {
		return policy
	}
	if policy, ok := c.SourceFormats[DefaultSource]; ok && policy.Format != "" {
		return policy
	}
	return FormatPolicy{Format: "best"}
}

func (c *Config) SweepEvery() (time.Duration, error) {
	d, err := time.ParseDuration(c.SweepInterval)
	if err != nil {
		return 0, fmt.Errorf("config: invalid sweep_interval %q: %w", c.SweepInterval, err)
	}
	return d, nil
}

func GetDefaultConfigDir() (string, error) {
	configDir, configDirError := os.UserConfigDir()
	homeDir, homeDirError := os.UserHomeDir()
	if configDirError != nil && homeDirError != nil {
		return "", fmt.Errorf("config: cannot find config dir: Config: %w, Home: %w", configDirError, homeDirError)
	}
	var dir string
	if configDirError == nil {
		dir = configDir
	} else {
		dir = homeDir
	}
	dir, err := filepath.Abs(filepath.Join(dir, "fftpeg"))
	if err != nil {
		return "", err
	}
	L.Debug(fmt.Sprintf("Using config directory: %s", dir))
	err = os.MkdirAll(dir, os.ModePerm)
	if err != nil {
		return "", err
	}
	return dir, nil
}

func GetDefaultConfigPath() (string, error) {
	configDir, err := GetDefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

func validate(c *Config) error {
	if c.DownloadPath == "" {
		return fmt.Errorf("download_path must not be empty")
	}
	if _, err := c.SweepEvery(); err != nil {
		return err
	}
	if c.TagCacheSize < 1 {
		return fmt.Errorf("tag_cache_size must be positive, got %d", c.TagCacheSize)
	}
	for i, r := range c.AutoTagRules {
		if r.Source == "" || r.Tag == "" {
			return fmt.Errorf("auto_tag_rules[%d]: source and tag are required", i)
		}
	}
	return nil
}
