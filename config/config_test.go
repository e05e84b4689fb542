package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("MissingFileWritesDefaults", func(t *testing.T) {
		configPath := filepath.Join(tempDir, "fresh", "config.json")
		cfg, err := Load(configPath)
		assert.NoError(t, err)
		assert.Equal(t, Default(), cfg)

		info, err := os.Stat(configPath)
		assert.NoError(t, err)
		assert.False(t, info.IsDir())
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		configPath := filepath.Join(tempDir, "invalid.json")
		require.NoError(t, os.WriteFile(configPath, []byte("invalid json"), 0644))

		_, err := Load(configPath)
		assert.Error(t, err)
	})

	t.Run("InvalidData", func(t *testing.T) {
		configPath := filepath.Join(tempDir, "invalid-data.json")
		require.NoError(t, os.WriteFile(configPath, []byte(`{"sweep_interval": "often"}`), 0644))

		_, err := Load(configPath)
		assert.Error(t, err)
	})

	t.Run("MergesOverDefaults", func(t *testing.T) {
		configPath := filepath.Join(tempDir, "partial.json")
		require.NoError(t, os.WriteFile(configPath, []byte(`{
			"download_path": "/srv/media/downloads",
			"organize_by_date": false,
			"source_formats": {"vimeo": {"format": "worst"}}
		}`), 0644))

		cfg, err := Load(configPath)
		assert.NoError(t, err)
		assert.Equal(t, "/srv/media/downloads", cfg.DownloadPath)
		assert.False(t, cfg.OrganizeByDate)
		assert.True(t, cfg.OrganizeBySource)
		assert.Equal(t, "worst", cfg.FormatFor("vimeo").Format)
		assert.Equal(t, "mp4", cfg.FormatFor("youtube").MergeOutputFormat)
		assert.Len(t, cfg.AutoTagRules, 7)
	})
}

func TestSaveRoundTrip(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	cfg := Default()
	cfg.AddRule("youtube", "music")
	require.NoError(t, cfg.Save(configPath))

	loaded, err := Load(configPath)
	assert.NoError(t, err)
	assert.Contains(t, loaded.AutoTagRules, AutoTagRule{Source: "youtube", Tag: "music", Enabled: true})
}

func TestFormatFor(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "bestvideo[height<=1080]+bestaudio/best[height<=1080]", cfg.FormatFor("youtube").Format)
	assert.Equal(t, "best[height<=720]", cfg.FormatFor("instagram").Format)
	assert.Equal(t, "best", cfg.FormatFor("unknown").Format)

	cfg.SourceFormats = map[string]FormatPolicy{}
	assert.Equal(t, FormatPolicy{Format: "best"}, cfg.FormatFor("youtube"))
}

func TestRules(t *testing.T) {
	cfg := &Config{}

	assert.True(t, cfg.AddRule("youtube", "yt"))
	assert.False(t, cfg.AddRule("youtube", "yt"))
	assert.Len(t, cfg.AutoTagRules, 1)

	assert.True(t, cfg.SetRuleEnabled("youtube", "yt", false))
	assert.False(t, cfg.AutoTagRules[0].Enabled)
	assert.False(t, cfg.SetRuleEnabled("vimeo", "v", true))

	assert.True(t, cfg.AddRule("youtube", "yt"))
	assert.True(t, cfg.AutoTagRules[0].Enabled)

	assert.True(t, cfg.RemoveRule("youtube", "yt"))
	assert.False(t, cfg.RemoveRule("youtube", "yt"))
	assert.Empty(t, cfg.AutoTagRules)
}

func TestLayout(t *testing.T) {
	cfg := Default()
	cfg.DownloadPath = "/srv/media/downloads"

	layout, err := cfg.Layout()
	assert.NoError(t, err)
	assert.Equal(t, Layout{
		Base:      "/srv/media",
		Downloads: "/srv/media/downloads",
		BySource:  "/srv/media/by-source",
		ByTag:     "/srv/media/by-tag",
		ByDate:    "/srv/media/by-date",
		Staging:   "/srv/media/downloads/.staging",
	}, layout)
}

func TestLoadEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("FFTPEG_DOWNLOAD_PATH=/from/dotenv\nFFTPEG_LOG_LEVEL=debug\n"), 0644))
	t.Setenv(ENV_DOWNLOAD_PATH, "")
	os.Unsetenv(ENV_DOWNLOAD_PATH)
	t.Setenv(ENV_LOG_LEVEL, "warn")

	env, err := LoadEnv(envFile, filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
	assert.Equal(t, "/from/dotenv", env.DownloadPath)
	assert.Equal(t, "warn", env.LogLevel)

	cfg := Default()
	cfg.ApplyEnv(env)
	assert.Equal(t, "/from/dotenv", cfg.DownloadPath)
}

func TestGetDefaultConfigDir(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CONFIG_HOME", "")

	configDir, err := GetDefaultConfigDir()
	assert.NoError(t, err)

	expectedDir := filepath.Join(tempHome, ".config", "fftpeg")
	assert.Equal(t, expectedDir, configDir)
	info, err := os.Stat(configDir)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())

	configPath, err := GetDefaultConfigPath()
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(expectedDir, "config.json"), configPath)
}
