package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	ENV_CONFIG        = "FFTPEG_CONFIG"
	ENV_DOWNLOAD_PATH = "FFTPEG_DOWNLOAD_PATH"
	ENV_LOG_LEVEL     = "FFTPEG_LOG_LEVEL"
)

type Env struct {
	ConfigPath   string
	DownloadPath string
	LogLevel     string
}

// LoadEnv loads the given dotenv files (".env" when none are given) into the
// process environment and reads the FFTPEG_* overrides. Missing files are
// skipped and variables already set in the environment win.
func LoadEnv(files ...string) (Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Env{}, fmt.Errorf("config: could not load %s: %w", f, err)
		}
	}
	return Env{
		ConfigPath:   os.Getenv(ENV_CONFIG),
		DownloadPath: os.Getenv(ENV_DOWNLOAD_PATH),
		LogLevel:     os.Getenv(ENV_LOG_LEVEL),
	}, nil
}

func (c *Config) ApplyEnv(env Env) {
	if env.DownloadPath != "" {
		c.DownloadPath = env.DownloadPath
	}
}
