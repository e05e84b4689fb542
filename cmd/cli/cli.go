// Package cli holds the flags and setup shared by the fftpeg subcommands.
package cli

import (
	"context"
	"fftpeg/backend"
	"fftpeg/backend/ytdlp"
	"fftpeg/config"
	"fftpeg/database"
	"fftpeg/file_io"
	L "fftpeg/logger"
	"fftpeg/pipeline"
	"fftpeg/service"
	"flag"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

type ctxKey string

// key of the map[string]string with binary_name, command_name and env overrides
const ValuesKey ctxKey = "values"

type CommonFlags struct {
	LogLevel   *string
	ColorMode  *string
	ConfigPath *string
}

// RegisterCommon adds --log-level/-L, --color and --config/-c to fs.
func RegisterCommon(fs *flag.FlagSet) *CommonFlags {
	f := &CommonFlags{
		LogLevel:   fs.String("log-level", L.GetLogLevel().String(), "Set log level: debug info warn error silent"),
		ColorMode:  fs.String("color", "auto", "Set color mode: auto always never"),
		ConfigPath: fs.String("config", "", "Path to config.json file"),
	}
	fs.StringVar(f.LogLevel, "L", L.GetLogLevel().String(), "alias to -log-level")
	fs.StringVar(f.ConfigPath, "c", "", "alias to -config")
	return f
}

func (f *CommonFlags) Apply() error {
	if f.LogLevel != nil && *f.LogLevel != "" {
		err := L.SetLevelFromString(*f.LogLevel)
		if err != nil {
			return err
		}
	}
	if f.ColorMode != nil && *f.ColorMode != "" {
		err := L.SetColorModeFromString(*f.ColorMode)
		if err != nil {
			return err
		}
	}
	return nil
}

func Value(ctx context.Context, key string) string {
	values, ok := ctx.Value(ValuesKey).(map[string]string)
	if !ok {
		return ""
	}
	return values[key]
}

// LoadConfig resolves the config path (flag, then FFTPEG_CONFIG, then the
// default location) and loads it with environment overrides applied.
func (f *CommonFlags) LoadConfig(ctx context.Context) (*config.Config, string, error) {
	configPath := ""
	if f.ConfigPath != nil {
		configPath = *f.ConfigPath
	}
	if configPath == "" {
		configPath = Value(ctx, config.ENV_CONFIG)
	}
	if configPath == "" {
		p, err := config.GetDefaultConfigPath()
		if err != nil {
			return nil, "", err
		}
		configPath = p
	}
	configPath, err := file_io.ExpandHome(configPath)
	if err != nil {
		return nil, "", err
	}
	configPath, err = filepath.Abs(configPath)
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, "", err
	}
	cfg.ApplyEnv(config.Env{DownloadPath: Value(ctx, config.ENV_DOWNLOAD_PATH)})
	L.Debug(fmt.Sprintf("Using config: %s", configPath))
	return cfg, configPath, nil
}

// Open loads the config and opens the shared service context. Callers must
// Close it.
func (f *CommonFlags) Open(ctx context.Context) (*service.Context, error) {
	cfg, configPath, err := f.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}
	dbPath, err := database.GetDBFilePath()
	if err != nil {
		return nil, err
	}
	return service.Open(ctx, cfg, configPath, dbPath)
}

func NewFetcher(cfg *config.Config) backend.Fetcher {
	return ytdlp.New(cfg.YtdlpPath)
}

func NewPipeline(svc *service.Context) *pipeline.Pipeline {
	return pipeline.New(svc, NewFetcher(svc.Config))
}

func ParseId(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %s", s)
	}
	return id, nil
}

// SplitList splits a comma separated flag value.
func SplitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
