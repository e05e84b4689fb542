package version_cmd

import (
	"context"
	"fftpeg/cmd/cli"
	L "fftpeg/logger"
	"path/filepath"
)

// NOTE: populated at build time with -ldflags (-X)
var version string

// NOTE: populated at build time with -ldflags (-X)
var commitHash string

func Execute(ctx context.Context, args []string) error {
	name := filepath.Base(cli.Value(ctx, "binary_name"))
	if version == "" {
		version = "0.0.0-dev"
	}
	L.Printf("%s version v%s, build %s\n", name, version, commitHash)
	return nil
}
