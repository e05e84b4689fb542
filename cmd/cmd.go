package cmd

import (
	"context"
	"fftpeg/cmd/cli"
	"fftpeg/cmd/help_cmd"
	"fftpeg/cmd/ls_cmd"
	"fftpeg/cmd/organize_cmd"
	"fftpeg/cmd/pull_cmd"
	"fftpeg/cmd/rules_cmd"
	"fftpeg/cmd/serve_cmd"
	"fftpeg/cmd/tag_cmd"
	"fftpeg/cmd/transcode_cmd"
	"fftpeg/cmd/version_cmd"
	"fftpeg/config"
)

func Execute(ctx context.Context, args []string, env config.Env) error {
	if len(args) < 2 {
		PrintUsage()
		return nil
	}

	values := map[string]string{
		"binary_name":            args[0],
		"command_name":           args[1],
		config.ENV_CONFIG:        env.ConfigPath,
		config.ENV_DOWNLOAD_PATH: env.DownloadPath,
	}

	ctx = context.WithValue(ctx, cli.ValuesKey, values)

	switch args[1] {
	case "pull":
		return pull_cmd.Execute(ctx, args[2:])
	case "ls":
		return ls_cmd.Execute(ctx, args[2:])
	case "tag":
		return tag_cmd.Execute(ctx, args[2:])
	case "rules":
		return rules_cmd.Execute(ctx, args[2:])
	case "organize":
		return organize_cmd.Execute(ctx, args[2:])
	case "serve":
		return serve_cmd.Execute(ctx, args[2:])
	case "convert":
		return transcode_cmd.ExecuteConvert(ctx, args[2:])
	case "compress":
		return transcode_cmd.ExecuteCompress(ctx, args[2:])
	case "extract-audio":
		return transcode_cmd.ExecuteExtractAudio(ctx, args[2:])
	case "trim":
		return transcode_cmd.ExecuteTrim(ctx, args[2:])
	case "help", "--help", "-h":
		return help_cmd.Execute(ctx, args[2:])
	case "version", "--version", "-v":
		return version_cmd.Execute(ctx, args[2:])
	default:
		PrintUsage()
		return nil
	}
}
