package help_cmd

import (
	"context"
	"fftpeg/cmd/ls_cmd"
	"fftpeg/cmd/organize_cmd"
	"fftpeg/cmd/pull_cmd"
	"fftpeg/cmd/rules_cmd"
	"fftpeg/cmd/serve_cmd"
	"fftpeg/cmd/tag_cmd"
	"fftpeg/cmd/transcode_cmd"
	L "fftpeg/logger"
	"fmt"
)

func Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		PrintUsage()
		return nil
	}

	switch args[0] {
	case "pull":
		pull_cmd.PrintUsage()
	case "ls":
		ls_cmd.PrintUsage()
	case "tag":
		tag_cmd.PrintUsage()
	case "rules":
		rules_cmd.PrintUsage()
	case "organize":
		organize_cmd.PrintUsage()
	case "serve":
		serve_cmd.PrintUsage()
	case "convert":
		L.Print(transcode_cmd.ConvertUsage())
	case "compress":
		L.Print(transcode_cmd.CompressUsage())
	case "extract-audio":
		L.Print(transcode_cmd.ExtractAudioUsage())
	case "trim":
		L.Print(transcode_cmd.TrimUsage())
	case "help":
		PrintUsage()
	case "config":
		ConfigPrintUsage()
	default:
		return fmt.Errorf("No such command: %s", args[0])
	}
	return nil
}
