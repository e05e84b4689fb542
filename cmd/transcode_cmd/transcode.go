package transcode_cmd

import (
	"context"
	"fftpeg/cmd/cli"
	"fftpeg/file_io"
	L "fftpeg/logger"
	"fftpeg/transcode"
	"flag"
	"fmt"
	"path/filepath"
	"strings"
)

type transcodeEnv struct {
	Input      string
	Output     string
	FfmpegPath string
}

// parses common flags and the positional INPUT [OUTPUT]
func setup(ctx context.Context, fs *flag.FlagSet, common *cli.CommonFlags, args []string) (*transcodeEnv, error) {
	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	err = common.Apply()
	if err != nil {
		return nil, err
	}
	if fs.NArg() < 1 {
		return nil, fmt.Errorf("INPUT not provided. For more information check 'fftpeg help %s'", fs.Name())
	}
	if fs.NArg() > 2 {
		return nil, fmt.Errorf("too many arguments. For more information check 'fftpeg help %s'", fs.Name())
	}
	input, err := absPath(fs.Arg(0))
	if err != nil {
		return nil, err
	}
	exists, err := file_io.Exists(input)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("input file not found: %s", fs.Arg(0))
	}
	output := ""
	if fs.NArg() == 2 {
		output, err = absPath(fs.Arg(1))
		if err != nil {
			return nil, err
		}
	}
	cfg, _, err := common.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}
	return &transcodeEnv{Input: input, Output: output, FfmpegPath: cfg.FfmpegPath}, nil
}

func absPath(p string) (string, error) {
	p, err := file_io.ExpandHome(p)
	if err != nil {
		return "", err
	}
	return filepath.Abs(p)
}

func ExecuteConvert(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	common := cli.RegisterCommon(fs)
	codec := fs.String("codec", "", "Video codec, streams are copied when empty")
	fs.Usage = func() { L.Print(convertUsageStr) }
	env, err := setup(ctx, fs, common, args)
	if err != nil {
		return err
	}
	if env.Output == "" {
		return fmt.Errorf("OUTPUT not provided. For more information check 'fftpeg help convert'")
	}
	L.Printf("Convert: %s -> %s\n", filepath.Base(env.Input), filepath.Base(env.Output))
	return run(ctx, env, transcode.ConvertArgs(env.Input, env.Output, *codec))
}

func ExecuteCompress(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("compress", flag.ExitOnError)
	common := cli.RegisterCommon(fs)
	crf := fs.Int("crf", transcode.DefaultCRF, "Constant rate factor, lower is better quality")
	preset := fs.String("preset", transcode.DefaultPreset, "Encoding preset: ultrafast fast medium slow veryslow")
	fs.Usage = func() { L.Print(compressUsageStr) }
	env, err := setup(ctx, fs, common, args)
	if err != nil {
		return err
	}
	if env.Output == "" {
		env.Output = transcode.CompressedPath(env.Input)
	}
	L.Printf("Compress: %s (crf %d, preset %s)\n", filepath.Base(env.Input), *crf, *preset)
	err = run(ctx, env, transcode.CompressArgs(env.Input, env.Output, *crf, *preset))
	if err != nil {
		return err
	}
	in, err := file_io.GetFileInfo(env.Input)
	if err != nil {
		return nil
	}
	out, err := file_io.GetFileInfo(env.Output)
	if err != nil || in.Size == 0 {
		return nil
	}
	saved := (float64(in.Size) - float64(out.Size)) / float64(in.Size) * 100
	L.Printf("  %s -> %s, saved %.1f%%\n",
		L.HumanReadableBytes(in.Size, 1), L.HumanReadableBytes(out.Size, 1), saved)
	return nil
}

func ExecuteExtractAudio(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("extract-audio", flag.ExitOnError)
	common := cli.RegisterCommon(fs)
	format := fs.String("format", transcode.DefaultAudioFormat, "Audio format: mp3 m4a flac wav")
	bitrate := fs.String("bitrate", transcode.DefaultAudioBitrate, "Audio bitrate, e.g. 192k")
	fs.StringVar(format, "f", transcode.DefaultAudioFormat, "alias to -format")
	fs.Usage = func() { L.Print(extractAudioUsageStr) }
	env, err := setup(ctx, fs, common, args)
	if err != nil {
		return err
	}
	f := strings.ToLower(*format)
	if env.Output == "" {
		env.Output = transcode.AudioPath(env.Input, f)
	}
	L.Printf("Extract audio: %s (%s, %s)\n", filepath.Base(env.Input), f, *bitrate)
	return run(ctx, env, transcode.ExtractAudioArgs(env.Input, env.Output, f, *bitrate))
}

func ExecuteTrim(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("trim", flag.ExitOnError)
	common := cli.RegisterCommon(fs)
	start := fs.String("start", "00:00:00", "Start time")
	end := fs.String("end", "", "End time, cannot be used with --duration")
	duration := fs.String("duration", "", "Duration from start, cannot be used with --end")
	fs.StringVar(start, "s", "00:00:00", "alias to -start")
	fs.StringVar(end, "e", "", "alias to -end")
	fs.StringVar(duration, "d", "", "alias to -duration")
	fs.Usage = func() { L.Print(trimUsageStr) }
	env, err := setup(ctx, fs, common, args)
	if err != nil {
		return err
	}
	if env.Output == "" {
		env.Output = transcode.TrimmedPath(env.Input)
	}
	trimArgs, err := transcode.TrimArgs(env.Input, env.Output, *start, *end, *duration)
	if err != nil {
		return err
	}
	L.Printf("Trim: %s from %s\n", filepath.Base(env.Input), *start)
	return run(ctx, env, trimArgs)
}

func run(ctx context.Context, env *transcodeEnv, args []string) error {
	if env.Input == env.Output {
		return fmt.Errorf("output must differ from input: %s", env.Output)
	}
	L.Footer(L.INFO, "Running ffmpeg...")
	err := transcode.Run(ctx, env.FfmpegPath, args)
	L.Footer(L.INFO, "")
	if err != nil {
		return err
	}
	L.Printf("  Output: %s\n", env.Output)
	return nil
}
