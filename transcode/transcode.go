package transcode

import (
	"bytes"
	"context"
	"errors"
	L "fftpeg/logger"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	DefaultCRF          int    = 23
	DefaultPreset       string = "medium"
	DefaultAudioFormat  string = "mp3"
	DefaultAudioBitrate string = "320k"
	compressVideoCodec  string = "libx264"
	compressAudioCodec  string = "aac"
)

var ErrEndAndDuration = errors.New("cannot specify both end and duration")

var audioCodecs = map[string]string{
	"mp3":  "libmp3lame",
	"m4a":  "aac",
	"flac": "flac",
	"wav":  "pcm_s16le",
}

// returns the ffmpeg audio encoder for an output format, falls back to libmp3lame
func AudioCodecFor(format string) string {
	if c, ok := audioCodecs[strings.ToLower(format)]; ok {
		return c
	}
	return audioCodecs["mp3"]
}

// empty codec copies all streams without re-encoding
func ConvertArgs(input, output, codec string) []string {
	args := []string{"-y", "-i", input}
	if codec == "" {
		args = append(args, "-c", "copy")
	} else {
		args = append(args, "-vcodec", codec)
	}
	return append(args, output)
}

func CompressArgs(input, output string, crf int, preset string) []string {
	if crf <= 0 {
		crf = DefaultCRF
	}
	if preset == "" {
		preset = DefaultPreset
	}
	return []string{
		"-y", "-i", input,
		"-vcodec", compressVideoCodec,
		"-crf", fmt.Sprintf("%d", crf),
		"-preset", preset,
		"-acodec", compressAudioCodec,
		output,
	}
}

func ExtractAudioArgs(input, output, format, bitrate string) []string {
	if bitrate == "" {
		bitrate = DefaultAudioBitrate
	}
	return []string{
		"-y", "-i", input,
		"-vn",
		"-acodec", AudioCodecFor(format),
		"-b:a", bitrate,
		output,
	}
}

// start is applied before the input so ffmpeg seeks instead of decoding up to it
func TrimArgs(input, output, start, end, duration string) ([]string, error) {
	if end != "" && duration != "" {
		return nil, ErrEndAndDuration
	}
	if start == "" {
		start = "00:00:00"
	}
	args := []string{"-y", "-ss", start, "-i", input}
	switch {
	case end != "":
		args = append(args, "-to", end)
	case duration != "":
		args = append(args, "-t", duration)
	}
	return append(args, "-c", "copy", output), nil
}

func CompressedPath(input string) string {
	return suffixed(input, "_compressed")
}

func TrimmedPath(input string) string {
	return suffixed(input, "_trimmed")
}

func AudioPath(input, format string) string {
	if format == "" {
		format = DefaultAudioFormat
	}
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "." + strings.ToLower(format)
}

func suffixed(input, suffix string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + suffix + ext
}

// runs ffmpeg with args, stderr is attached to the returned error on failure
func Run(ctx context.Context, ffmpegPath string, args []string) error {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	L.Debug(fmt.Sprintf("running: %s %s", ffmpegPath, strings.Join(args, " ")))
	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg failed: %w: %s", err, lastLine(stderr.String()))
	}
	return nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "\n"); i >= 0 {
		return s[i+1:]
	}
	return s
}
