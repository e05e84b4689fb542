package transcode_cmd

const convertUsageStr string = `
USAGE
fftpeg convert [--codec CODEC] INPUT OUTPUT

DESCRIPTION
Converts INPUT to the container of OUTPUT. Streams are copied without
re-encoding unless --codec names a video codec.
`

const compressUsageStr string = `
USAGE
fftpeg compress [--crf N] [--preset PRESET] INPUT [OUTPUT]

DESCRIPTION
Re-encodes INPUT with libx264 and aac.
OUTPUT defaults to INPUT_compressed with the same extension.

OPTIONS
--crf N
Constant rate factor, 18-28 is sensible, lower is better quality.
Default: 23

--preset PRESET
ultrafast, fast, medium, slow, veryslow
Default: medium
`

const extractAudioUsageStr string = `
USAGE
fftpeg extract-audio [--format FORMAT] [--bitrate RATE] INPUT [OUTPUT]

DESCRIPTION
Writes the audio of INPUT to OUTPUT, INPUT with the FORMAT extension by
default.

OPTIONS
--format, -f FORMAT
mp3, m4a, flac, wav. Default: mp3

--bitrate RATE
Default: 320k
`

const trimUsageStr string = `
USAGE
fftpeg trim [--start T] [--end T | --duration T] INPUT [OUTPUT]

DESCRIPTION
Cuts INPUT without re-encoding. OUTPUT defaults to INPUT_trimmed with
the same extension. Times are HH:MM:SS or seconds.

OPTIONS
--start, -s T      Default: 00:00:00
--end, -e T        End time
--duration, -d T   Length from start
`

func ConvertUsage() string { return convertUsageStr }
func CompressUsage() string { return compressUsageStr }
func ExtractAudioUsage() string { return extractAudioUsageStr }
func TrimUsage() string { return trimUsageStr }
