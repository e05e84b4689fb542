package cmd

import L "fftpeg/logger"

var usageStr string = `
USAGE
fftpeg [-v | -version] [-h | -help] <command> [<args>]

DESCRIPTION
fftpeg downloads media, drops duplicates, and keeps the downloads
browsable by source, tag and date through symlink trees. It also wraps
common ffmpeg operations.

COMMANDS
help            Help about a subcommand
pull            Downloads, deduplicates and organizes a URL
ls              Lists stored downloads, tags or sources
tag             Adds or removes tags on a download
rules           Manages auto-tag rules
organize        Sweeps, inspects and rebuilds the link trees
serve           Runs the local HTTP API and periodic sweeps
convert         Changes the container or video codec of a file
compress        Re-encodes a video with libx264
extract-audio   Writes the audio track of a file
trim            Cuts a file between two timestamps
version         Prints version

EXAMPLES
See 'fftpeg help <command>' to read about a specific subcommand.

SEE ALSO
1. fftpeg help pull
2. fftpeg help config
`

func Usage() string {
	return usageStr
}

func PrintUsage() {
	L.Print(usageStr)
}
