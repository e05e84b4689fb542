package help_cmd

import L "fftpeg/logger"

var usageStr string = `
USAGE
    fftpeg help <command>

DESCRIPTION
    Prints usage information for a specified subcommand.

COMMANDS
    config          Help about config.json file
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
