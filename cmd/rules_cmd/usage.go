package rules_cmd

import L "fftpeg/logger"

const usageStr string = `
USAGE
fftpeg rules [ls]
fftpeg rules add|rm|enable|disable SOURCE TAG

DESCRIPTION
Manages auto-tag rules. Every enabled rule whose SOURCE matches the
detected source of a new download tags it with TAG.
Changes are stored in the database and written back to the config file.
Disabling a rule does not remove tags it already applied.

EXAMPLES
1. fftpeg rules add youtube videos
2. fftpeg rules disable tiktok tiktok
`

func Usage() string {
	return usageStr
}

func PrintUsage() {
	L.Print(usageStr)
}
