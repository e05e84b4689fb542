package ls_cmd

import L "fftpeg/logger"

const usageStr string = `
USAGE
fftpeg ls [--tag TAG | --source SOURCE | --tags | --sources]

DESCRIPTION
Lists stored downloads in the order they were added.

OPTIONS
--tag TAG
Only files associated with TAG.

--source SOURCE
Only files downloaded from SOURCE, e.g. youtube.

--tags
List every tag in use.

--sources
List every source with at least one download.

--config, -c, --log-level, -L, --color
See 'fftpeg help pull'.
`

func Usage() string {
	return usageStr
}

func PrintUsage() {
	L.Print(usageStr)
}
