package organize_cmd

import L "fftpeg/logger"

const usageStr string = `
USAGE
fftpeg organize sweep [NAMESPACE...]
fftpeg organize stats
fftpeg organize reorganize ID|all
fftpeg organize resolve NAMESPACE KEY

DESCRIPTION
Maintains the by-source, by-tag and by-date link trees.

ACTIONS
sweep        Removes links whose target no longer exists.
             Sweeps every namespace when none is given.
stats        Prints the number of links per key.
reorganize   Recreates the links of one download, or of all of them,
             from the database.
resolve      Prints the files linked under NAMESPACE/KEY.

NAMESPACE
by-source, by-tag, by-date
`

func Usage() string {
	return usageStr
}

func PrintUsage() {
	L.Print(usageStr)
}
