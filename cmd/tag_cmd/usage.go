package tag_cmd

import L "fftpeg/logger"

const usageStr string = `
USAGE
fftpeg tag add|rm ID TAG [TAG...]

DESCRIPTION
Adds or removes explicit tags on a stored download. Added tags are
linked into by-tag/ when tag organization is enabled, removed tags
have their by-tag/ links deleted.

EXAMPLES
1. fftpeg tag add 12 music favorites
2. fftpeg tag rm 12 favorites
`

func Usage() string {
	return usageStr
}

func PrintUsage() {
	L.Print(usageStr)
}
