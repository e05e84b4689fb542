package pull_cmd

import L "fftpeg/logger"

const usageStr string = `
USAGE
fftpeg pull [OPTIONS] URL [URL...]

DESCRIPTION
Downloads media from URL with yt-dlp and files it -
1. Skips the download if URL was fetched before
2. Deletes the fetched file if its content matches a stored file
3. Stores the file under the download directory, tags it with the
   auto-tag rules of its source and any --tags given
4. Links it into the by-source, by-tag and by-date trees

OPTIONS
--tags, -t [TAG,TAG...]
Comma separated tags applied in addition to auto-tag rules.

--name, -n [NAME]
Output file name without extension. Defaults to the remote title.
Only valid with a single URL.

--preview, -p
Print remote metadata without downloading anything.

--config, -c
Path to config.json file
Default is: ~/.config/fftpeg/config.json
Use "fftpeg help config" for more information on configuring fftpeg.

--log-level, -L <log-level>
Specify log output level
Default: info
Accepted values (in order of increasing amount of output) -
debug, info, warn, error, silent

--color <color-mode>
Specify output color mode.
Default: auto
Accepted values: auto, always, never

EXAMPLES
1. Download a video and tag it
fftpeg pull -t music,live https://www.youtube.com/watch?v=dQw4w9WgXcQ

2. Look at what a URL points to first
fftpeg pull -p https://vimeo.com/76979871

SEE ALSO
1. fftpeg help ls
2. fftpeg help rules
`

func Usage() string {
	return usageStr
}

func PrintUsage() {
	L.Print(usageStr)
}
