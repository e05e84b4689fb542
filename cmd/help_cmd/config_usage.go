package help_cmd

import (
	L "fftpeg/logger"
)

const configUsageStr string = `
CONFIGURATION
    Configuration file is a JSON file with download and organization preferences.
    When you first run fftpeg, a default config is created at
    '~/.config/fftpeg/config.json'. Missing options fall back to their defaults.

    Environment variables, also read from a .env file in the working directory -
        FFTPEG_CONFIG           path to config.json, --config takes precedence
        FFTPEG_DOWNLOAD_PATH    overrides download_path
        FFTPEG_LOG_LEVEL        default log level, --log-level takes precedence

SAMPLE CONFIG

        {
            "download_path": "~/Videos/fftpeg/downloads",
            "organize_by_source": true,
            "organize_by_tag": true,
            "organize_by_date": true,
            "source_formats": {
                "youtube": {
                    "format": "bestvideo[height<=1080]+bestaudio/best[height<=1080]",
                    "merge_output_format": "mp4"
                },
                "default": { "format": "best" }
            },
            "auto_tag_rules": [
                { "source": "youtube", "tag": "youtube", "enabled": true }
            ],
            "sweep_interval": "1h",
            "listen_addr": "127.0.0.1:9464",
            "tag_cache_size": 256
        }

OPTIONS
    download_path
        Directory downloads are stored in. Its parent holds the by-source,
        by-tag and by-date link trees.

    organize_by_source, organize_by_tag, organize_by_date
        Which link trees new downloads are placed into.

    source_formats
        yt-dlp format selection per source. "default" is used for sources
        without an entry.

    auto_tag_rules
        Seed rules, copied into the database on startup when absent.
        Use 'fftpeg rules' to change them afterwards.

    ytdlp_path, ffmpeg_path
        Executables to run. Looked up in PATH when empty.

    sweep_interval
        How often 'fftpeg serve' removes broken links, e.g. 30m, 1h.

    listen_addr
        Address 'fftpeg serve' listens on.

    tag_cache_size
        Number of tag ids kept in memory.
`

func ConfigUsage() string {
	return configUsageStr
}

func ConfigPrintUsage() {
	L.Print(configUsageStr)
}
