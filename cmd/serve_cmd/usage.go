package serve_cmd

import L "fftpeg/logger"

const usageStr string = `
USAGE
fftpeg serve [--addr ADDR]

DESCRIPTION
Runs the local HTTP API and the periodic sweep of broken links until
interrupted.

ENDPOINTS
GET  /healthz
GET  /metrics
GET  /api/stats
GET  /api/sources
GET  /api/tags
GET  /api/downloads?tag=TAG|source=SOURCE
GET  /api/downloads/{id}
POST /api/sweep

OPTIONS
--addr, -a ADDR
Address to listen on. Default is listen_addr from the config,
127.0.0.1:9464 unless changed.
The sweep interval is sweep_interval from the config.
`

func Usage() string {
	return usageStr
}

func PrintUsage() {
	L.Print(usageStr)
}
