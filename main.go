package main

import (
	"context"
	"fftpeg/cmd"
	"fftpeg/config"
	L "fftpeg/logger"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	env, err := config.LoadEnv()
	if err != nil {
		L.Warn(err)
	}
	if env.LogLevel != "" {
		err = L.SetLevelFromString(env.LogLevel)
		if err != nil {
			L.Warn(fmt.Sprintf("%s: %v", config.ENV_LOG_LEVEL, err))
		}
	}

	err = cmd.Execute(ctx, os.Args[:], env)

	select {
	case <-ctx.Done():
		L.Debug("Command execution was aborted.")
	default:
		L.Debug("Command execution complete.")
	}
	if err != nil {
		L.Panic(err)
	}
	os.Exit(0)
}
