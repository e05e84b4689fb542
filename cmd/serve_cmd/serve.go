package serve_cmd

import (
	"context"
	"fftpeg/cmd/cli"
	L "fftpeg/logger"
	"fftpeg/organize"
	"fftpeg/server"
	"flag"
	"fmt"

	"golang.org/x/sync/errgroup"
)

func Execute(ctx context.Context, args []string) error {
	serveCmd := flag.NewFlagSet("serve", flag.ExitOnError)
	common := cli.RegisterCommon(serveCmd)
	addr := serveCmd.String("addr", "", "Address to listen on, overrides listen_addr")
	serveCmd.StringVar(addr, "a", "", "alias to -addr")
	serveCmd.Usage = func() {
		PrintUsage()
	}
	err := serveCmd.Parse(args)
	if err != nil {
		return err
	}
	err = common.Apply()
	if err != nil {
		return err
	}

	svc, err := common.Open(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	interval, err := svc.Config.SweepEvery()
	if err != nil {
		return err
	}
	listenAddr := svc.Config.ListenAddr
	if *addr != "" {
		listenAddr = *addr
	}

	sweeper := organize.NewSweeper(svc.Organizer, interval)
	srv := server.New(listenAddr, svc, sweeper)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		// one pass at startup so stale links from while we were down go away
		_, _, err := sweeper.RunOnce()
		if err != nil {
			L.Warn(fmt.Sprintf("initial sweep: %v", err))
		}
		sweeper.Start(gctx)
		<-gctx.Done()
		sweeper.Stop()
		return nil
	})
	return g.Wait()
}
