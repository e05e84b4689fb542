package tag_cmd

import (
	"context"
	"errors"
	"fftpeg/cmd/cli"
	"fftpeg/database"
	L "fftpeg/logger"
	"flag"
	"fmt"
	"strings"
)

func Execute(ctx context.Context, args []string) error {
	tagCmd := flag.NewFlagSet("tag", flag.ExitOnError)
	common := cli.RegisterCommon(tagCmd)
	tagCmd.Usage = func() {
		PrintUsage()
	}
	err := tagCmd.Parse(args)
	if err != nil {
		return err
	}
	err = common.Apply()
	if err != nil {
		return err
	}
	if tagCmd.NArg() < 3 {
		return fmt.Errorf("expected add|rm ID TAG... For more information check 'fftpeg help tag'")
	}
	action := tagCmd.Arg(0)
	id, err := cli.ParseId(tagCmd.Arg(1))
	if err != nil {
		return err
	}
	tags := tagCmd.Args()[2:]

	svc, err := common.Open(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()
	p := cli.NewPipeline(svc)

	switch action {
	case "add":
		result, err := p.Tag(ctx, id, tags)
		if err != nil {
			return notFound(id, err)
		}
		L.Printf("Tagged #%d\n", id)
		for _, placement := range result.All() {
			L.Printf("  %s\n", placement)
		}
		return nil
	case "rm":
		removed, err := p.Untag(ctx, id, tags)
		if len(removed) > 0 {
			L.Printf("Removed from #%d: %s\n", id, strings.Join(removed, ", "))
		} else if err == nil {
			L.Printf("#%d had none of the given tags\n", id)
		}
		return notFound(id, err)
	default:
		return fmt.Errorf("unknown tag action: %s", action)
	}
}

func notFound(id int64, err error) error {
	if errors.Is(err, database.ErrDoesNotExist) {
		return fmt.Errorf("download %d does not exist, see 'fftpeg ls'", id)
	}
	return err
}
