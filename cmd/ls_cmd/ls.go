package ls_cmd

import (
	"context"
	"fftpeg/cmd/cli"
	"fftpeg/database/model"
	L "fftpeg/logger"
	"flag"
	"fmt"
)

func Execute(ctx context.Context, args []string) error {
	lsCmd := flag.NewFlagSet("ls", flag.ExitOnError)
	common := cli.RegisterCommon(lsCmd)
	tag := lsCmd.String("tag", "", "List files with TAG")
	source := lsCmd.String("source", "", "List files from SOURCE")
	listTags := lsCmd.Bool("tags", false, "List all tags")
	listSources := lsCmd.Bool("sources", false, "List all sources")
	lsCmd.Usage = func() {
		PrintUsage()
	}
	err := lsCmd.Parse(args)
	if err != nil {
		return err
	}
	err = common.Apply()
	if err != nil {
		return err
	}
	if *tag != "" && *source != "" {
		return fmt.Errorf("--tag and --source cannot be used together")
	}

	svc, err := common.Open(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()
	repo := svc.Downloads

	switch {
	case *listTags:
		tags, err := repo.AllTags(ctx)
		if err != nil {
			return err
		}
		for _, t := range tags {
			L.Println(t)
		}
		return nil
	case *listSources:
		srcs, err := repo.AllSources(ctx)
		if err != nil {
			return err
		}
		for _, s := range srcs {
			L.Println(s)
		}
		return nil
	}

	var files []model.Download
	switch {
	case *tag != "":
		files, err = repo.FilesByTag(ctx, *tag)
	case *source != "":
		files, err = repo.FilesBySource(ctx, *source)
	default:
		files, err = repo.List(ctx)
	}
	if err != nil {
		return err
	}
	if len(files) == 0 {
		L.Println("No downloads found.")
		return nil
	}
	for i := range files {
		L.Println(files[i].String())
	}
	L.Info(fmt.Sprintf("%d files", len(files)))
	return nil
}
