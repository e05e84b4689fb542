package organize_cmd

import (
	"context"
	"fftpeg/cmd/cli"
	L "fftpeg/logger"
	"fftpeg/organize"
	"fftpeg/service"
	"flag"
	"fmt"
	"maps"
	"slices"
)

func Execute(ctx context.Context, args []string) error {
	organizeCmd := flag.NewFlagSet("organize", flag.ExitOnError)
	common := cli.RegisterCommon(organizeCmd)
	organizeCmd.Usage = func() {
		PrintUsage()
	}
	err := organizeCmd.Parse(args)
	if err != nil {
		return err
	}
	err = common.Apply()
	if err != nil {
		return err
	}
	if organizeCmd.NArg() < 1 {
		PrintUsage()
		return nil
	}
	action := organizeCmd.Arg(0)
	rest := organizeCmd.Args()[1:]

	svc, err := common.Open(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	switch action {
	case "sweep":
		return sweep(svc, rest)
	case "stats":
		return stats(svc)
	case "reorganize":
		return reorganize(ctx, svc, rest)
	case "resolve":
		return resolve(svc, rest)
	default:
		return fmt.Errorf("unknown organize action: %s", action)
	}
}

func sweep(svc *service.Context, args []string) error {
	var nss []organize.Namespace
	for _, a := range args {
		ns, err := organize.ParseNamespace(a)
		if err != nil {
			return err
		}
		nss = append(nss, ns)
	}
	removed, err := svc.Organizer.SweepBroken(nss...)
	L.Printf("Removed %d broken links\n", removed)
	return err
}

func stats(svc *service.Context) error {
	s, err := svc.Organizer.Stats()
	if err != nil {
		return err
	}
	printCounts(organize.BY_SOURCE, s.BySource)
	printCounts(organize.BY_TAG, s.ByTag)
	printCounts(organize.BY_DATE, s.ByDate)
	return nil
}

func printCounts(ns organize.Namespace, counts map[string]int) {
	L.Printf("%s/\n", ns)
	if len(counts) == 0 {
		L.Println("  (empty)")
		return
	}
	for _, key := range slices.Sorted(maps.Keys(counts)) {
		L.Printf("  %-24s %d\n", key, counts[key])
	}
}

func reorganize(ctx context.Context, svc *service.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected reorganize ID|all. For more information check 'fftpeg help organize'")
	}
	p := cli.NewPipeline(svc)
	if args[0] == "all" {
		repairs, err := p.ReorganizeAll(ctx)
		failed := 0
		for _, r := range repairs {
			if r.Err != nil || len(r.Result.Failed()) > 0 {
				failed++
			}
		}
		L.Printf("Reorganized %d files, %d with failures\n", len(repairs), failed)
		return err
	}
	id, err := cli.ParseId(args[0])
	if err != nil {
		return err
	}
	result, err := p.Reorganize(ctx, id)
	if err != nil {
		return err
	}
	for _, placement := range result.All() {
		L.Printf("  %s\n", placement)
	}
	return nil
}

func resolve(svc *service.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("expected resolve NAMESPACE KEY")
	}
	ns, err := organize.ParseNamespace(args[0])
	if err != nil {
		return err
	}
	paths, err := svc.Organizer.Resolve(ns, args[1])
	if err != nil {
		return err
	}
	for _, p := range paths {
		L.Println(p)
	}
	return nil
}
