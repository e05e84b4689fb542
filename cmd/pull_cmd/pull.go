package pull_cmd

import (
	"context"
	"fftpeg/backend"
	"fftpeg/cmd/cli"
	L "fftpeg/logger"
	"fftpeg/pipeline"
	"flag"
	"fmt"
	"strings"
	"time"
)

type PullCmdEnv struct {
	URLs    []string
	Tags    []string
	Name    string
	Preview bool
	Common  *cli.CommonFlags
}

func Execute(ctx context.Context, args []string) error {
	env, err := parseFlags(args)
	if err != nil {
		return err
	}
	svc, err := env.Common.Open(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()
	p := cli.NewPipeline(svc)

	if env.Preview {
		for _, url := range env.URLs {
			err := preview(ctx, p, url)
			if err != nil {
				return err
			}
		}
		return nil
	}

	failed := 0
	for _, url := range env.URLs {
		started := time.Now()
		outcome := p.Download(ctx, pipeline.Request{
			URL:        url,
			Tags:       env.Tags,
			Name:       env.Name,
			OnProgress: printProgress,
		})
		L.Footer(L.INFO, "")
		printOutcome(outcome)
		L.Debug(fmt.Sprintf("%s finished in %s", url, L.HumanReadableTime(time.Since(started).Milliseconds())))
		if outcome.Status() == pipeline.STATUS_ERROR {
			failed++
		}
		if ctx.Err() != nil {
			break
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d downloads failed", failed, len(env.URLs))
	}
	return nil
}

func parseFlags(args []string) (*PullCmdEnv, error) {
	pullCmd := flag.NewFlagSet("pull", flag.ExitOnError)
	common := cli.RegisterCommon(pullCmd)
	tags := pullCmd.String("tags", "", "Comma separated tags to apply")
	name := pullCmd.String("name", "", "Output file name without extension")
	var previewOnly bool
	pullCmd.StringVar(tags, "t", "", "alias to -tags")
	pullCmd.StringVar(name, "n", "", "alias to -name")
	pullCmd.BoolVar(&previewOnly, "preview", false, "Print remote metadata without downloading")
	pullCmd.BoolVar(&previewOnly, "p", false, "alias to -preview")
	pullCmd.Usage = func() {
		PrintUsage()
	}
	err := pullCmd.Parse(args)
	if err != nil {
		return nil, err
	}
	err = common.Apply()
	if err != nil {
		return nil, err
	}
	if pullCmd.NArg() < 1 {
		return nil, fmt.Errorf("URL not provided. For more information check 'fftpeg help pull'")
	}
	if *name != "" && pullCmd.NArg() > 1 {
		return nil, fmt.Errorf("--name can only be used with a single URL")
	}
	return &PullCmdEnv{
		URLs:    pullCmd.Args(),
		Tags:    pipeline.CleanTags(cli.SplitList(*tags)),
		Name:    strings.TrimSpace(*name),
		Preview: previewOnly,
		Common:  common,
	}, nil
}

func printProgress(p backend.Progress) {
	if p.Status == backend.STATUS_FINISHED {
		L.Footer(L.INFO, "")
		return
	}
	pct, ok := p.Percent()
	if !ok {
		L.Footer(L.INFO, fmt.Sprintf("Downloading %s", L.HumanReadableBytes(uint64(p.DownloadedBytes), 1)))
		return
	}
	L.Footer(L.INFO, fmt.Sprintf("%s %5.1f%% %s / %s",
		L.ProgressBar(pct, 30), pct,
		L.HumanReadableBytes(uint64(p.DownloadedBytes), 1),
		L.HumanReadableBytes(uint64(p.TotalBytes), 1)))
}

func printOutcome(outcome pipeline.Outcome) {
	switch o := outcome.(type) {
	case *pipeline.Success:
		L.Printf("Download complete (#%d)\n", o.ID)
		L.Printf("  File:   %s\n", o.Path)
		L.Printf("  Source: %s\n", o.Source)
		if len(o.Tags) > 0 {
			L.Printf("  Tags:   %s\n", strings.Join(o.TagNames(), ", "))
		}
		if o.Metadata.Title != "" {
			L.Printf("  Title:  %s\n", o.Metadata.Title)
		}
		for _, placement := range o.Placements.All() {
			L.Printf("  %s\n", placement)
		}
	case *pipeline.Exists:
		L.Printf("URL already downloaded: %s\n", o.Record.Filepath)
	case *pipeline.Duplicate:
		L.Printf("Duplicate file detected: %s\n", o.Existing.Filepath)
	case *pipeline.Failed:
		L.Error(o.Message())
	}
}

func preview(ctx context.Context, p *pipeline.Pipeline, url string) error {
	info, err := p.Preview(ctx, url)
	if err != nil {
		return err
	}
	L.Printf("URL:         %s\n", url)
	L.Printf("Title:       %s\n", info.Title)
	if info.Uploader != "" {
		L.Printf("Uploader:    %s\n", info.Uploader)
	}
	if info.Duration > 0 {
		L.Printf("Duration:    %s\n", L.ClockDuration(info.Duration))
	}
	if info.Resolution != "" {
		L.Printf("Resolution:  %s\n", info.Resolution)
	}
	if info.ViewCount > 0 {
		L.Printf("Views:       %d\n", info.ViewCount)
	}
	if info.Description != "" {
		L.Printf("Description: %s\n", L.TruncateString(info.Description, 120, L.TRUNC_RIGHT))
	}
	return nil
}
