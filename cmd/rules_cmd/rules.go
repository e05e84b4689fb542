package rules_cmd

import (
	"context"
	"fftpeg/cmd/cli"
	L "fftpeg/logger"
	"fftpeg/service"
	"flag"
	"fmt"
	"strings"
)

func Execute(ctx context.Context, args []string) error {
	rulesCmd := flag.NewFlagSet("rules", flag.ExitOnError)
	common := cli.RegisterCommon(rulesCmd)
	rulesCmd.Usage = func() {
		PrintUsage()
	}
	err := rulesCmd.Parse(args)
	if err != nil {
		return err
	}
	err = common.Apply()
	if err != nil {
		return err
	}
	action := "ls"
	if rulesCmd.NArg() > 0 {
		action = rulesCmd.Arg(0)
	}

	svc, err := common.Open(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	if action == "ls" {
		return list(ctx, svc)
	}
	if rulesCmd.NArg() != 3 {
		return fmt.Errorf("expected %s SOURCE TAG. For more information check 'fftpeg help rules'", action)
	}
	source := strings.ToLower(strings.TrimSpace(rulesCmd.Arg(1)))
	tag := strings.TrimSpace(rulesCmd.Arg(2))
	if source == "" || tag == "" {
		return fmt.Errorf("SOURCE and TAG must not be empty")
	}

	switch action {
	case "add":
		err = svc.Tags.AddRule(ctx, source, tag)
		if err != nil {
			return err
		}
		svc.Config.AddRule(source, tag)
		L.Printf("Added rule %s -> %s\n", source, tag)
	case "rm":
		err = svc.Tags.RemoveRule(ctx, source, tag)
		if err != nil {
			return err
		}
		svc.Config.RemoveRule(source, tag)
		L.Printf("Removed rule %s -> %s\n", source, tag)
	case "enable", "disable":
		enabled := action == "enable"
		found, err := svc.Tags.SetRuleEnabled(ctx, source, tag, enabled)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("no rule %s -> %s, see 'fftpeg rules ls'", source, tag)
		}
		svc.Config.SetRuleEnabled(source, tag, enabled)
		L.Printf("Rule %s -> %s %sd\n", source, tag, action)
	default:
		return fmt.Errorf("unknown rules action: %s", action)
	}
	return svc.SaveRules()
}

func list(ctx context.Context, svc *service.Context) error {
	rules, err := svc.Tags.ListRules(ctx)
	if err != nil {
		return err
	}
	if len(rules) == 0 {
		L.Println("No auto-tag rules.")
		return nil
	}
	for _, r := range rules {
		state := "enabled"
		if !r.Enabled {
			state = "disabled"
		}
		L.Printf("%-12s -> %-16s %s\n", r.Source, r.Tag, state)
	}
	return nil
}
