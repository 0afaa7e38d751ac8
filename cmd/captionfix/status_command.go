package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"captionfix/internal/preflight"
	"captionfix/internal/workspace"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check directories, history database and server reachability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			configLines := []statusLine{
				{Label: "Config", Kind: statusInfo, Message: ctx.configPath},
				{Label: "Bind", Kind: statusInfo, Message: cfg.Server.Bind},
				{Label: "Auth", Kind: statusInfo, Message: yesNo(cfg.Server.APIToken != "")},
				{Label: "Missing trigger", Kind: statusInfo, Message: cfg.Rules.MissingTrigger},
			}
			fmt.Fprintln(out, renderSection("Configuration", configLines, colorize))

			results := preflight.RunAll(cmd.Context(), cfg)
			checks := make([]statusLine, 0, len(results)+1)
			for _, result := range results {
				checks = append(checks, preflightLine(result, false))
			}
			checks = append(checks, preflightLine(preflight.CheckServerFromConfig(cmd.Context(), cfg), true))
			fmt.Fprintln(out, renderSection("Checks", checks, colorize))

			dirs, err := workspace.ListDirectories(cfg.Paths.WorkDir)
			workLine := statusLine{Label: "Workspaces", Kind: statusOK}
			if err != nil {
				workLine.Kind = statusWarn
				workLine.Message = err.Error()
			} else {
				var total int64
				for _, dir := range dirs {
					total += dir.Size
				}
				workLine.Message = fmt.Sprintf("%d active (%d bytes)", len(dirs), total)
			}
			fmt.Fprintln(out, renderSection("Workspaces", []statusLine{workLine}, colorize))

			if failed := preflight.Failed(results); len(failed) > 0 {
				names := make([]string, 0, len(failed))
				for _, f := range failed {
					names = append(names, f.Name)
				}
				return fmt.Errorf("preflight failed: %s", strings.Join(names, ", "))
			}
			return nil
		},
	}
}
