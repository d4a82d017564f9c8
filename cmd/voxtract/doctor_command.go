package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"voxtract/internal/notifications"
	"voxtract/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var skipEngine bool
	var testNotify bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, external tools and the DisVoice engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var engine preflight.EngineChecker
			if !skipEngine {
				svc, err := ctx.engine()
				if err != nil {
					return err
				}
				engine = svc
			}

			results := preflight.RunAll(cmd.Context(), cfg, engine)
			rows := make([][]string, 0, len(results)+2)
			failed := preflight.Failed(results)
			for _, result := range results {
				rows = append(rows, []string{result.Name, passLabel(result.Passed, false), result.Detail})
			}
			for _, status := range preflight.CheckSystemDeps(cfg) {
				detail := status.Command
				if status.Detail != "" {
					detail = status.Detail
				}
				rows = append(rows, []string{status.Name, passLabel(status.Available, status.Optional), detail})
				if !status.Available && !status.Optional {
					failed = true
				}
			}

			if testNotify {
				if cfg.Notifications.NtfyTopic == "" {
					rows = append(rows, []string{"Notifications", "FAIL", "notifications.ntfy_topic is not set"})
					failed = true
				} else if err := notifications.NewService(cfg).TestNotification(cmd.Context()); err != nil {
					rows = append(rows, []string{"Notifications", "FAIL", err.Error()})
					failed = true
				} else {
					rows = append(rows, []string{"Notifications", "ok", cfg.Notifications.NtfyTopic})
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Check", "Status", "Detail"}, rows, nil))
			if failed {
				return errors.New("one or more required checks failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipEngine, "skip-engine", false, "Skip the DisVoice import check")
	cmd.Flags().BoolVar(&testNotify, "test-notification", false, "Send a test message to the configured ntfy topic")
	return cmd
}

func passLabel(ok, optional bool) string {
	switch {
	case ok:
		return "ok"
	case optional:
		return "missing (optional)"
	default:
		return "FAIL"
	}
}
