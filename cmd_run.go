package main

import (
	"os/signal"
	"syscall"
	"time"

	"git.0xdad.com/tblyler/medicate/reminder"
	"github.com/spf13/cobra"
)

func runCmd() *cobra.Command {
	var location string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Send pushover reminders when a scheduled time comes up",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			token, err := a.config.PushoverAPIToken()
			if err != nil {
				return err
			}

			userKey, err := a.config.PushoverUserKey()
			if err != nil {
				return err
			}

			loc, err := time.LoadLocation(location)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			runner := reminder.NewRunner(
				a.repos.Schedules,
				a.repos.Medicines,
				reminder.NewPushover(token, userKey, a.config.PushoverDevice()),
				a.logger,
				loc,
			)

			return runner.Run(ctx)
		}),
	}

	cmd.Flags().StringVar(&location, "location", "Local", "time zone schedule times are in")

	return cmd
}
