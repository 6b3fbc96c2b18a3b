package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Meeting reminders from the weekly schedules",
}

var remindLimit int

var remindNextCmd = &cobra.Command{
	Use:   "next",
	Short: "List upcoming reminders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		upcoming, err := application.Reminders.Next(cmd.Context(), time.Now(), remindLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if outputJSON {
			return printJSON(out, upcoming)
		}
		if len(upcoming) == 0 {
			fmt.Fprintln(out, "No scheduled meetings.")
			return nil
		}
		for _, r := range upcoming {
			fmt.Fprintf(out, "%-8s  meeting %s  alert %s\n", r.Kind,
				r.MeetingAt.Format("Mon 2006-01-02 15:04"), r.FireAt.Format("15:04"))
		}
		return nil
	},
}

var remindRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run in the foreground and log reminders until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !config.Reminders.Enabled {
			logger.Warn().Msg("Reminders are disabled in config, running anyway")
		}
		if err := application.Reminders.Start(cmd.Context()); err != nil {
			return err
		}

		logger.Info().Msg("Reminders running - Press Ctrl+C to stop")

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		select {
		case <-sigChan:
			logger.Info().Msg("Interrupt signal received")
		case <-cmd.Context().Done():
		}

		application.Reminders.Stop()
		return nil
	},
}

func init() {
	remindNextCmd.Flags().IntVarP(&remindLimit, "limit", "n", 5, "Maximum reminders to list")
	remindCmd.AddCommand(remindNextCmd, remindRunCmd)
}
