package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ternarybob/studydesk/internal/models"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show or replace the weekly meeting schedules",
}

var dayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

var scheduleGetCmd = &cobra.Command{
	Use:   "get [midweek|weekend]",
	Short: "Show a schedule, or both when no kind is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds := models.ScheduleKinds
		if len(args) == 1 {
			kind, err := models.ParseScheduleKind(args[0])
			if err != nil {
				return err
			}
			kinds = []models.ScheduleKind{kind}
		}

		out := cmd.OutOrStdout()
		all := map[models.ScheduleKind][]models.ScheduleEntry{}
		for _, kind := range kinds {
			entries, err := application.Store.GetSchedule(cmd.Context(), kind)
			if err != nil {
				return err
			}
			all[kind] = entries
		}
		if outputJSON {
			return printJSON(out, all)
		}
		for _, kind := range kinds {
			fmt.Fprintf(out, "%s:\n", kind)
			if len(all[kind]) == 0 {
				fmt.Fprintln(out, "  (none)")
			}
			for _, e := range all[kind] {
				fmt.Fprintf(out, "  %s %s\n", dayNames[e.Day], e.Time)
			}
		}
		return nil
	},
}

var scheduleSetCmd = &cobra.Command{
	Use:   "set [midweek|weekend] [day@HH:MM...]",
	Short: "Replace a schedule; days are 0-6 (Sunday = 0) or short names",
	Example: `  studydesk schedule set midweek 3@19:00
  studydesk schedule set weekend sun@10:00 sat@18:30
  studydesk schedule set weekend`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := models.ParseScheduleKind(args[0])
		if err != nil {
			return err
		}
		entries := make([]models.ScheduleEntry, 0, len(args)-1)
		for _, arg := range args[1:] {
			entry, err := parseScheduleEntry(arg)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		if err := application.Store.SaveSchedule(cmd.Context(), kind, entries); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %d %s entries\n", len(entries), kind)
		return nil
	},
}

// parseScheduleEntry reads "day@HH:MM"
func parseScheduleEntry(s string) (models.ScheduleEntry, error) {
	day, clock, ok := strings.Cut(s, "@")
	if !ok {
		return models.ScheduleEntry{}, fmt.Errorf("invalid entry %q, expected day@HH:MM", s)
	}
	n, err := strconv.Atoi(day)
	if err != nil {
		n = -1
		for i, name := range dayNames {
			if strings.EqualFold(name, day) {
				n = i
				break
			}
		}
	}
	entry := models.ScheduleEntry{Day: n, Time: clock}
	if err := entry.Validate(); err != nil {
		return models.ScheduleEntry{}, err
	}
	return entry, nil
}

func init() {
	scheduleCmd.AddCommand(scheduleGetCmd, scheduleSetCmd)
}
