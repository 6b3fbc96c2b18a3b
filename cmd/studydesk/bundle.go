package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/studydesk/internal/models"
	"github.com/ternarybob/studydesk/internal/services/exporter"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Export or import the whole library as one JSON file",
}

var bundleOutput string

var bundleExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the library bundle to a file ('-' for stdout)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := bundleOutput
		if path == "" {
			path = application.Exporter.FileName(exporter.FormatJSON)
		}
		var w io.Writer = cmd.OutOrStdout()
		if path != "-" {
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		if err := application.Bundle.WriteTo(cmd.Context(), w); err != nil {
			return err
		}
		if path != "-" {
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		}
		return nil
	},
}

var bundleImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Merge a bundle file into the library; newer records win",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		report, err := application.Bundle.Import(cmd.Context(), data)
		if err != nil {
			return err
		}
		return printImportReport(cmd.OutOrStdout(), report)
	},
}

func printImportReport(w io.Writer, r *models.ImportReport) error {
	if outputJSON {
		return printJSON(w, r)
	}
	fmt.Fprintf(w, "Documents:     %d added, %d updated\n", r.DocumentsAdded, r.DocumentsUpdated)
	fmt.Fprintf(w, "Annotations:   %d added, %d updated\n", r.AnnotationsAdded, r.AnnotationsUpdated)
	fmt.Fprintf(w, "Meeting notes: %d added, %d updated\n", r.MeetingNotesAdded, r.MeetingNotesUpdated)
	fmt.Fprintf(w, "Bookmarks:     %d added\n", r.BookmarksAdded)
	fmt.Fprintf(w, "Favorites:     %d added\n", r.FavoritesAdded)
	fmt.Fprintf(w, "Schedules:     %d replaced\n", r.SchedulesReplaced)
	fmt.Fprintf(w, "Searches:      %d merged\n", r.SavedSearchesMerged)
	fmt.Fprintf(w, "Settings:      applied=%t\n", r.SettingsApplied)
	fmt.Fprintf(w, "Skipped:       %d (local copy newer)\n", r.Skipped)
	return nil
}

func init() {
	bundleExportCmd.Flags().StringVarP(&bundleOutput, "output", "o", "", "Output path (default: dated file name)")
	bundleCmd.AddCommand(bundleExportCmd, bundleImportCmd)
}
