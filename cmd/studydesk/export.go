package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/ternarybob/studydesk/internal/services/exporter"
)

var (
	exportFormat       string
	exportOutput       string
	exportNoHighlights bool
	exportNoMeetings   bool
	exportNoConvention bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export highlights and notes as markdown, PDF or JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := exportFormat
		if name == "" {
			name = config.Export.DefaultFormat
		}
		format, err := exporter.ParseFormat(name)
		if err != nil {
			return err
		}

		opts := exporter.DefaultOptions()
		opts.Highlights = !exportNoHighlights
		opts.MeetingNotes = !exportNoMeetings
		opts.ConventionNotes = !exportNoConvention

		path := exportOutput
		if path == "" {
			path = filepath.Join(config.Export.OutputDir, application.Exporter.FileName(format))
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
		if err := application.Exporter.Write(cmd.Context(), format, opts, w); err != nil {
			if path != "-" {
				os.Remove(path)
			}
			return err
		}
		if path != "-" {
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "markdown, pdf or json (default from config)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output path, '-' for stdout (default: dated file in export.output_dir)")
	exportCmd.Flags().BoolVar(&exportNoHighlights, "no-highlights", false, "Leave out highlights and notes")
	exportCmd.Flags().BoolVar(&exportNoMeetings, "no-meetings", false, "Leave out meeting notes")
	exportCmd.Flags().BoolVar(&exportNoConvention, "no-convention", false, "Leave out convention notes")
}
