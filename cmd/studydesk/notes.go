package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ternarybob/studydesk/internal/models"
	"github.com/ternarybob/studydesk/internal/services/notes"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Manage meeting notes",
}

var (
	noteTitle    string
	noteDate     string
	noteType     string
	noteContent  string
	noteTags     []string
	noteTemplate string
	notesDir     string
)

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List meeting notes, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := application.Store.GetMeetingNotes(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if outputJSON {
			return printJSON(out, list)
		}
		if len(list) == 0 {
			fmt.Fprintln(out, "No meeting notes.")
			return nil
		}
		for _, n := range list {
			fmt.Fprintf(out, "%-42s  %-10s  %-10s  %s\n", n.ID, n.Date, n.Type, n.Title)
		}
		return nil
	},
}

var notesShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a meeting note as markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, err := application.Store.GetMeetingNote(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if note == nil {
			return fmt.Errorf("meeting note %s not found", args[0])
		}
		data, err := notes.Render(note)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var notesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a meeting note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := noteBody(noteContent, noteTemplate)
		if err != nil {
			return err
		}
		note, err := application.Store.SaveMeetingNote(cmd.Context(), &models.MeetingNote{
			Title:   noteTitle,
			Date:    noteDate,
			Type:    models.MeetingType(noteType),
			Content: content,
			Tags:    noteTags,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", note.ID)
		return nil
	},
}

var notesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a meeting note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.Store.DeleteMeetingNote(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

var notesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every meeting note to a markdown file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := application.Store.GetMeetingNotes(cmd.Context())
		if err != nil {
			return err
		}
		if err := os.MkdirAll(notesDir, 0755); err != nil {
			return err
		}
		for _, note := range list {
			data, err := notes.Render(note)
			if err != nil {
				return fmt.Errorf("failed to render %s: %w", note.ID, err)
			}
			if err := os.WriteFile(filepath.Join(notesDir, notes.FileName(note)), data, 0644); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d notes to %s\n", len(list), notesDir)
		return nil
	},
}

var notesImportCmd = &cobra.Command{
	Use:   "import [file...]",
	Short: "Import markdown meeting notes; notes with a known id are replaced",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		for _, path := range args {
			if !strings.EqualFold(filepath.Ext(path), ".md") {
				logger.Warn().Str("file", path).Msg("Skipping non-markdown file")
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			note, err := notes.Parse(data)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}
			if note.ID != "" {
				existing, err := application.Store.GetMeetingNote(ctx, note.ID)
				if err != nil {
					return err
				}
				if existing != nil {
					note.CreatedAt = existing.CreatedAt
				}
			}
			saved, err := application.Store.SaveMeetingNote(ctx, note)
			if err != nil {
				return fmt.Errorf("failed to save %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s as %s\n", filepath.Base(path), saved.ID)
		}
		return nil
	},
}

var notesTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the note templates usable with notes add --template",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if outputJSON {
			return printJSON(out, notes.Templates())
		}
		for _, t := range notes.Templates() {
			fmt.Fprintf(out, "%-10s  %s\n", t.ID, t.Title)
		}
		return nil
	},
}

var notesBacklinksCmd = &cobra.Command{
	Use:   "backlinks [title]",
	Short: "List notes and pages that link to [[title]]",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		meetingNotes, err := application.Store.GetMeetingNotes(ctx)
		if err != nil {
			return err
		}
		docs, err := application.Store.GetActiveDocuments(ctx)
		if err != nil {
			return err
		}
		sources, titles := linkSources(meetingNotes, docs)
		ids := notes.BuildIndex(sources).BacklinksTo(args[0])

		out := cmd.OutOrStdout()
		if outputJSON {
			return printJSON(out, ids)
		}
		if len(ids) == 0 {
			fmt.Fprintf(out, "Nothing links to [[%s]].\n", args[0])
			return nil
		}
		for _, id := range ids {
			fmt.Fprintf(out, "%-42s  %s\n", id, titles[id])
		}
		return nil
	},
}

// noteBody returns content, or the template body when content is empty
func noteBody(content, templateID string) (string, error) {
	if content != "" || templateID == "" {
		return content, nil
	}
	t, err := notes.TemplateByID(templateID)
	if err != nil {
		return "", err
	}
	return t.Body, nil
}

// linkSources gathers meeting notes and in-app pages as wiki link sources
func linkSources(meetingNotes []*models.MeetingNote, docs []*models.Document) ([]notes.Source, map[string]string) {
	sources := make([]notes.Source, 0, len(meetingNotes)+len(docs))
	titles := make(map[string]string, len(meetingNotes)+len(docs))
	for _, n := range meetingNotes {
		sources = append(sources, notes.Source{ID: n.ID, Title: n.Title, Content: n.Content})
		titles[n.ID] = n.Title
	}
	for _, d := range docs {
		if d.Content == "" {
			continue
		}
		sources = append(sources, notes.Source{ID: d.ID, Title: d.Title, Content: d.Content})
		titles[d.ID] = d.Title
	}
	return sources, titles
}

func init() {
	notesAddCmd.Flags().StringVar(&noteTitle, "title", "", "Note title")
	notesAddCmd.Flags().StringVar(&noteDate, "date", "", "Meeting date (YYYY-MM-DD)")
	notesAddCmd.Flags().StringVar(&noteType, "type", "", "Meeting type: midweek, weekend or convention")
	notesAddCmd.Flags().StringVar(&noteContent, "content", "", "Markdown content")
	notesAddCmd.Flags().StringSliceVar(&noteTags, "tag", nil, "Tag (repeatable)")
	notesAddCmd.Flags().StringVar(&noteTemplate, "template", "", "Start from a template when --content is empty (see notes templates)")
	notesExportCmd.Flags().StringVarP(&notesDir, "dir", "d", "notes", "Output directory")

	notesCmd.AddCommand(notesListCmd, notesShowCmd, notesAddCmd, notesDeleteCmd, notesExportCmd, notesImportCmd, notesTemplatesCmd, notesBacklinksCmd)
}
