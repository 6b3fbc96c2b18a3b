package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/ternarybob/studydesk/internal/models"
)

var annotationsCmd = &cobra.Command{
	Use:     "annotations",
	Aliases: []string{"ann"},
	Short:   "Manage highlights and notes",
}

var (
	annQuote string
	annNote  string
	annTags  []string
	annCFI   string
)

var annotationsListCmd = &cobra.Command{
	Use:   "list [document-id]",
	Short: "List annotations of one document, or of the whole library",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if len(args) == 1 {
			annotations, err := application.Store.GetAnnotations(ctx, args[0])
			if err != nil {
				return err
			}
			return printAnnotations(cmd.OutOrStdout(), annotations)
		}
		annotations, err := application.Store.GetAllAnnotations(ctx)
		if err != nil {
			return err
		}
		return printAnnotations(cmd.OutOrStdout(), annotations)
	},
}

var annotationsAddCmd = &cobra.Command{
	Use:   "add [document-id]",
	Short: "Add a highlight (--quote) or a note (--note only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if annQuote == "" && annNote == "" {
			return fmt.Errorf("--quote or --note is required")
		}
		ctx := cmd.Context()
		doc, err := application.Store.GetDocument(ctx, args[0])
		if err != nil {
			return err
		}
		if doc == nil {
			return fmt.Errorf("document %s not found", args[0])
		}

		kind := models.AnnotationKindHighlight
		if annQuote == "" {
			kind = models.AnnotationKindNote
		}
		annotation := models.Annotation{
			DocumentID: doc.ID,
			Kind:       kind,
			Quote:      annQuote,
			Note:       annNote,
			Tags:       annTags,
			CFI:        annCFI,
		}
		err = application.Store.UpdateAnnotations(ctx, doc.ID, func(current []models.Annotation) ([]models.Annotation, error) {
			return append(current, annotation), nil
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", kind, doc.Title)
		return nil
	},
}

var annotationsDeleteCmd = &cobra.Command{
	Use:   "delete [document-id] [annotation-id]",
	Short: "Delete an annotation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		found := false
		err := application.Store.UpdateAnnotations(cmd.Context(), args[0], func(current []models.Annotation) ([]models.Annotation, error) {
			kept := current[:0]
			for _, a := range current {
				if a.ID == args[1] {
					found = true
					continue
				}
				kept = append(kept, a)
			}
			return kept, nil
		})
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("annotation %s not found", args[1])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[1])
		return nil
	},
}

var annotationsCopyCmd = &cobra.Command{
	Use:   "copy [document-id] [annotation-id]",
	Short: "Copy an annotation's quote and note to the clipboard",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		annotations, err := application.Store.GetAnnotations(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, a := range annotations {
			if a.ID != args[1] {
				continue
			}
			parts := []string{}
			if a.Quote != "" {
				parts = append(parts, a.Quote)
			}
			if text := annotationText(a); text != "" {
				parts = append(parts, text)
			}
			if err := clipboard.WriteAll(strings.Join(parts, "\n\n")); err != nil {
				return fmt.Errorf("failed to write clipboard: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Copied to clipboard")
			return nil
		}
		return fmt.Errorf("annotation %s not found", args[1])
	},
}

func init() {
	annotationsAddCmd.Flags().StringVar(&annQuote, "quote", "", "Highlighted text")
	annotationsAddCmd.Flags().StringVar(&annNote, "note", "", "Note text")
	annotationsAddCmd.Flags().StringSliceVar(&annTags, "tag", nil, "Tag (repeatable)")
	annotationsAddCmd.Flags().StringVar(&annCFI, "cfi", "", "Reader position anchor")

	annotationsCmd.AddCommand(annotationsListCmd, annotationsAddCmd, annotationsDeleteCmd, annotationsCopyCmd)
}
