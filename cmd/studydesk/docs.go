package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/ternarybob/studydesk/internal/models"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage library documents",
}

var (
	docsTrashed  bool
	docsLimit    int
	docsWithBody bool
	docsOutput   string

	pageTitle    string
	pageContent  string
	pageType     string
	pageLocation string
)

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active documents (or trashed ones with --trashed)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := application.Store
		if docsTrashed {
			docs, err := store.GetTrashedDocuments(cmd.Context())
			if err != nil {
				return err
			}
			return printDocuments(cmd.OutOrStdout(), docs)
		}
		docs, err := store.GetActiveDocuments(cmd.Context())
		if err != nil {
			return err
		}
		return printDocuments(cmd.OutOrStdout(), docs)
	},
}

var docsRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently opened documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := application.Store.GetRecentDocuments(cmd.Context(), docsLimit)
		if err != nil {
			return err
		}
		return printDocuments(cmd.OutOrStdout(), docs)
	},
}

var docsImportCmd = &cobra.Command{
	Use:   "import [file...]",
	Short: "Import EPUB, PDF, DOCX, text or markdown files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			doc, err := application.Store.ImportFile(cmd.Context(), filepath.Base(path), data)
			if err != nil {
				return fmt.Errorf("failed to import %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s as %s (%s)\n", filepath.Base(path), doc.ID, doc.Type)
		}
		return nil
	},
}

var docsNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a page whose text lives on the document itself",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := readContentFlag(cmd, pageContent)
		if err != nil {
			return err
		}
		title := pageTitle
		if title == "" {
			title = "Untitled"
		}
		doc, err := application.Store.SaveDocument(cmd.Context(), &models.Document{
			Title:   title,
			Type:    models.DocumentType(pageType),
			Content: content,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", doc.ID, doc.Type)
		return nil
	},
}

var docsEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Change the title, content or reader location of a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := application.Store.GetDocument(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if doc == nil {
			return fmt.Errorf("document %s not found", args[0])
		}
		flags := cmd.Flags()
		if flags.Changed("title") {
			doc.Title = pageTitle
		}
		if flags.Changed("content") {
			if doc.Content, err = readContentFlag(cmd, pageContent); err != nil {
				return err
			}
		}
		if flags.Changed("location") {
			doc.Location = pageLocation
		}
		if _, err := application.Store.SaveDocument(cmd.Context(), doc); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", doc.ID)
		return nil
	},
}

// readContentFlag returns value, or stdin when value is "-"
func readContentFlag(cmd *cobra.Command, value string) (string, error) {
	if value != "-" {
		return value, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}
	return string(data), nil
}

var docsGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		doc, err := application.Store.GetDocument(ctx, args[0])
		if err != nil {
			return err
		}
		if doc == nil {
			return fmt.Errorf("document %s not found", args[0])
		}
		if err := application.Store.TouchDocument(ctx, doc.ID); err != nil {
			logger.Warn().Err(err).Str("doc_id", doc.ID).Msg("Failed to record document open")
		}

		out := cmd.OutOrStdout()
		if outputJSON {
			return printJSON(out, doc)
		}
		fmt.Fprintf(out, "ID:       %s\n", doc.ID)
		fmt.Fprintf(out, "Title:    %s\n", doc.Title)
		fmt.Fprintf(out, "Type:     %s\n", doc.Type)
		fmt.Fprintf(out, "Created:  %s\n", formatTime(doc.CreatedAt))
		fmt.Fprintf(out, "Updated:  %s\n", formatTime(doc.UpdatedAt))
		if doc.DeletedAt != nil {
			fmt.Fprintf(out, "Trashed:  %s\n", formatTime(*doc.DeletedAt))
		}
		for k, v := range doc.Meta {
			fmt.Fprintf(out, "%-9s %v\n", k+":", v)
		}

		if docsWithBody {
			body, err := application.Store.GetDocumentBody(ctx, doc.ID)
			if err != nil {
				return err
			}
			if body != nil {
				fmt.Fprintf(out, "\n%s\n", body.Text)
			}
		}
		return nil
	},
}

var docsFileCmd = &cobra.Command{
	Use:   "file [id]",
	Short: "Write the stored file of a document to disk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		doc, err := application.Store.GetDocument(ctx, args[0])
		if err != nil {
			return err
		}
		if doc == nil {
			return fmt.Errorf("document %s not found", args[0])
		}
		data, err := application.Store.GetDocumentFile(ctx, doc.ID)
		if err != nil {
			return err
		}
		if data == nil {
			return fmt.Errorf("document %s has no stored file", doc.ID)
		}
		path := docsOutput
		if path == "" {
			path = doc.Title + "." + string(doc.Type)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", path, len(data))
		return nil
	},
}

var docsTrashCmd = &cobra.Command{
	Use:   "trash [id]",
	Short: "Move a document to the trash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.Store.SoftDeleteDocument(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to trash\n", args[0])
		return nil
	},
}

var docsRestoreCmd = &cobra.Command{
	Use:   "restore [id]",
	Short: "Restore a trashed document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.Store.RestoreDocument(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restored %s\n", args[0])
		return nil
	},
}

var docsPurgeCmd = &cobra.Command{
	Use:   "purge [id]",
	Short: "Delete a document with its file, annotations and bookmarks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.Store.HardDeleteDocument(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Purged %s\n", args[0])
		return nil
	},
}

func init() {
	docsListCmd.Flags().BoolVar(&docsTrashed, "trashed", false, "List trashed documents")
	docsRecentCmd.Flags().IntVarP(&docsLimit, "limit", "n", 10, "Maximum documents to list")
	docsNewCmd.Flags().StringVar(&pageTitle, "title", "", "Page title")
	docsNewCmd.Flags().StringVar(&pageContent, "content", "", "Page text (\"-\" reads stdin)")
	docsNewCmd.Flags().StringVar(&pageType, "type", string(models.DocumentTypeMarkdown), "Document type (md or txt)")
	docsEditCmd.Flags().StringVar(&pageTitle, "title", "", "New title")
	docsEditCmd.Flags().StringVar(&pageContent, "content", "", "New page text (\"-\" reads stdin)")
	docsEditCmd.Flags().StringVar(&pageLocation, "location", "", "Reader position")
	docsGetCmd.Flags().BoolVar(&docsWithBody, "body", false, "Print the extracted text")
	docsFileCmd.Flags().StringVarP(&docsOutput, "output", "o", "", "Output path (default: title and type)")

	docsCmd.AddCommand(docsListCmd, docsRecentCmd, docsImportCmd, docsNewCmd, docsEditCmd, docsGetCmd, docsFileCmd, docsTrashCmd, docsRestoreCmd, docsPurgeCmd)
}
