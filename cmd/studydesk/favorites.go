package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ternarybob/studydesk/internal/models"
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "List or toggle favorite documents",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorite documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ids, err := application.Store.GetFavorites(ctx)
		if err != nil {
			return err
		}
		docs := make([]*models.Document, 0, len(ids))
		for _, id := range ids {
			doc, err := application.Store.GetDocument(ctx, id)
			if err != nil {
				return err
			}
			if doc != nil {
				docs = append(docs, doc)
			}
		}
		return printDocuments(cmd.OutOrStdout(), docs)
	},
}

var favoritesToggleCmd = &cobra.Command{
	Use:   "toggle [document-id]",
	Short: "Add or remove a document from favorites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := application.Store.ToggleFavorite(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		state := "removed from"
		for _, id := range ids {
			if id == args[0] {
				state = "added to"
				break
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s favorites\n", args[0], state)
		return nil
	},
}

func init() {
	favoritesCmd.AddCommand(favoritesListCmd, favoritesToggleCmd)
}
