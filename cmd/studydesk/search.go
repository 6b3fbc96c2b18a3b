package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ternarybob/studydesk/internal/models"
)

var (
	searchSort    string
	searchLimit   int
	searchTrashed bool
	searchFilters map[string]string
	searchTitle   string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search titles, document text and annotations",
	Long: `Search is case-insensitive and matches when every term is present.
Quote phrases ("faith and hope"), exclude terms with -term and filter inline
with type:, kind:, tag: or doc:.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := application.Search.Search(cmd.Context(), strings.Join(args, " "), models.SearchOptions{
			Filters:        searchFilters,
			Sort:           models.SavedSearchSort(searchSort),
			Limit:          searchLimit,
			IncludeTrashed: searchTrashed,
		})
		if err != nil {
			return err
		}
		return printResults(cmd.OutOrStdout(), results)
	},
}

var searchSavedCmd = &cobra.Command{
	Use:   "saved",
	Short: "List, save, run or delete saved searches",
}

var searchSavedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved searches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		searches, err := application.Store.GetSavedSearches(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if outputJSON {
			return printJSON(out, searches)
		}
		if len(searches) == 0 {
			fmt.Fprintln(out, "No saved searches.")
			return nil
		}
		for _, s := range searches {
			fmt.Fprintf(out, "%-44s  %-20s  %s\n", s.ID, s.Title, s.Query)
		}
		return nil
	},
}

var searchSavedAddCmd = &cobra.Command{
	Use:   "add [query]",
	Short: "Save a search",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		saved, err := application.Store.SaveSavedSearch(cmd.Context(), &models.SavedSearch{
			Title:   searchTitle,
			Query:   strings.Join(args, " "),
			Filters: searchFilters,
			Sort:    models.SavedSearchSort(searchSort),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", saved.ID)
		return nil
	},
}

var searchSavedRunCmd = &cobra.Command{
	Use:   "run [id]",
	Short: "Run a saved search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := application.Search.RunSaved(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResults(cmd.OutOrStdout(), results)
	},
}

var searchSavedDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saved search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.Store.DeleteSavedSearch(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

func printResults(w io.Writer, results []models.SearchResult) error {
	if outputJSON {
		return printJSON(w, results)
	}
	if len(results) == 0 {
		fmt.Fprintln(w, "No results.")
		return nil
	}
	for i, r := range results {
		fmt.Fprintf(w, "%d. [%s] %s (%s)\n", i+1, r.Kind, r.Title, r.DocumentID)
		if r.Snippet != "" {
			fmt.Fprintf(w, "   %s\n", r.Snippet)
		}
	}
	return nil
}

func init() {
	for _, c := range []*cobra.Command{searchCmd, searchSavedAddCmd} {
		c.Flags().StringVar(&searchSort, "sort", "", "newest, oldest or title")
		c.Flags().StringToStringVar(&searchFilters, "filter", nil, "Filter key=value (type, kind, tag, documentId)")
	}
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "Maximum results")
	searchCmd.Flags().BoolVar(&searchTrashed, "trashed", false, "Include trashed documents")
	searchSavedAddCmd.Flags().StringVar(&searchTitle, "title", "", "Display title")

	searchSavedCmd.AddCommand(searchSavedListCmd, searchSavedAddCmd, searchSavedRunCmd, searchSavedDeleteCmd)
	searchCmd.AddCommand(searchSavedCmd)
}
