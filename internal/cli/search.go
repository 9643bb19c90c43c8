package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rcliao/go-eliza/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search recorded turns",
		Long:  "Search the inputs and replies of recorded conversations for matching text.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().String("filter-lang", "", "Filter by language")
	cmd.Flags().StringP("keyword", "k", "", "Only turns answered by this rule keyword")
	cmd.Flags().IntP("limit", "n", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	lang, _ := cmd.Flags().GetString("filter-lang")
	keyword, _ := cmd.Flags().GetString("keyword")
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	results, err := s.Search(cmd.Context(), store.SearchParams{
		Query:   query,
		Lang:    lang,
		Keyword: keyword,
		Limit:   limit,
	})
	if err != nil {
		exitErr("search", err)
	}

	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "[]")
		return
	}

	b, _ := json.MarshalIndent(results, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
