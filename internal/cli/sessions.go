package cli

import (
	"encoding/json"
	"fmt"

	"github.com/rcliao/go-eliza/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recorded conversations",
		Run:   runSessions,
	}

	cmd.Flags().String("filter-lang", "", "Filter by language")
	cmd.Flags().String("status", "", "Filter by status (open, quit, terminated, rebooted, closed)")
	cmd.Flags().IntP("limit", "n", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSessions(cmd *cobra.Command, args []string) {
	lang, _ := cmd.Flags().GetString("filter-lang")
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	sessions, err := s.ListSessions(cmd.Context(), store.ListParams{
		Lang:   lang,
		Status: status,
		Limit:  limit,
	})
	if err != nil {
		exitErr("list", err)
	}

	if len(sessions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "[]")
		return
	}

	b, _ := json.MarshalIndent(sessions, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
