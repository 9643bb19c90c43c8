package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export recorded conversations as JSON",
		Long:  "Export every session with its full transcript, oldest first.",
		Run:   runExport,
	}

	cmd.Flags().String("filter-lang", "", "Filter by language")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	lang, _ := cmd.Flags().GetString("filter-lang")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	sessions, err := s.ExportAll(cmd.Context(), lang)
	if err != nil {
		exitErr("export", err)
	}

	b, _ := json.MarshalIndent(sessions, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
