package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/go-eliza/internal/langpack"
)

func init() {
	cmd := &cobra.Command{
		Use:   "langs",
		Short: "List available language packs",
		Run:   runLangs,
	}

	RootCmd.AddCommand(cmd)
}

func runLangs(cmd *cobra.Command, args []string) {
	langs, err := langpack.Languages(packSource())
	if err != nil {
		exitErr("langs", err)
	}
	for _, l := range langs {
		fmt.Fprintln(cmd.OutOrStdout(), l)
	}
}
