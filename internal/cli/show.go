package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show a recorded conversation",
		Args:  cobra.ExactArgs(1),
		Run:   runShow,
	}

	cmd.Flags().Bool("text", false, "Print the transcript as dialogue instead of JSON")

	RootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) {
	asText, _ := cmd.Flags().GetBool("text")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	sess, err := s.GetSession(cmd.Context(), args[0])
	if err != nil {
		exitErr("show", err)
	}

	out := cmd.OutOrStdout()
	if asText {
		fmt.Fprintf(out, "# %s [%s] %s\n", sess.ID, sess.Lang, sess.Status)
		for _, t := range sess.Turns {
			fmt.Fprintf(out, "You:   %s\nELIZA: %s\n", t.Input, t.Response)
		}
		return
	}

	b, _ := json.MarshalIndent(sess, "", "  ")
	fmt.Fprintln(out, string(b))
}
