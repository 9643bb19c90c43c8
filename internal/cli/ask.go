package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/go-eliza/internal/conversation"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ask [text]",
		Short: "Answer one line, or each line of stdin",
		Long: "Answer the given text. Without arguments every line of stdin is one turn " +
			"of the same conversation. Stops at a quit word or the parity error.",
		Run: runAsk,
	}

	cmd.Flags().Bool("json", false, "Print each reply as a JSON object")
	cmd.Flags().Bool("record", false, "Record the conversation to the database")

	RootCmd.AddCommand(cmd)
}

func runAsk(cmd *cobra.Command, args []string) {
	asJSON, _ := cmd.Flags().GetBool("json")
	record, _ := cmd.Flags().GetBool("record")
	ctx := cmd.Context()
	logger := newLogger()

	pack, err := loadPack(ctx, logger)
	if err != nil {
		exitErr("load language", err)
	}

	var rec conversation.Recorder
	if record {
		s, err := openStore()
		if err != nil {
			exitErr("open store", err)
		}
		defer s.Close()
		rec = s
	}

	conv, err := conversation.Start(ctx, pack, rec, logger)
	if err != nil {
		exitErr("start", err)
	}

	out := cmd.OutOrStdout()
	// say answers one line and reports whether the conversation is over.
	say := func(line string) bool {
		res, err := conv.Say(ctx, line)
		if err != nil {
			exitErr("ask", err)
		}
		if asJSON {
			b, _ := json.Marshal(res.Reply)
			fmt.Fprintln(out, string(b))
		} else {
			fmt.Fprintln(out, res.Text)
		}
		return res.Quit || res.Terminated
	}

	if len(args) > 0 {
		if say(strings.Join(args, " ")) {
			return
		}
	} else {
		sc := bufio.NewScanner(cmd.InOrStdin())
		for sc.Scan() {
			if say(sc.Text()) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			exitErr("read stdin", err)
		}
	}
	if err := conv.Close(ctx); err != nil {
		exitErr("close", err)
	}
}
