package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/rcliao/go-eliza/internal/conversation"
	"github.com/rcliao/go-eliza/internal/langpack"
)

const resetCommand = "/reset"

var (
	introStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	elizaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	crashStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F56")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

func init() {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to ELIZA interactively",
		Long: "Start an interactive conversation. Type a quit word to leave, " +
			resetCommand + " to start over with a clean memory.",
		Run: runChat,
	}

	cmd.Flags().Bool("no-record", false, "Do not record the conversation")
	cmd.Flags().Duration("crash-delay", 400*time.Millisecond, "Pause between crash lines after a parity error")

	RootCmd.AddCommand(cmd)
}

// prompter reads one line of input.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// historyPrompter wraps liner with a persistent history file.
type historyPrompter struct {
	line *liner.State
	path string
}

func newHistoryPrompter(path string) *historyPrompter {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	h := &historyPrompter{line: line, path: path}
	if f, err := os.Open(path); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	return h
}

func (h *historyPrompter) Prompt(prompt string) (string, error) {
	input, err := h.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		h.line.AppendHistory(input)
	}
	return input, nil
}

func (h *historyPrompter) Close() {
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err == nil {
		if f, err := os.OpenFile(h.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
			h.line.WriteHistory(f)
			f.Close()
		}
	}
	h.line.Close()
}

func runChat(cmd *cobra.Command, args []string) {
	noRecord, _ := cmd.Flags().GetBool("no-record")
	crashDelay, _ := cmd.Flags().GetDuration("crash-delay")
	ctx := cmd.Context()
	logger := newLogger()

	pack, err := loadPack(ctx, logger)
	if err != nil {
		exitErr("load language", err)
	}

	var rec conversation.Recorder
	if !noRecord {
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

	p := newHistoryPrompter(filepath.Join(filepath.Dir(getDBPath()), "history"))
	defer p.Close()

	if err := chatLoop(ctx, cmd.OutOrStdout(), p, pack, conv, crashDelay); err != nil {
		p.Close()
		exitErr("chat", err)
	}
}

// chatLoop runs the conversation until a quit word, a parity error, or the
// end of input.
func chatLoop(ctx context.Context, out io.Writer, p prompter, pack *langpack.Pack, conv *conversation.Conversation, crashDelay time.Duration) error {
	msgs := pack.Messages
	if msgs.Intro != "" {
		fmt.Fprintln(out, introStyle.Render(strings.TrimRight(msgs.Intro, "\n")))
	}
	fmt.Fprintln(out, elizaStyle.Render("ELIZA: "+pack.Greeting()))

	prompt := msgs.Prompt
	if prompt == "" {
		prompt = "> "
	}

	for {
		input, err := p.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return conv.Close(ctx)
			}
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.EqualFold(input, resetCommand) {
			if err := conv.Reboot(ctx); err != nil {
				return err
			}
			if msgs.Reboot != "" {
				fmt.Fprintln(out, dimStyle.Render(msgs.Reboot))
			}
			fmt.Fprintln(out, elizaStyle.Render("ELIZA: "+pack.Greeting()))
			continue
		}

		res, err := conv.Say(ctx, input)
		if err != nil {
			return err
		}
		if res.Terminated {
			fmt.Fprintln(out, crashStyle.Render(res.Text))
			for _, line := range msgs.Crash {
				time.Sleep(crashDelay)
				fmt.Fprintln(out, crashStyle.Render(line))
			}
			return nil
		}
		fmt.Fprintln(out, elizaStyle.Render("ELIZA: "+res.Text))
		if res.Quit {
			return nil
		}
	}
}
