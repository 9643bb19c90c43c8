// Package cli implements the eliza CLI commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rcliao/go-eliza/internal/langpack"
	"github.com/rcliao/go-eliza/internal/logging"
	"github.com/rcliao/go-eliza/internal/store"
)

var (
	dbPath   string
	langFlag string
	rulesDir string
	rulesURL string
	logLevel string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "eliza",
	Short: "A Rogerian psychotherapist in your terminal",
	Long: "ELIZA answers with keyword rules, pronoun reflection and a little memory. " +
		"Conversations are recorded to a local SQLite database.",
	SilenceUsage: true,
}

func init() {
	f := RootCmd.PersistentFlags()
	f.StringVarP(&dbPath, "db", "d", "", "Database path (default: $ELIZA_DB or ~/.eliza/transcripts.db)")
	f.StringVarP(&langFlag, "lang", "l", "", "Language pack (default: $ELIZA_LANG or us)")
	f.StringVar(&rulesDir, "rules-dir", "", "Load language packs from a directory (default: $ELIZA_RULES_DIR)")
	f.StringVar(&rulesURL, "rules-url", "", "Load language packs from a base URL (default: $ELIZA_RULES_URL)")
	f.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $ELIZA_LOG_LEVEL or warn)")
}

func flagOrEnv(flag, env, def string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

func getDBPath() string {
	if p := flagOrEnv(dbPath, "ELIZA_DB", ""); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".eliza", "transcripts.db")
}

func getLang() string {
	return flagOrEnv(langFlag, "ELIZA_LANG", langpack.DefaultLang)
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

func newLogger() zerolog.Logger {
	return logging.New(os.Stderr, flagOrEnv(logLevel, "ELIZA_LOG_LEVEL", logging.DefaultLevel))
}

// packSource picks where language packs come from. A URL wins over a
// directory; with neither, the built-in packs are used.
func packSource() langpack.Source {
	if u := flagOrEnv(rulesURL, "ELIZA_RULES_URL", ""); u != "" {
		return langpack.HTTP(u)
	}
	if d := flagOrEnv(rulesDir, "ELIZA_RULES_DIR", ""); d != "" {
		return langpack.Dir(d)
	}
	return langpack.Embedded()
}

func loadPack(ctx context.Context, logger zerolog.Logger) (*langpack.Pack, error) {
	return langpack.Load(ctx, packSource(), getLang(), logger)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
