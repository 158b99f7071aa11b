// nextgen is a command-line client for the NextGen Minds apps. It keeps its
// state in a local database the way the web clients use browser storage.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/ashureev/nextgen-minds/internal/client"
	"github.com/ashureev/nextgen-minds/internal/state"
	"github.com/ashureev/nextgen-minds/internal/store"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// env holds what every subcommand works with.
type env struct {
	kv      *store.KVStore
	store   *state.Store
	session *client.Session
	api     *client.Client
}

var (
	flagDB      string
	flagApp     string
	flagServer  string
	flagVerbose bool

	cli env
)

var rootCmd = &cobra.Command{
	Use:           "nextgen",
	Short:         "Command-line client for the NextGen Minds apps",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return cli.open(cmd)
	},
	PersistentPostRunE: func(*cobra.Command, []string) error {
		return cli.close()
	},
}

func defaultDBPath() string {
	if p := os.Getenv("NEXTGEN_STATE"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "nextgen-state.db"
	}
	return filepath.Join(home, ".nextgen", "state.db")
}

func defaultServer() string {
	if s := os.Getenv("NEXTGEN_SERVER"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

func (e *env) open(cmd *cobra.Command) error {
	if !slices.Contains(state.Apps, flagApp) {
		return fmt.Errorf("unknown app %q (want one of %v)", flagApp, state.Apps)
	}

	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	kv, err := store.OpenKV(flagDB)
	if err != nil {
		return fmt.Errorf("open local state: %w", err)
	}
	e.kv = kv
	e.store = state.New(flagApp, kv, state.WithLogger(logger))

	report, err := e.store.Rehydrate(cmd.Context())
	if err != nil {
		return err
	}
	logger.Debug("Rehydrated", "loaded", report.Loaded, "missing", report.Missing, "failed", len(report.Failed))

	e.api = client.New(flagServer, nil)
	e.session = client.NewSession(e.api, e.store,
		client.WithSessionLogger(logger),
		client.WithChatModel(os.Getenv("NEXTGEN_CHAT_MODEL")),
		client.WithSystemPrompt(systemPrompt),
	)
	return nil
}

func (e *env) close() error {
	if e.kv == nil {
		return nil
	}
	return e.kv.Close()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the whole local state",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printJSON(cmd.OutOrStdout(), cli.store.State())
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear every slice and erase local storage for the app",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli.store.Dispatch(state.ClearAll{})
		fmt.Fprintln(cmd.OutOrStdout(), "State cleared.")
		return nil
	},
}

func main() {
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&flagDB, "db", defaultDBPath(), "local state database")
	rootCmd.PersistentFlags().StringVar(&flagApp, "app", state.AppNextGen, "application scope")
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", defaultServer(), "API base URL")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(showCmd, resetCmd, cartCmd, searchCmd, signupCmd, loginCmd, logoutCmd,
		whoamiCmd, chatCmd, transcriptCmd, settingsCmd, profileCmd, careersCmd, collegesCmd,
		scholarshipsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
