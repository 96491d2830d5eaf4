package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/SunnySoftwareTech/Drafty/config"
	"github.com/SunnySoftwareTech/Drafty/logging"
)

var (
	configFile string
	userFlag   string

	cfg       *config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "drafty",
	Short: "Local-first notebooks, flashcards and projects with gist sync",
	Long: `drafty keeps notebooks, flashcards and projects in a local store and
syncs a snapshot of them to a private GitHub gist.

Run "drafty serve" for the local HTTP and websocket API, or use the
push, pull and token commands directly.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if userFlag != "" {
			loaded.User = userFlag
		}
		cfg = loaded

		logCloser, err = logging.Setup(cfg.LogFile)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a config file")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "user id to act as (overrides the config)")
}
