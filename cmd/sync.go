package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SunnySoftwareTech/Drafty/service"
)

// report prints a successful status and turns a failed one into an error.
func report(cmd *cobra.Command, st service.Status) error {
	if st.Failed() {
		return errors.New(st.Message)
	}
	fmt.Fprintln(cmd.OutOrStdout(), st.Message)
	return nil
}

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload the local snapshot to the gist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		return withService(ctx, func(svc *service.Service) error {
			return report(cmd, svc.Push(ctx, cfg.User))
		})
	},
}

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Replace local data with the gist snapshot",
	Long: `Replace all four local collections with the snapshot stored in the gist.

Local changes that were never pushed are lost.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		return withService(ctx, func(svc *service.Service) error {
			return report(cmd, svc.Pull(ctx, cfg.User))
		})
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token [token]",
	Short: "Check and save a GitHub token with gist scope",
	Long: `Check a GitHub personal access token against the gist host and save it.

Without an argument the token is read from the first line of stdin.

Examples:
  drafty token ghp_xxx
  echo ghp_xxx | drafty token`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var token string
		if len(args) == 1 {
			token = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read token: %w", err)
			}
			token = strings.TrimSpace(line)
		}

		ctx := context.Background()
		return withService(ctx, func(svc *service.Service) error {
			return report(cmd, svc.SaveToken(ctx, cfg.User, token))
		})
	},
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Print a session token for the local API",
	Long: `Print a session token for the configured user. Pass it as a bearer token
to the HTTP API or as the second websocket subprotocol on /ws.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jwtSecret, err := cfg.Secret()
		if err != nil {
			return err
		}
		ctx := context.Background()
		return withService(ctx, func(svc *service.Service) error {
			svc.JWTSecret = jwtSecret
			token, err := svc.CreateSessionToken(cfg.User)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(pushCmd, pullCmd, tokenCmd, sessionCmd)
}
