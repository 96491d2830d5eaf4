package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/SunnySoftwareTech/Drafty/models"
	"github.com/SunnySoftwareTech/Drafty/service"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <collection>",
	Short: "Write one collection as a JSON document",
	Long: `Write one collection as a JSON array.

Collections: notebooks, projects, flashcards, flashcardFolders.

Examples:
  drafty export notebooks
  drafty export flashcards -o cards.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := models.ParseCollection(args[0])
		if err != nil {
			return err
		}

		ctx := context.Background()
		return withService(ctx, func(svc *service.Service) error {
			doc, err := svc.ExportCollection(ctx, cfg.User, c)
			if err != nil {
				return err
			}
			if exportOutput == "" || exportOutput == "-" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(doc))
				return err
			}
			return os.WriteFile(exportOutput, doc, 0644)
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <collection> <file>",
	Short: "Replace one collection with a JSON document",
	Long: `Replace one collection with the JSON array in file. Use - for stdin.

The document is validated first; an invalid one leaves local data untouched.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := models.ParseCollection(args[0])
		if err != nil {
			return err
		}

		var doc []byte
		if args[1] == "-" {
			doc, err = io.ReadAll(cmd.InOrStdin())
		} else {
			doc, err = os.ReadFile(args[1])
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[1], err)
		}

		ctx := context.Background()
		return withService(ctx, func(svc *service.Service) error {
			if err := svc.ImportCollection(ctx, cfg.User, c, doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", c)
			return nil
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear <collection>",
	Short: "Delete every entity of one collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := models.ParseCollection(args[0])
		if err != nil {
			return err
		}

		ctx := context.Background()
		return withService(ctx, func(svc *service.Service) error {
			if err := svc.ClearCollection(ctx, cfg.User, c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", c)
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd, importCmd, clearCmd)
}
