package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SunnySoftwareTech/Drafty/api"
	"github.com/SunnySoftwareTech/Drafty/localstore"
	"github.com/SunnySoftwareTech/Drafty/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local HTTP and websocket API",
	Long: `Run the local HTTP API and the /ws sync status stream.

Requests authenticate with a session token from "drafty session".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		jwtSecret, err := cfg.Secret()
		if err != nil {
			return err
		}

		blobs, err := openStore(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to create %s store: %w", cfg.StoreBackend, err)
		}
		defer blobs.Close()

		broker, err := openBroker(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to create %s events broker: %w", cfg.EventsBackend, err)
		}
		defer broker.Close()

		syncQueue, err := openQueue(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to create %s sync queue: %w", cfg.QueueBackend, err)
		}

		shutdownCtx, stop := signal.NotifyContext(
			context.Background(),
			os.Interrupt,
			syscall.SIGTERM,
		)
		defer stop()

		ls := localstore.New(blobs, logging.New("localstore"))
		draftyAPI, err := api.NewDraftyAPI(ls, newProvider(cfg), broker, syncQueue, jwtSecret, shutdownCtx)
		if err != nil {
			return fmt.Errorf("failed to create drafty api: %w", err)
		}

		mux := http.NewServeMux()
		draftyAPI.RegisterRoutes(mux, cfg.AllowedOrigin)

		server := &http.Server{Addr: cfg.ListenAddr, Handler: mux}
		go func() {
			<-shutdownCtx.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			server.Shutdown(ctx)
		}()

		log.Printf("Starting server on %s (store: %s, queue: %s, events: %s)",
			cfg.ListenAddr, cfg.StoreBackend, cfg.QueueBackend, cfg.EventsBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		log.Printf("Server shutting down...")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
