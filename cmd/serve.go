package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hyunwoo-dev/paperlens/internal/cache"
	"github.com/hyunwoo-dev/paperlens/internal/db"
	"github.com/hyunwoo-dev/paperlens/internal/server"
	"github.com/hyunwoo-dev/paperlens/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the paperlens HTTP server",
	Long:  `Starts the HTTP server exposing document upload, analysis, question answering, and history endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		port := cfg.Server.Port
		if servePort != 0 {
			port = servePort
		}

		retrieverCache := cache.New(cfg.CacheMaxEntries)
		p, err := buildPipeline(cfg, retrieverCache)
		if err != nil {
			return err
		}

		dbPath := filepath.Join(cfg.Server.DataDir, "paperlens.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		srv := server.New(server.Config{
			Port:      port,
			UploadDir: cfg.Server.UploadDir,
			AllowAll:  cfg.Server.AllowAll,
		}, store.New(database), p)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "paperlens server v%s starting on port %d\n", Version, port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "  Uploads:  %s\n", cfg.Server.UploadDir)

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
