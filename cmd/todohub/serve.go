package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/todohub/todohub/internal/config"
	"github.com/todohub/todohub/internal/server"
	"github.com/todohub/todohub/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the todohub server in the foreground",
	Long:  `Run the todohub HTTP server in the foreground until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		bind, _ := cmd.Flags().GetString("bind")
		dbPath, _ := cmd.Flags().GetString("db")

		if err := runServe(bind, dbPath); err != nil {
			handleError(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("bind", "", "Address to bind the server to (host:port)")
	serveCmd.Flags().String("db", "", "Path to the SQLite database file")
}

// runServe opens the database, applies migrations and serves until a
// shutdown signal arrives.
func runServe(bind, dbPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if bind == "" {
		bind = cfg.Addr()
	}
	if dbPath == "" {
		dbPath = cfg.DBPath
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	srv := server.New(bind, db)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
