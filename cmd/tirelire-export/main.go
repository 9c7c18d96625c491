// Command tirelire-export writes one user's full data bundle to a JSON file,
// using the same storage backend configuration as the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"tirelire/internal/backend"
	"tirelire/internal/config"
	applog "tirelire/internal/log"
	"tirelire/internal/store"
)

func main() {
	username := flag.String("user", "", "username to export")
	output := flag.String("out", "", "output file (default tirelire-export-<user>.json)")
	flag.Parse()

	if *username == "" {
		fmt.Fprintln(os.Stderr, "usage: tirelire-export -user <username> [-out <file>]")
		os.Exit(2)
	}

	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentExport)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err.Error())
		os.Exit(1)
	}

	if err := run(context.Background(), logger, cfg, *username, *output); err != nil {
		logger.Error("Export failed", applog.FieldError, err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *applog.Logger, cfg *config.Config, username, output string) error {
	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateStore(ctx, backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		DataDir:      cfg.DataDir,
		SQLiteDBPath: cfg.SQLiteDBPath,
	})
	if err != nil {
		return fmt.Errorf("initialize storage backend: %w", err)
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	st := store.New(result.Store, store.Options{Logger: logger})

	doc, err := st.Load(ctx)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	userID := ""
	for _, user := range doc.Users {
		if user.Username == username {
			userID = user.ID
			break
		}
	}
	if userID == "" {
		return fmt.Errorf("no user named %q", username)
	}

	export, err := st.ExportBundle(ctx, userID)
	if err != nil {
		return fmt.Errorf("build export: %w", err)
	}

	if output == "" {
		output = fmt.Sprintf("tirelire-export-%s.json", username)
	}
	body, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	if err := os.WriteFile(output, body, 0600); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	logger.Info("Export written",
		applog.FieldUsername, username,
		"file", output,
		"transactions", len(export.Transactions))
	return nil
}
