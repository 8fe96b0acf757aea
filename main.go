package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"liarsdice/cmd"
	"liarsdice/database"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	// Check for migration subcommands
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(); err != nil {
			log.Fatal("Migration error:", err)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	command := "run"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	var err error
	switch command {
	case "run":
		err = cmd.Run(ctx)
	case "play":
		err = runPlay(ctx)
	case "watch":
		tableID := ""
		if len(os.Args) > 2 {
			tableID = os.Args[2]
		}
		err = cmd.Watch(ctx, tableID, os.Stdout)
	default:
		err = fmt.Errorf("usage: liarsdice [run|play [seed]|watch [table-id]|migrate up|down|status]")
	}
	if err != nil && ctx.Err() == nil {
		log.Fatal("Application error:", err)
	}
}

func runPlay(ctx context.Context) error {
	opts := cmd.PlayOptions{In: os.Stdin, Out: os.Stdout}
	if len(os.Args) > 2 {
		seed, err := strconv.ParseInt(os.Args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed %q: %w", os.Args[2], err)
		}
		opts.Seed = seed
	}
	return cmd.Play(ctx, opts)
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: liarsdice migrate [up|down|status] [args...]")
	}

	command := os.Args[2]
	switch command {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(os.Args) > 3 {
			steps = os.Args[3]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}
