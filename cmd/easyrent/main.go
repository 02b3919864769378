// Command easyrent runs the listing pipeline outside Cloud Functions: once,
// or repeatedly on a cron schedule.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/Lllllllleong/easyrent/internal/services"
)

func main() {
	schedule := flag.String("schedule", "", `cron spec such as "@every 1h"; empty runs once and exits`)
	envFile := flag.String("env", ".env", "dotenv file to load before reading the environment")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := godotenv.Load(*envFile); err != nil {
		slog.Info("No env file found, falling back to system env vars.", "path", *envFile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner, err := services.NewRunner(ctx)
	if err != nil {
		slog.Error("Failed to initialize runner.", "error", err)
		os.Exit(1)
	}
	defer runner.Close()

	if *schedule == "" {
		if _, err := runner.RunOnce(ctx); err != nil {
			slog.Error("Run finished with errors.", "error", err)
			runner.Close()
			os.Exit(1)
		}
		return
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(*schedule, func() {
		if _, err := runner.RunOnce(ctx); err != nil {
			slog.Error("Scheduled run finished with errors.", "error", err)
		}
	}); err != nil {
		slog.Error("Invalid schedule.", "schedule", *schedule, "error", err)
		runner.Close()
		os.Exit(1)
	}

	c.Start()
	slog.Info("Scheduler started.", "schedule", *schedule)

	<-ctx.Done()
	slog.Info("Shutting down, waiting for the running pass to finish.")
	<-c.Stop().Done()
}
