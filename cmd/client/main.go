package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-study-sync/internal/config"
	"github.com/MKhiriev/go-study-sync/internal/engine"
	"github.com/MKhiriev/go-study-sync/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("study-sync-client")
	cfg, err := config.GetEngineConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.App.LogPath != "" {
		log = logger.NewFileLogger("study-sync-client", cfg.App.LogPath)
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()
	eng, err := engine.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init engine error")
	}
	defer eng.Close()

	if err = run(ctx, eng, flag.Args()); err != nil {
		log.Fatal().Err(err).Msg("command error")
	}
}

// run dispatches the positional command left after flag parsing. With
// no command the current sync status is printed.
func run(ctx context.Context, eng *engine.Engine, args []string) error {
	command := "status"
	if len(args) > 0 {
		command = args[0]
	}

	switch command {
	case "status":
		return printJSON(eng.GetSyncStatus())

	case "sync":
		result, err := eng.SyncNow(ctx)
		if err != nil {
			return err
		}
		return printJSON(result)

	case "backup":
		info, err := eng.CreateBackup(ctx)
		if err != nil {
			return err
		}
		return printJSON(info)

	case "list":
		backups, err := eng.ListBackups(ctx)
		if err != nil {
			return err
		}
		return printJSON(backups)

	case "restore":
		if len(args) < 2 {
			return fmt.Errorf("usage: restore <backup-id>")
		}
		return eng.RestoreBackup(ctx, args[1])

	case "daemon":
		return runDaemon(ctx, eng)

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// runDaemon keeps the periodic sync job running until a stop signal
// arrives. The engine's deferred Close drains the job on exit.
func runDaemon(ctx context.Context, eng *engine.Engine) error {
	if err := eng.StartPeriodicSync(ctx); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()
	<-ctx.Done()

	return nil
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
