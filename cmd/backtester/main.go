package main

import (
	"context"
	"fmt"
	"os"

	"github.com/turbo/newton/backtester/config"
	"github.com/turbo/newton/database"
	"github.com/turbo/newton/database/drivers"
	"github.com/turbo/newton/log"
	"github.com/turbo/newton/signaler"
	"github.com/urfave/cli/v2"
)

var configPath string

func main() {
	app := cli.NewApp()
	app.Name = "backtester"
	app.Usage = "replays historic candles through a multi timeframe oscillator strategy"
	app.EnableBashCompletion = true
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Value:       config.DefaultBTConfigDir,
			Usage:       "the JSON or YAML config file to load",
			TakesFile:   true,
			Destination: &configPath,
		},
		&cli.StringFlag{
			Name:        "migrationdir",
			Value:       database.MigrationDir,
			Usage:       "override the migration folder",
			Destination: &database.MigrationDir,
		},
	}
	app.Commands = []*cli.Command{
		runCommand,
		importCommand,
		generateCommand,
		migrateCommand,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-signaler.WaitForInterrupt()
		log.Warnln(log.Global, "Interrupt received, stopping")
		cancel()
	}()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config and applies its logging settings
func loadConfig() (*config.Config, error) {
	cfg, err := config.ReadConfigFromFile(configPath)
	if err != nil {
		return nil, err
	}
	if err := log.SetupGlobalLogger(&cfg.Logging, cfg.DataDir); err != nil {
		return nil, err
	}
	return cfg, nil
}

// connect opens the configured database, returning nil when it is disabled
func connect(ctx context.Context, cfg *config.Config) (*database.Instance, error) {
	if !cfg.Database.Enabled {
		return nil, nil
	}
	return drivers.Connect(ctx, &cfg.Database, cfg.DataDir)
}

func closeAll(db *database.Instance) {
	if db != nil {
		if err := db.CloseConnection(); err != nil {
			log.Errorln(log.DatabaseMgr, err)
		}
	}
	if err := log.CloseLogger(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}
