package main

import (
	"context"
	"errors"

	"github.com/turbo/newton/backtester/engine"
	"github.com/turbo/newton/backtester/server"
	"github.com/turbo/newton/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var runCommand = &cli.Command{
	Name:  "run",
	Usage: "runs every strategy in the config",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "listen",
			Usage: "serve run status on this address while running, overrides the config",
		},
	},
	Action: run,
}

func run(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if c.IsSet("listen") {
		cfg.Server.Enabled = true
		cfg.Server.ListenAddress = c.String("listen")
	}
	db, err := connect(c.Context, cfg)
	if err != nil {
		return err
	}
	defer closeAll(db)

	tm, err := engine.NewTaskManager(cfg, db)
	if err != nil {
		return err
	}
	if !cfg.Server.Enabled {
		return ignoreCancel(tm.ExecuteAll(c.Context))
	}
	srv, err := server.New(cfg.Server.ListenAddress, tm)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	g.Go(func() error {
		defer cancel()
		return ignoreCancel(tm.ExecuteAll(ctx))
	})
	if err := g.Wait(); err != nil {
		return err
	}
	log.Infoln(log.BackTester, "Backtest finished")
	return nil
}

func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
