package main

import (
	"github.com/turbo/newton/backtester/config"
	"github.com/turbo/newton/log"
	"github.com/urfave/cli/v2"
)

var generateCommand = &cli.Command{
	Name:  "generate",
	Usage: "writes a default config with an example strategy",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:      "output",
			Aliases:   []string{"o"},
			Usage:     "where to write the config, defaults to the --config path",
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:  "datadir",
			Usage: "the directory holding candle files",
			Value: "data",
		},
		&cli.BoolFlag{
			Name:  "force",
			Usage: "replace an existing config",
		},
	},
	Action: generateConfig,
}

func generateConfig(c *cli.Context) error {
	path := c.String("output")
	if path == "" {
		path = configPath
	}
	cfg := config.GenerateDefaultConfig()
	cfg.DataSettings.Directory = c.String("datadir")
	cfg.Strategies = []config.StrategySettings{config.ExampleStrategy()}
	if err := cfg.SaveConfig(path, c.Bool("force")); err != nil {
		return err
	}
	log.Infof(log.ConfigMgr, "Wrote default config to %s", path)
	return nil
}
