package main

import (
	"errors"
	"fmt"

	"github.com/turbo/newton/database"
	"github.com/turbo/newton/database/repository/candle"
	"github.com/turbo/newton/exchanges/kline"
	"github.com/turbo/newton/log"
	"github.com/urfave/cli/v2"
)

var errMissingArguments = errors.New("symbol and file are required")

var importCommand = &cli.Command{
	Name:      "import",
	Usage:     "imports candles from a CSV file into the configured database",
	ArgsUsage: "<symbol> <interval> <file>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "symbol",
			Usage: "the symbol of the candles, eg BTCUSDT",
		},
		&cli.StringFlag{
			Name:  "interval",
			Value: "1m",
			Usage: "the candle interval, eg 1m or 1h",
		},
		&cli.StringFlag{
			Name:      "file",
			Usage:     "the CSV file to read",
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:  "source",
			Usage: "where the candles came from, stored with each row",
		},
	},
	Action: importCandles,
}

func importCandles(c *cli.Context) error {
	if c.NumFlags() == 0 && c.NArg() == 0 {
		return cli.ShowSubcommandHelp(c)
	}
	symbol := flagOrArg(c, "symbol", 0)
	intervalCode := flagOrArg(c, "interval", 1)
	file := flagOrArg(c, "file", 2)
	if symbol == "" || file == "" {
		return errMissingArguments
	}
	interval, err := kline.ParseInterval(intervalCode)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := connect(c.Context, cfg)
	if err != nil {
		return err
	}
	if db == nil {
		return fmt.Errorf("%w in %s", database.ErrDatabaseSupportDisabled, configPath)
	}
	defer closeAll(db)

	n, err := candle.InsertFromCSV(c.Context, db, symbol, interval, c.String("source"), file)
	if err != nil {
		return err
	}
	log.Infof(log.DatabaseMgr, "Imported %d %s %s candles from %s", n, symbol, interval.Short(), file)
	return nil
}

func flagOrArg(c *cli.Context, name string, index int) string {
	if c.IsSet(name) {
		return c.String(name)
	}
	if arg := c.Args().Get(index); arg != "" {
		return arg
	}
	return c.String(name)
}
