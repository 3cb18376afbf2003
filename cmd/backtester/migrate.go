package main

import (
	"github.com/thrasher-corp/goose"
	"github.com/turbo/newton/database"
	"github.com/turbo/newton/database/drivers"
	"github.com/turbo/newton/log"
	"github.com/urfave/cli/v2"
)

var migrateCommand = &cli.Command{
	Name:      "migrate",
	Usage:     "runs a goose command against the configured database",
	ArgsUsage: "<status|up|up-by-one|up-to|down|down-to|redo|version> [args]",
	Action:    migrate,
}

func migrate(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	command := c.Args().Get(0)
	if command == "" {
		command = "status"
	}
	db, err := drivers.Open(c.Context, &cfg.Database, cfg.DataDir)
	if err != nil {
		return err
	}
	defer closeAll(db)
	log.Infof(log.DatabaseMgr, "Running %s against %s using migrations in %s", command, db.Dialect(), database.MigrationDir)
	return goose.Run(command, db.SQL, db.Dialect(), database.MigrationDir, c.Args().Get(1))
}
