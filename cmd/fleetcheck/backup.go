package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/thisdougb/fleetcheck/internal/config"
	"github.com/thisdougb/fleetcheck/internal/storage"
)

func runBackup(ctx context.Context, args []string, stdout, stderr io.Writer) (err error) {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	fs.SetOutput(stderr)
	list := fs.Bool("list", false, "list existing backups")
	restore := fs.String("restore", "", "restore this backup file over FLEET_DB_PATH")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	storeCfg, err := storage.LoadConfig()
	if err != nil {
		return err
	}

	switch {
	case *list:
		backups, err := storage.ListBackups(&storeCfg.Backup)
		if err != nil {
			return err
		}
		for _, b := range backups {
			fmt.Fprintln(stdout, b)
		}
		return nil

	case *restore != "":
		if err := storage.RestoreDatabase(*restore, storeCfg.DBPath, &storeCfg.Backup); err != nil {
			return err
		}
		config.LogInfo(ctx, "restored "+*restore+" to "+storeCfg.DBPath)
		return nil
	}

	if storeCfg.Kind != storage.KindSQLite {
		return fmt.Errorf("backups need FLEET_STORE=sqlite, store is %q", storeCfg.Kind)
	}

	store, err := storage.NewManagerFromConfig(storeCfg)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, store.Close())
	}()

	path, err := store.Backup(&storeCfg.Backup)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, path)
	return nil
}
