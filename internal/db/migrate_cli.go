package db

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

// MigrateUsage describes the migrate subcommand.
const MigrateUsage = `usage: migrate <action>

actions:
  up           apply all pending migrations
  down         roll back the most recent migration
  status       show the applied and latest versions
  force <n>    record version n and clear the dirty flag (recovery only)`

// RunMigrateCommand runs one migrate action against the database at dbPath
// and reports the resulting version to out.
func RunMigrateCommand(args []string, dbPath string, out io.Writer) error {
	if len(args) < 1 {
		return errors.New(MigrateUsage)
	}

	database, err := OpenDB(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	switch action := args[0]; action {
	case "up":
		if err := database.MigrateUp(); err != nil {
			return err
		}
	case "down":
		if err := database.MigrateDown(); err != nil {
			return err
		}
	case "status":
	case "force":
		if len(args) < 2 {
			return errors.New("usage: migrate force <version>")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil || v < 0 {
			return fmt.Errorf("invalid version number: %s", args[1])
		}
		if err := database.MigrateForce(v); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown migrate action %q\n\n%s", action, MigrateUsage)
	}
	return printMigrateStatus(database, out)
}

func printMigrateStatus(database *DB, out io.Writer) error {
	version, dirty, err := database.MigrateVersion()
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}
	latest, err := LatestMigrationVersion()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Current version: %d\n", version)
	fmt.Fprintf(out, "Latest available: %d\n", latest)
	fmt.Fprintf(out, "Dirty: %v\n", dirty)
	switch {
	case dirty:
		fmt.Fprintln(out, "Database is in a dirty state; inspect it, then run: migrate force <version>")
	case version < latest:
		fmt.Fprintf(out, "Database is %d version(s) behind; run: migrate up\n", latest-version)
	}
	return nil
}
