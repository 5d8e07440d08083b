package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/angelmondragon/doccart/pkg/config"
	"github.com/angelmondragon/doccart/pkg/db"
	"github.com/angelmondragon/doccart/pkg/logger"
	"github.com/angelmondragon/doccart/pkg/migrate"
	"github.com/joho/godotenv"
)

// gooseCommands are forwarded verbatim to goose.
var gooseCommands = map[string]bool{
	"up":      true,
	"down":    true,
	"redo":    true,
	"status":  true,
	"version": true,
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: up|down|redo|status|version|to|create|validate")
	dir := flag.String("dir", "", "migrations directory on disk; empty uses the set embedded in the binary")
	name := flag.String("name", "", "migration name (for -cmd=create)")
	target := flag.String("target", "", "target version YYYYMMDDHHMMSS (for -cmd=to)")
	flag.Parse()

	// create and validate work on files only, so they run before config.
	switch *cmd {
	case "create":
		if *name == "" {
			fail("missing -name for create")
		}
		out := *dir
		if out == "" {
			out = migrate.DefaultDir
		}
		path, err := migrate.CreateSQLMigration(out, *name)
		if err != nil {
			fail("failed to create migration: %v", err)
		}
		fmt.Println("created migration:", path)
		return
	case "validate":
		if err := migrate.ValidateDir(*dir); err != nil {
			fail("migration validation failed: %v", err)
		}
		fmt.Println("migration validation passed")
		return
	}

	if !gooseCommands[*cmd] && *cmd != "to" {
		fail("unknown -cmd value: %s", *cmd)
	}

	cfg, err := config.Load()
	requireResource(logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
		"dir": *dir,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(logg, "database", err)
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	requireResource(logg, "sql database", err)

	if *cmd == "to" {
		if *target == "" {
			fail("missing -target for -cmd=to")
		}
		if err := migrate.MigrateToVersion(ctx, sqlDB, *dir, *target); err != nil {
			fail("goose migrate to %s failed: %v", *target, err)
		}
		logg.Info(ctx, "migrated to target version")
		return
	}

	if err := migrate.Run(ctx, sqlDB, *dir, *cmd); err != nil {
		fail("goose %s failed: %v", *cmd, err)
	}
	logg.Info(ctx, "migration command completed")
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
