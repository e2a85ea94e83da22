package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"ordersync/internal/admincli"
	"ordersync/internal/config"
	"ordersync/internal/infra/db"
	infraRepo "ordersync/internal/infra/repository"
	"ordersync/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadDatabase()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	//標準出力はコマンドの結果に使うのでログはstderrへ
	log := logger.NewWithSyncer(logger.Config{Level: cfg.LogLevel, Format: "console"}, os.Stderr)
	defer func() { _ = log.Sync() }()

	gormDB, err := db.Connect(cfg, logger.NewGormLogger(log, logger.GormLevel("warn")))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := db.Migrate(gormDB); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cli := admincli.New(
		infraRepo.NewOrderGormRepository(gormDB),
		infraRepo.NewShopSessionGormRepository(gormDB),
		os.Stdout,
		log,
	)
	if err := cli.Run(context.Background(), os.Args[1:]); err != nil {
		if errors.Is(err, admincli.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
