// Command dbcheck verifies that the configured database is reachable and
// migrated, and reports row counts for the service's tables.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/you/studiosvc/internal/config"
	"github.com/you/studiosvc/internal/infrastructure/database"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "dbcheck: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fmt.Printf("Connecting with driver %s\n", cfg.DBDriver)

	db, err := database.Open(cfg.DBDriver, cfg.DSN, cfg.DBLogLevel)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(context.Background()); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	fmt.Println("ok   connection")

	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	fmt.Println("ok   migrations")

	for _, table := range []string{"users", "portfolio_items", "blog_posts", "bookings", "inquiries", "casbin_rule"} {
		var n int64
		if err := db.Table(table).Count(&n).Error; err != nil {
			return fmt.Errorf("count %s: %w", table, err)
		}
		fmt.Printf("ok   %-16s %d rows\n", table, n)
	}

	redis := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer redis.Close()
	if err := redis.Ping(context.Background()); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	fmt.Println("ok   redis")
	return nil
}
