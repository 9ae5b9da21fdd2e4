// Command seed_db writes asteroid records into the SQLite database used by
// the sqlite dataset source.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"neowatch/config"
	"neowatch/db"
	"neowatch/logger"
	"neowatch/pipeline"
)

func main() {
	dbPath := flag.String("db", "./data/asteroids.db", "sqlite database path")
	csvPath := flag.String("csv", "", "CSV file to import (default: built-in sample records)")
	clearFirst := flag.Bool("clear", false, "delete existing records first")
	flag.Parse()

	log, err := logger.Init(config.LogConfig{Level: "info"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	source := config.DatasetConfig{Source: config.SourceSample}
	if *csvPath != "" {
		source = config.DatasetConfig{Source: config.SourceCSV, Path: *csvPath}
	}
	dataset, err := pipeline.NewDataIngester(source, log).Load(context.Background())
	if err != nil {
		log.Fatal("failed to load records", zap.Error(err))
	}
	records := dataset.Records()

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0o755); err != nil {
		log.Fatal("failed to create database dir", zap.Error(err))
	}
	if err := db.InitDB(*dbPath); err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if *clearFirst {
		if err := db.ClearAsteroids(); err != nil {
			log.Fatal("failed to clear records", zap.Error(err))
		}
	}
	if err := db.SaveAsteroids(records); err != nil {
		log.Fatal("failed to save records", zap.Error(err))
	}

	fmt.Printf("wrote %d records to %s\n", len(records), *dbPath)
}
