package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/registra/records-api/internal/importer"
	"github.com/registra/records-api/pkg/config"
	"github.com/registra/records-api/pkg/database"
	"github.com/registra/records-api/pkg/logger"
)

func main() {
	programs := flag.String("programs", "", "path to programs.csv")
	specs := flag.String("specializations", "", "path to program_specializations.csv")
	courses := flag.String("courses", "", "path to courses.csv")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall import timeout")
	flag.Parse()

	if *programs == "" || *specs == "" || *courses == "" {
		fmt.Fprintln(os.Stderr, "usage: importcsv -programs <programs.csv> -specializations <specs.csv> -courses <courses.csv>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	summary, err := importer.New(db, logr).Run(ctx, *programs, *specs, *courses)
	if err != nil {
		logr.Sugar().Fatalw("import failed", "error", err)
	}

	logr.Sugar().Infow("import completed",
		"programs", summary.Programs,
		"specializations", summary.Specializations,
		"courses", summary.Courses)
}
