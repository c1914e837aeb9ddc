package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/registra/records-api/internal/clustering"
	"github.com/registra/records-api/internal/repository"
	"github.com/registra/records-api/pkg/config"
	"github.com/registra/records-api/pkg/database"
	"github.com/registra/records-api/pkg/logger"
)

func main() {
	limit := flag.Int("limit", 100, "number of students to sample")
	timeout := flag.Duration("timeout", time.Minute, "overall diagnostic timeout")
	flag.Parse()

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

	students, err := repository.NewStudentRepository(db).ListFeatures(ctx, *limit)
	if err != nil {
		logr.Sugar().Fatalw("failed to load student features", "error", err)
	}
	if len(students) == 0 {
		fmt.Println("no students found, nothing to diagnose")
		return
	}

	client := clustering.NewClient(cfg.Clustering.ServiceURL, cfg.Clustering.Timeout, logr)
	assignments, err := client.Assign(ctx, students)
	if err != nil {
		logr.Sugar().Fatalw("clustering request failed", "error", err)
	}

	report := clustering.Diagnose(students, assignments)

	fmt.Printf("students sampled: %d\n", report.StudentCount)
	fmt.Println("cluster distribution:")
	labels := make([]string, 0, len(report.Distribution))
	for label := range report.Distribution {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Printf("  %-24s %d\n", label, report.Distribution[label])
	}

	if len(report.Warnings) == 0 {
		fmt.Println("no data quality warnings")
		return
	}
	fmt.Println("warnings:")
	for _, w := range report.Warnings {
		fmt.Printf("  - %s\n", w)
	}
}
