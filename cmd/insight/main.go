package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"insight/internal/config"
	"insight/internal/domain"
	"insight/internal/feedsource"
	"insight/internal/pipeline"
	"insight/internal/sentiment"
	"insight/internal/store"
	"insight/internal/store/memory"
	"insight/internal/store/sqlite"
	"insight/internal/textnorm"
	"insight/internal/trainer"
	"insight/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, recordsPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/insight/config.yaml if not provided)")
	flag.StringVar(&recordsPath, "records", "", "Path to a JSON file of feedback records; retrains before opening the browser")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// Assemble components
	norm, err := textnorm.New()
	if err != nil {
		log.Fatalf("normalizer init failed: %v", err)
	}

	var st store.Store
	switch cfg.Store.Type {
	case "sqlite", "":
		st, err = sqlite.Open(cfg.Store.Path)
		if err != nil {
			log.Fatalf("failed to open store: %v", err)
		}
	case "memory":
		st = memory.NewStorage()
	default:
		log.Fatalf("unknown store: %s", cfg.Store.Type)
	}
	defer st.Close()

	scorer := sentiment.NewScorer()
	tr := trainer.New(norm, cfg.Thresholds, cfg.Trainer, 5)

	var source domain.RecordSource
	if recordsPath != "" {
		source = feedsource.NewFileSource(recordsPath)
	}
	p := pipeline.New(source, st, scorer, tr, cfg, logger)

	header := "Browsing stored results"
	if recordsPath != "" {
		summary, err := p.TrainAll(context.Background())
		if err != nil {
			log.Fatalf("pipeline failed: %v", err)
		}
		header = fmt.Sprintf("Run %s: %d records, %d trained, %d skipped",
			summary.RunID, summary.Records, summary.Trained, summary.Skipped)
	}

	m := tui.New(p, header)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
