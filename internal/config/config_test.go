package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg, defaultConfig()) {
		t.Errorf("Load = %+v, want defaults", cfg)
	}
}

func TestDefaults(t *testing.T) {
	cfg := defaultConfig()
	if len(cfg.Categories) != 6 {
		t.Errorf("default categories = %d, want 6", len(cfg.Categories))
	}
	if cfg.Thresholds.StrengthMin != 4.0 || cfg.Thresholds.LackingMax != 3.0 {
		t.Errorf("thresholds = %+v", cfg.Thresholds)
	}
	if cfg.Trainer.MinSamples != 10 || cfg.Trainer.Trees != 100 || cfg.Trainer.Seed != 42 {
		t.Errorf("trainer = %+v", cfg.Trainer)
	}
	if cfg.Dedup.CommonVocabularySize != 35 || cfg.Dedup.OverallKeywordCount != 10 {
		t.Errorf("dedup = %+v", cfg.Dedup)
	}
	if cfg.Store.Type != "sqlite" || cfg.Store.Path == "" {
		t.Errorf("store = %+v", cfg.Store)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := defaultConfig()
	want.Trainer.Trees = 50
	want.Store = StoreConfig{Type: "memory"}

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Trainer.Trees != 50 {
		t.Errorf("Trees = %d, want 50", got.Trainer.Trees)
	}
	if got.Store.Type != "memory" {
		t.Errorf("Store.Type = %q, want memory", got.Store.Type)
	}
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := "trainer:\n  trees: 25\n"
	if err := os.WriteFile(path, []byte(partial), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Trainer.Trees != 25 {
		t.Errorf("Trees = %d, want 25", cfg.Trainer.Trees)
	}
	if cfg.Trainer.MinSamples != 10 {
		t.Errorf("MinSamples = %d, want default 10", cfg.Trainer.MinSamples)
	}
	if len(cfg.Categories) != 6 {
		t.Errorf("categories not defaulted: %v", cfg.Categories)
	}
	if cfg.Store.Type != "sqlite" || cfg.Store.Path != "insight.db" {
		t.Errorf("store not defaulted: %+v", cfg.Store)
	}
}
