package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ThresholdConfig holds the score boundaries that define polarity buckets.
type ThresholdConfig struct {
	StrengthMin float64 `yaml:"strength_min"`
	LackingMax  float64 `yaml:"lacking_max"`
}

// TrainerConfig configures the per-bucket importance models.
type TrainerConfig struct {
	MinSamples   int     `yaml:"min_samples"`
	Trees        int     `yaml:"trees"`
	Seed         int64   `yaml:"seed"`
	TestFraction float64 `yaml:"test_fraction"`
	MaxFeatures  int     `yaml:"max_features"`
	MinDocFreq   int     `yaml:"min_doc_freq"`
}

// DedupConfig configures cross-category keyword deduplication.
type DedupConfig struct {
	CommonVocabularySize    int     `yaml:"common_vocabulary_size"`
	OverallKeywordCount     int     `yaml:"overall_keyword_count"`
	SpecializationThreshold float64 `yaml:"specialization_threshold"`
	MinKeywords             int     `yaml:"min_keywords"`
}

// StoreConfig selects and configures the result store implementation.
type StoreConfig struct {
	Type string `yaml:"type"` // "sqlite" or "memory"
	Path string `yaml:"path,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Categories []string        `yaml:"categories"`
	Thresholds ThresholdConfig `yaml:"thresholds"`
	Trainer    TrainerConfig   `yaml:"trainer"`
	Dedup      DedupConfig     `yaml:"dedup"`
	Store      StoreConfig     `yaml:"store"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/insight/config.yaml.
// If neither exists, it writes defaults to ~/.config/insight/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "insight", "config.yaml"), nil
}

// DefaultCategories are the six fixed feedback dimensions.
func DefaultCategories() []string {
	return []string{
		"Compensation & Benefits",
		"Work-Life Balance",
		"Culture & Values",
		"Diversity & Inclusion",
		"Career Development",
		"Management & Leadership",
	}
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Categories: DefaultCategories(),
		Thresholds: ThresholdConfig{StrengthMin: 4.0, LackingMax: 3.0},
		Trainer: TrainerConfig{
			MinSamples:   10,
			Trees:        100,
			Seed:         42,
			TestFraction: 0.2,
			MaxFeatures:  200,
			MinDocFreq:   2,
		},
		Dedup: DedupConfig{
			CommonVocabularySize:    35,
			OverallKeywordCount:     10,
			SpecializationThreshold: 1.0,
			MinKeywords:             5,
		},
		Store: StoreConfig{Type: "sqlite", Path: "insight.db"},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if len(cfg.Categories) == 0 {
		cfg.Categories = def.Categories
	}
	if cfg.Thresholds.StrengthMin == 0 {
		cfg.Thresholds.StrengthMin = def.Thresholds.StrengthMin
	}
	if cfg.Thresholds.LackingMax == 0 {
		cfg.Thresholds.LackingMax = def.Thresholds.LackingMax
	}
	if cfg.Trainer.MinSamples == 0 {
		cfg.Trainer.MinSamples = def.Trainer.MinSamples
	}
	if cfg.Trainer.Trees == 0 {
		cfg.Trainer.Trees = def.Trainer.Trees
	}
	if cfg.Trainer.Seed == 0 {
		cfg.Trainer.Seed = def.Trainer.Seed
	}
	if cfg.Trainer.TestFraction == 0 {
		cfg.Trainer.TestFraction = def.Trainer.TestFraction
	}
	if cfg.Trainer.MaxFeatures == 0 {
		cfg.Trainer.MaxFeatures = def.Trainer.MaxFeatures
	}
	if cfg.Trainer.MinDocFreq == 0 {
		cfg.Trainer.MinDocFreq = def.Trainer.MinDocFreq
	}
	if cfg.Dedup.CommonVocabularySize == 0 {
		cfg.Dedup.CommonVocabularySize = def.Dedup.CommonVocabularySize
	}
	if cfg.Dedup.OverallKeywordCount == 0 {
		cfg.Dedup.OverallKeywordCount = def.Dedup.OverallKeywordCount
	}
	if cfg.Dedup.SpecializationThreshold == 0 {
		cfg.Dedup.SpecializationThreshold = def.Dedup.SpecializationThreshold
	}
	if cfg.Dedup.MinKeywords == 0 {
		cfg.Dedup.MinKeywords = def.Dedup.MinKeywords
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = def.Store.Type
	}
	if cfg.Store.Type == "sqlite" && cfg.Store.Path == "" {
		cfg.Store.Path = def.Store.Path
	}
}
