// Package sqlite is the durable result store. Each retrain replaces all
// derived results in a single transaction, so readers only ever observe a
// fully committed result set and results survive process restarts.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"insight/internal/domain"
	"insight/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS importance_results (
	category    TEXT NOT NULL,
	polarity    TEXT NOT NULL,
	keywords    TEXT NOT NULL,
	r2          REAL NOT NULL,
	mae         REAL NOT NULL,
	rmse        REAL NOT NULL,
	sample_size INTEGER NOT NULL,
	trained_at  TEXT NOT NULL,
	PRIMARY KEY (category, polarity)
);
CREATE TABLE IF NOT EXISTS section_ranking (
	id                INTEGER PRIMARY KEY CHECK (id = 1),
	sorted_categories TEXT NOT NULL,
	importance        TEXT NOT NULL,
	r2                REAL NOT NULL,
	mae               REAL NOT NULL,
	trained_at        TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS overall_keywords (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	keywords   TEXT NOT NULL,
	trained_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sentiment_results (
	record_id   TEXT PRIMARY KEY,
	compound    REAL NOT NULL,
	positive    REAL NOT NULL,
	neutral     REAL NOT NULL,
	negative    REAL NOT NULL,
	label       TEXT NOT NULL,
	confidence  REAL NOT NULL,
	analyzed_at TEXT NOT NULL
);
`

// Storage implements store.Store on a local SQLite database.
type Storage struct {
	db *sql.DB
}

func Open(path string) (*Storage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY
	// between the replace transaction and sentiment upserts.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA foreign_keys=ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure sqlite store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Close() error { return s.db.Close() }

// ReplaceDerived deletes every derived result and inserts the new set in one
// transaction.
func (s *Storage) ReplaceDerived(ctx context.Context, results []domain.ImportanceResult, ranking *domain.SectionImportanceRanking, overall domain.OverallKeywordSet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"importance_results", "section_ranking", "overall_keywords"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	for _, r := range results {
		keywords, err := json.Marshal(r.Keywords)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO importance_results (category, polarity, keywords, r2, mae, rmse, sample_size, trained_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.Category, string(r.Polarity), string(keywords), r.R2, r.MAE, r.RMSE, r.SampleSize,
			r.TrainedAt.Format(time.RFC3339Nano))
		if err != nil {
			return err
		}
	}
	if ranking != nil {
		sorted, err := json.Marshal(ranking.SortedCategories)
		if err != nil {
			return err
		}
		importance, err := json.Marshal(ranking.Importance)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO section_ranking (id, sorted_categories, importance, r2, mae, trained_at)
			 VALUES (1, ?, ?, ?, ?, ?)`,
			string(sorted), string(importance), ranking.R2, ranking.MAE,
			ranking.TrainedAt.Format(time.RFC3339Nano))
		if err != nil {
			return err
		}
	}
	if overall != nil {
		keywords, err := json.Marshal(overall)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO overall_keywords (id, keywords, trained_at) VALUES (1, ?, ?)",
			string(keywords), time.Now().UTC().Format(time.RFC3339Nano))
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Storage) GetLatest(ctx context.Context, category string, polarity domain.Polarity) (*domain.ImportanceResult, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT keywords, r2, mae, rmse, sample_size, trained_at
		 FROM importance_results WHERE category = ? AND polarity = ?`,
		category, string(polarity))
	var keywordsJSON, trainedAt string
	result := domain.ImportanceResult{Category: category, Polarity: polarity}
	err := row.Scan(&keywordsJSON, &result.R2, &result.MAE, &result.RMSE, &result.SampleSize, &trainedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(keywordsJSON), &result.Keywords); err != nil {
		return nil, err
	}
	result.TrainedAt, err = time.Parse(time.RFC3339Nano, trainedAt)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Storage) GetOverallRanking(ctx context.Context) (*domain.SectionImportanceRanking, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT sorted_categories, importance, r2, mae, trained_at FROM section_ranking WHERE id = 1")
	var sortedJSON, importanceJSON, trainedAt string
	var ranking domain.SectionImportanceRanking
	err := row.Scan(&sortedJSON, &importanceJSON, &ranking.R2, &ranking.MAE, &trainedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(sortedJSON), &ranking.SortedCategories); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(importanceJSON), &ranking.Importance); err != nil {
		return nil, err
	}
	ranking.TrainedAt, err = time.Parse(time.RFC3339Nano, trainedAt)
	if err != nil {
		return nil, err
	}
	return &ranking, nil
}

func (s *Storage) GetOverallKeywords(ctx context.Context) (domain.OverallKeywordSet, error) {
	row := s.db.QueryRowContext(ctx, "SELECT keywords FROM overall_keywords WHERE id = 1")
	var keywordsJSON string
	err := row.Scan(&keywordsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var keywords domain.OverallKeywordSet
	if err := json.Unmarshal([]byte(keywordsJSON), &keywords); err != nil {
		return nil, err
	}
	return keywords, nil
}

func (s *Storage) UpsertSentiment(ctx context.Context, recordID string, result domain.SentimentResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sentiment_results (record_id, compound, positive, neutral, negative, label, confidence, analyzed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (record_id) DO UPDATE SET
			compound = excluded.compound,
			positive = excluded.positive,
			neutral = excluded.neutral,
			negative = excluded.negative,
			label = excluded.label,
			confidence = excluded.confidence,
			analyzed_at = excluded.analyzed_at`,
		recordID, result.Compound, result.Positive, result.Neutral, result.Negative,
		string(result.Label), result.Confidence, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

func (s *Storage) GetSentiment(ctx context.Context, recordID string) (*domain.SentimentResult, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT compound, positive, neutral, negative, label, confidence
		 FROM sentiment_results WHERE record_id = ?`, recordID)
	var result domain.SentimentResult
	var label string
	err := row.Scan(&result.Compound, &result.Positive, &result.Neutral, &result.Negative, &label, &result.Confidence)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	result.Label = domain.SentimentLabel(label)
	return &result, nil
}
