// Package feedsource loads feedback records from files exported by the
// ingestion layer.
package feedsource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"insight/internal/domain"
)

type fileRecord struct {
	ID             string             `json:"id"`
	Text           string             `json:"text"`
	CategoryScores map[string]float64 `json:"category_scores"`
	SubmittedAt    time.Time          `json:"submitted_at"`
	Complete       bool               `json:"complete"`
}

// FileSource reads a JSON array of feedback records from a single file.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// ListComplete returns every record marked complete, in file order.
func (s *FileSource) ListComplete(ctx context.Context) ([]domain.FeedbackRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	var raw []fileRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	records := make([]domain.FeedbackRecord, 0, len(raw))
	for _, r := range raw {
		if !r.Complete {
			continue
		}
		records = append(records, domain.FeedbackRecord{
			ID:             r.ID,
			Text:           r.Text,
			CategoryScores: r.CategoryScores,
			SubmittedAt:    r.SubmittedAt,
			Complete:       r.Complete,
		})
	}
	return records, nil
}
