package classifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spec-kit/hr-triage-service/internal/domain"
)

// errNoResult marks a body that parsed but matched none of the known shapes.
var errNoResult = errors.New("no classification in response")

// labelScore is one entry of the list shapes.
type labelScore struct {
	Label *string  `json:"label"`
	Score *float64 `json:"score"`
}

// labelsScores is the parallel-array shape.
type labelsScores struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// parseResponse accepts:
//
//	[{"label": "PTO", "score": 0.9}, ...]
//	[[{"label": "PTO", "score": 0.9}, ...]]
//	{"labels": ["PTO", ...], "scores": [0.9, ...]}
//
// and returns the first (highest ranked) entry.
func parseResponse(body []byte) (*domain.Classification, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, errNoResult
	}

	switch body[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		if len(items) == 0 {
			return nil, errNoResult
		}
		first := bytes.TrimSpace(items[0])
		if len(first) > 0 && first[0] == '[' {
			return parseResponse(first)
		}
		var entry labelScore
		if err := json.Unmarshal(first, &entry); err != nil {
			return nil, fmt.Errorf("decode entry: %w", err)
		}
		if entry.Label == nil || entry.Score == nil {
			return nil, errNoResult
		}
		return &domain.Classification{Category: domain.Category(*entry.Label), Confidence: *entry.Score}, nil
	case '{':
		var parallel labelsScores
		if err := json.Unmarshal(body, &parallel); err != nil {
			return nil, fmt.Errorf("decode object: %w", err)
		}
		if len(parallel.Labels) == 0 || len(parallel.Scores) == 0 {
			return nil, errNoResult
		}
		return &domain.Classification{Category: domain.Category(parallel.Labels[0]), Confidence: parallel.Scores[0]}, nil
	default:
		return nil, errNoResult
	}
}
