// Package recommender holds the in-memory scoring models behind the
// recommendation service: a factorized user/item affinity model
// (collaborative filtering) and an item-item similarity model
// (content-based). Model state is read-mostly and safe for concurrent
// readers; the ingestion pipeline mutates it through the Record* methods.
package recommender

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Vector is a dense factor or feature vector. All vectors inside one model
// state share the same dimensionality.
type Vector []float64

const (
	// DefaultScore is the uniform score assigned to every candidate when a
	// prediction cannot be computed. Scoring is total: callers always get a
	// usable (if uninformative) ranking.
	DefaultScore = 0.5

	// NeutralScore is the placeholder score for candidates produced by
	// fallback sampling, where no similarity signal exists.
	NeutralScore = 0.5
)

// ScoredItem is a candidate product paired with its score before final
// ranking and truncation.
type ScoredItem struct {
	ItemID uuid.UUID `json:"item_id"`
	Score  float64   `json:"score"`
}

// dot computes the inner product of two vectors. A dimension mismatch is a
// contract violation between training and serving, never coerced.
func dot(a, b Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("recommender: vector dimension mismatch (%d vs %d)", len(a), len(b))
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum, nil
}

// sortByScore orders candidates descending by score. Ties break on item ID
// ascending so repeated calls over unchanged state are reproducible.
func sortByScore(items []ScoredItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ItemID.String() < items[j].ItemID.String()
	})
}
