package recommender

import (
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

// SimilarityModel scores item-item similarity from a precomputed sparse
// matrix. Like the affinity model it is read-mostly: concurrent readers,
// with mutations funneled through Record/Replace under the write lock.
type SimilarityModel struct {
	mu    sync.RWMutex
	state *SimilarityState

	interactions map[uuid.UUID]float64
}

func NewSimilarityModel(state *SimilarityState) *SimilarityModel {
	if state == nil {
		state = &SimilarityState{
			ItemVectors: map[uuid.UUID]Vector{},
			Similarity:  map[uuid.UUID]map[uuid.UUID]float64{},
		}
	}
	return &SimilarityModel{
		state:        state,
		interactions: map[uuid.UUID]float64{},
	}
}

// FindSimilar returns up to limit items similar to itemID, sorted descending
// by similarity (ties: item ID ascending). The queried item is excluded by
// construction even when an upstream training bug put it in its own row.
//
// For an item the matrix does not know, the fallback is a uniform sample
// (without replacement) of known items at a neutral score, so the caller
// still receives candidates whenever content exists. An empty result means
// the content universe itself is empty.
func (m *SimilarityModel) FindSimilar(itemID uuid.UUID, limit int) []ScoredItem {
	if limit <= 0 {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	row, known := m.state.Similarity[itemID]
	if !known {
		return m.sampleKnownItems(itemID, limit)
	}

	scores := make([]ScoredItem, 0, len(row))
	for id, score := range row {
		if id == itemID {
			continue
		}
		scores = append(scores, ScoredItem{ItemID: id, Score: score})
	}
	sortByScore(scores)

	if len(scores) > limit {
		scores = scores[:limit]
	}
	return scores
}

// sampleKnownItems draws up to limit items uniformly from the item-vector
// population, excluding the queried item. Caller holds at least the read lock.
func (m *SimilarityModel) sampleKnownItems(itemID uuid.UUID, limit int) []ScoredItem {
	population := make([]uuid.UUID, 0, len(m.state.ItemVectors))
	for id := range m.state.ItemVectors {
		if id == itemID {
			continue
		}
		population = append(population, id)
	}
	if len(population) == 0 {
		return nil
	}

	rand.Shuffle(len(population), func(i, j int) {
		population[i], population[j] = population[j], population[i]
	})
	if len(population) > limit {
		population = population[:limit]
	}

	scores := make([]ScoredItem, len(population))
	for i, id := range population {
		scores[i] = ScoredItem{ItemID: id, Score: NeutralScore}
	}
	return scores
}

// KnownItems reports the size of the content universe.
func (m *SimilarityModel) KnownItems() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.state.ItemVectors)
}

// RecordInteraction registers interest in an item from the event stream;
// recorded weights feed the next offline retrain.
func (m *SimilarityModel) RecordInteraction(itemID uuid.UUID, weight float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, tracked := m.interactions[itemID]; !tracked && len(m.interactions) >= maxTrackedInteractions {
		return
	}
	m.interactions[itemID] += weight
}

// ReplaceState swaps in a freshly loaded model state atomically.
func (m *SimilarityModel) ReplaceState(state *SimilarityState) {
	if state == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
}
