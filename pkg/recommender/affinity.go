package recommender

import (
	"sync"

	"github.com/google/uuid"
)

// maxTrackedInteractions bounds the in-memory interaction log so a busy
// stream cannot grow the model process without limit.
const maxTrackedInteractions = 100000

// AffinityModel scores (user, item) pairs from learned factor vectors.
// Readers share the state concurrently; the ingestion pipeline records
// interactions and may swap in a freshly loaded state wholesale.
type AffinityModel struct {
	mu    sync.RWMutex
	state *AffinityState

	// interactions accumulates weighted nudges per item since the last
	// retrain. This is the minimal online-update contract: the signal is
	// recorded for the next offline training run rather than folded into
	// the factors live.
	interactions map[uuid.UUID]float64
}

func NewAffinityModel(state *AffinityState) *AffinityModel {
	if state == nil {
		state = &AffinityState{
			UserFactors: map[uuid.UUID]Vector{},
			ItemFactors: map[uuid.UUID]Vector{},
		}
	}
	return &AffinityModel{
		state:        state,
		interactions: map[uuid.UUID]float64{},
	}
}

// Predict scores every candidate for the given user and returns them sorted
// descending by score (ties: item ID ascending). It is total over its input:
// an unknown user or item scores at the global mean (cold start is a normal
// branch, not an error), and a factor-dimension mismatch downgrades the
// whole prediction to a uniform default score.
func (m *AffinityModel) Predict(userID uuid.UUID, candidates []uuid.UUID) []ScoredItem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	scores := make([]ScoredItem, 0, len(candidates))

	userVector, known := m.state.UserFactors[userID]
	if !known {
		for _, id := range candidates {
			scores = append(scores, ScoredItem{ItemID: id, Score: m.state.GlobalMean})
		}
		sortByScore(scores)
		return scores
	}

	for _, id := range candidates {
		itemVector, ok := m.state.ItemFactors[id]
		if !ok {
			scores = append(scores, ScoredItem{ItemID: id, Score: m.state.GlobalMean})
			continue
		}
		product, err := dot(userVector, itemVector)
		if err != nil {
			// Broken training artifact; degrade the whole call rather than
			// serve a ranking computed from half the candidates.
			return uniformScores(candidates)
		}
		scores = append(scores, ScoredItem{ItemID: id, Score: product + m.state.GlobalMean})
	}

	sortByScore(scores)
	return scores
}

func uniformScores(candidates []uuid.UUID) []ScoredItem {
	scores := make([]ScoredItem, len(candidates))
	for i, id := range candidates {
		scores[i] = ScoredItem{ItemID: id, Score: DefaultScore}
	}
	sortByScore(scores)
	return scores
}

// GlobalMean returns the trained baseline score.
func (m *AffinityModel) GlobalMean() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.GlobalMean
}

// RecordInteraction registers a weighted user/item interaction from the
// event stream. Safe to call while Predict runs on other goroutines.
func (m *AffinityModel) RecordInteraction(userID, itemID uuid.UUID, weight float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, tracked := m.interactions[itemID]; !tracked && len(m.interactions) >= maxTrackedInteractions {
		return
	}
	m.interactions[itemID] += weight
}

// ReplaceState swaps in a freshly loaded model state as one atomic unit, so
// readers never observe a partially updated model.
func (m *AffinityModel) ReplaceState(state *AffinityState) {
	if state == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
}

// Stats reports model population for health and observability surfaces.
func (m *AffinityModel) Stats() ModelStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var pending float64
	for _, w := range m.interactions {
		pending += w
	}
	return ModelStats{
		Users:              len(m.state.UserFactors),
		Items:              len(m.state.ItemFactors),
		PendingInteraction: pending,
	}
}

// ModelStats summarizes the live model population.
type ModelStats struct {
	Users              int
	Items              int
	PendingInteraction float64
}
