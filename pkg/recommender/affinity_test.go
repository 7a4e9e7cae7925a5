package recommender

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictColdStartUser(t *testing.T) {
	itemA := uuid.New()
	itemB := uuid.New()
	itemC := uuid.New()

	m := NewAffinityModel(&AffinityState{
		UserFactors: map[uuid.UUID]Vector{},
		ItemFactors: map[uuid.UUID]Vector{
			itemA: {0.1, 0.2},
			itemB: {0.3, 0.4},
		},
		GlobalMean: 0.42,
	})

	scores := m.Predict(uuid.New(), []uuid.UUID{itemA, itemB, itemC})
	require.Len(t, scores, 3)
	for _, s := range scores {
		assert.Equal(t, 0.42, s.Score)
	}
}

func TestPredictDotPlusMean(t *testing.T) {
	user := uuid.New()
	known := uuid.New()
	unknown := uuid.New()

	m := NewAffinityModel(&AffinityState{
		UserFactors: map[uuid.UUID]Vector{
			user: {1, 2},
		},
		ItemFactors: map[uuid.UUID]Vector{
			known: {0.5, 0.25},
		},
		GlobalMean: 3.0,
	})

	scores := m.Predict(user, []uuid.UUID{unknown, known})
	require.Len(t, scores, 2)

	// dot([1,2],[0.5,0.25]) + 3.0 = 4.0 beats the global-mean item.
	assert.Equal(t, known, scores[0].ItemID)
	assert.InDelta(t, 4.0, scores[0].Score, 1e-9)
	assert.Equal(t, unknown, scores[1].ItemID)
	assert.InDelta(t, 3.0, scores[1].Score, 1e-9)
}

func TestPredictDimensionMismatchDegradesUniformly(t *testing.T) {
	user := uuid.New()
	itemA := uuid.New()
	itemB := uuid.New()

	m := NewAffinityModel(&AffinityState{
		UserFactors: map[uuid.UUID]Vector{
			user: {1, 2, 3},
		},
		ItemFactors: map[uuid.UUID]Vector{
			itemA: {1, 2},
			itemB: {1, 2, 3},
		},
		GlobalMean: 9.0,
	})

	scores := m.Predict(user, []uuid.UUID{itemA, itemB})
	require.Len(t, scores, 2)
	for _, s := range scores {
		assert.Equal(t, DefaultScore, s.Score)
	}
}

func TestPredictSortsDescendingWithStableTies(t *testing.T) {
	user := uuid.New()
	low := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	high := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	m := NewAffinityModel(&AffinityState{
		UserFactors: map[uuid.UUID]Vector{
			user: {1},
		},
		ItemFactors: map[uuid.UUID]Vector{
			low:  {0.5},
			high: {0.5},
		},
	})

	// Equal scores: the smaller ID must come first, on every call.
	for i := 0; i < 5; i++ {
		scores := m.Predict(user, []uuid.UUID{high, low})
		require.Len(t, scores, 2)
		assert.Equal(t, low, scores[0].ItemID)
		assert.Equal(t, high, scores[1].ItemID)
	}
}

func TestPredictNilStateConstructor(t *testing.T) {
	m := NewAffinityModel(nil)
	scores := m.Predict(uuid.New(), []uuid.UUID{uuid.New()})
	require.Len(t, scores, 1)
	assert.Equal(t, 0.0, scores[0].Score)
}

func TestRecordInteractionAccumulates(t *testing.T) {
	m := NewAffinityModel(nil)
	user := uuid.New()
	item := uuid.New()

	m.RecordInteraction(user, item, 1)
	m.RecordInteraction(user, item, 3)

	stats := m.Stats()
	assert.InDelta(t, 4.0, stats.PendingInteraction, 1e-9)
}

func TestReplaceStateSwapsAtomically(t *testing.T) {
	m := NewAffinityModel(nil)
	user := uuid.New()
	item := uuid.New()

	m.ReplaceState(&AffinityState{
		UserFactors: map[uuid.UUID]Vector{user: {1}},
		ItemFactors: map[uuid.UUID]Vector{item: {2}},
		GlobalMean:  1.0,
	})

	scores := m.Predict(user, []uuid.UUID{item})
	require.Len(t, scores, 1)
	assert.InDelta(t, 3.0, scores[0].Score, 1e-9)

	// Nil replacement is ignored.
	m.ReplaceState(nil)
	assert.Equal(t, 1, m.Stats().Users)
}
