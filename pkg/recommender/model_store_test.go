package recommender

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce-recs-be/internal/pkg/logger"
)

func writeArtifact(t *testing.T, dir, file string, art interface{}) {
	t.Helper()
	raw, err := json.Marshal(art)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), raw, 0o644))
}

func TestLoadAffinityMissingFile(t *testing.T) {
	store := NewModelStore(t.TempDir(), logger.NewNopLogger())

	state := store.LoadAffinity()
	require.NotNil(t, state)
	assert.Empty(t, state.UserFactors)
	assert.Empty(t, state.ItemFactors)
	assert.Equal(t, 0.0, state.GlobalMean)
}

func TestLoadAffinityCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "affinity_model.json"), []byte("{not json"), 0o644))
	store := NewModelStore(dir, logger.NewNopLogger())

	state := store.LoadAffinity()
	require.NotNil(t, state)
	assert.Empty(t, state.UserFactors)
}

func TestLoadAffinityVersionMismatch(t *testing.T) {
	dir := t.TempDir()
	user := uuid.New()
	writeArtifact(t, dir, "affinity_model.json", map[string]interface{}{
		"version": 99,
		"kind":    KindAffinity,
		"model": AffinityState{
			UserFactors: map[uuid.UUID]Vector{user: {1}},
			ItemFactors: map[uuid.UUID]Vector{},
			GlobalMean:  2.5,
		},
	})
	store := NewModelStore(dir, logger.NewNopLogger())

	state := store.LoadAffinity()
	assert.Empty(t, state.UserFactors)
	assert.Equal(t, 0.0, state.GlobalMean)
}

func TestLoadAffinityKindMismatch(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "affinity_model.json", map[string]interface{}{
		"version": artifactVersion,
		"kind":    KindSimilarity,
		"model":   AffinityState{},
	})
	store := NewModelStore(dir, logger.NewNopLogger())

	state := store.LoadAffinity()
	assert.Empty(t, state.UserFactors)
}

func TestLoadAffinityPartialPayloadYieldsEmptyState(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "affinity_model.json", map[string]interface{}{
		"version": artifactVersion,
		"kind":    KindAffinity,
		"model": map[string]interface{}{
			"user_factors": map[string]interface{}{uuid.NewString(): []float64{1, 2}},
			"item_factors": map[string]interface{}{uuid.NewString(): "bad"},
			"global_mean":  0.9,
		},
	})
	store := NewModelStore(dir, logger.NewNopLogger())

	// Unmarshal fills fields it decoded before hitting the bad one; none of
	// that may leak out.
	state := store.LoadAffinity()
	assert.Empty(t, state.UserFactors)
	assert.Empty(t, state.ItemFactors)
	assert.Equal(t, 0.0, state.GlobalMean)
}

func TestLoadSimilarityPartialPayloadYieldsEmptyState(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "similarity_model.json", map[string]interface{}{
		"version": artifactVersion,
		"kind":    KindSimilarity,
		"model": map[string]interface{}{
			"item_vectors": map[string]interface{}{uuid.NewString(): []float64{1}},
			"similarity":   "bad",
		},
	})
	store := NewModelStore(dir, logger.NewNopLogger())

	state := store.LoadSimilarity()
	assert.Empty(t, state.ItemVectors)
	assert.Empty(t, state.Similarity)
}

func TestLoadAffinityValidArtifact(t *testing.T) {
	dir := t.TempDir()
	user := uuid.New()
	item := uuid.New()
	writeArtifact(t, dir, "affinity_model.json", map[string]interface{}{
		"version": artifactVersion,
		"kind":    KindAffinity,
		"model": AffinityState{
			UserFactors: map[uuid.UUID]Vector{user: {1, 2}},
			ItemFactors: map[uuid.UUID]Vector{item: {3, 4}},
			GlobalMean:  3.7,
		},
	})
	store := NewModelStore(dir, logger.NewNopLogger())

	state := store.LoadAffinity()
	require.Contains(t, state.UserFactors, user)
	assert.Equal(t, Vector{1, 2}, state.UserFactors[user])
	assert.Equal(t, Vector{3, 4}, state.ItemFactors[item])
	assert.Equal(t, 3.7, state.GlobalMean)
}

func TestLoadSimilarityValidArtifact(t *testing.T) {
	dir := t.TempDir()
	a := uuid.New()
	b := uuid.New()
	writeArtifact(t, dir, "similarity_model.json", map[string]interface{}{
		"version": artifactVersion,
		"kind":    KindSimilarity,
		"model": SimilarityState{
			ItemVectors: map[uuid.UUID]Vector{a: {1}, b: {2}},
			Similarity:  map[uuid.UUID]map[uuid.UUID]float64{a: {b: 0.8}},
		},
	})
	store := NewModelStore(dir, logger.NewNopLogger())

	state := store.LoadSimilarity()
	require.Len(t, state.ItemVectors, 2)
	assert.Equal(t, 0.8, state.Similarity[a][b])
}

func TestLoadSimilarityMissingFile(t *testing.T) {
	store := NewModelStore(t.TempDir(), logger.NewNopLogger())

	state := store.LoadSimilarity()
	require.NotNil(t, state)
	assert.Empty(t, state.ItemVectors)
	assert.Empty(t, state.Similarity)
}
