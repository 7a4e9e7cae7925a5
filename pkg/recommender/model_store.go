package recommender

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ecommerce-recs-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// Model artifact kinds. Each kind maps to one serialized file under the
// configured model directory.
const (
	KindAffinity   = "affinity"
	KindSimilarity = "similarity"
)

// artifactVersion is the private wire contract between offline training and
// serving. Serving rejects any artifact written for a different version
// instead of misinterpreting its bytes.
const artifactVersion = 1

var artifactFiles = map[string]string{
	KindAffinity:   "affinity_model.json",
	KindSimilarity: "similarity_model.json",
}

type artifact struct {
	Version int             `json:"version"`
	Kind    string          `json:"kind"`
	Model   json.RawMessage `json:"model"`
}

// AffinityState is the trained collaborative-filtering state. Missing keys
// are a valid state (cold start), never an error.
type AffinityState struct {
	UserFactors map[uuid.UUID]Vector `json:"user_factors"`
	ItemFactors map[uuid.UUID]Vector `json:"item_factors"`
	GlobalMean  float64              `json:"global_mean"`
}

// SimilarityState is the trained content-based state: per-item feature
// vectors plus a sparse item-item similarity matrix.
type SimilarityState struct {
	ItemVectors map[uuid.UUID]Vector                `json:"item_vectors"`
	Similarity  map[uuid.UUID]map[uuid.UUID]float64 `json:"similarity"`
}

// ModelStore loads serialized model artifacts from disk. It never fails the
// caller: a missing, corrupt, or incompatible artifact is logged and
// replaced by a well-defined empty state so serving degrades instead of
// crashing. Persisting artifacts is a training-side concern.
type ModelStore struct {
	dir string
	log logger.ILogger
}

func NewModelStore(dir string, log logger.ILogger) *ModelStore {
	return &ModelStore{dir: dir, log: log}
}

// LoadAffinity returns the affinity artifact, or an empty state.
func (s *ModelStore) LoadAffinity() *AffinityState {
	loaded := emptyAffinityState()
	if payload, ok := s.read(KindAffinity); ok && s.decode(KindAffinity, payload, loaded) {
		return loaded
	}
	// A failed decode may have filled some fields before erroring. Serve
	// the documented empty state, never a half-read artifact.
	return emptyAffinityState()
}

// LoadSimilarity returns the similarity artifact, or an empty state.
func (s *ModelStore) LoadSimilarity() *SimilarityState {
	loaded := emptySimilarityState()
	if payload, ok := s.read(KindSimilarity); ok && s.decode(KindSimilarity, payload, loaded) {
		return loaded
	}
	return emptySimilarityState()
}

func emptyAffinityState() *AffinityState {
	return &AffinityState{
		UserFactors: map[uuid.UUID]Vector{},
		ItemFactors: map[uuid.UUID]Vector{},
	}
}

func emptySimilarityState() *SimilarityState {
	return &SimilarityState{
		ItemVectors: map[uuid.UUID]Vector{},
		Similarity:  map[uuid.UUID]map[uuid.UUID]float64{},
	}
}

// read returns the model payload of one artifact after validating its
// envelope. A missing or rejected artifact logs and returns ok=false.
func (s *ModelStore) read(kind string) (json.RawMessage, bool) {
	path := filepath.Join(s.dir, artifactFiles[kind])

	raw, err := os.ReadFile(path)
	if err != nil {
		s.log.Warn("model_store", "model artifact not found, using empty fallback state", map[string]interface{}{
			"kind": kind, "path": path, "error": err.Error(),
		})
		return nil, false
	}

	var art artifact
	if err := json.Unmarshal(raw, &art); err != nil {
		s.log.Error("model_store", "model artifact is corrupt, using empty fallback state", map[string]interface{}{
			"kind": kind, "path": path, "error": err.Error(),
		})
		return nil, false
	}
	if err := s.check(kind, art); err != nil {
		s.log.Error("model_store", "model artifact rejected, using empty fallback state", map[string]interface{}{
			"kind": kind, "path": path, "error": err.Error(),
		})
		return nil, false
	}
	return art.Model, true
}

// decode unmarshals the payload into dest. Unmarshal populates whatever it
// managed to read before an error, so dest must be discarded on failure.
func (s *ModelStore) decode(kind string, payload json.RawMessage, dest interface{}) bool {
	if err := json.Unmarshal(payload, dest); err != nil {
		s.log.Error("model_store", "model payload does not match expected shape, using empty fallback state", map[string]interface{}{
			"kind": kind, "error": err.Error(),
		})
		return false
	}
	s.log.Info("model_store", "model artifact loaded", map[string]interface{}{
		"kind": kind,
	})
	return true
}

func (s *ModelStore) check(kind string, art artifact) error {
	if art.Version != artifactVersion {
		return fmt.Errorf("unsupported artifact version %d (serving speaks %d)", art.Version, artifactVersion)
	}
	if art.Kind != kind {
		return fmt.Errorf("artifact kind %q does not match requested kind %q", art.Kind, kind)
	}
	return nil
}
