package database

import (
	"errors"
	"sync"

	"github.com/coder/hnsw"
)

// TemplateIndex wraps an HNSW graph over enrolled face templates.
// It is an approximate index used for offline auditing only; login matching
// always does an exact linear scan.
type TemplateIndex struct {
	graph        *hnsw.Graph[int64]
	distance     hnsw.DistanceFunc
	idToIdentity map[int64]*StoredIdentity // Maps HNSW node ID to identity
	mu           sync.RWMutex
}

// NewTemplateIndex creates a new empty index using the given distance function.
// A nil distance defaults to Euclidean distance.
func NewTemplateIndex(distance hnsw.DistanceFunc) *TemplateIndex {
	if distance == nil {
		distance = hnsw.EuclideanDistance
	}
	return &TemplateIndex{
		distance:     distance,
		idToIdentity: make(map[int64]*StoredIdentity),
	}
}

func (h *TemplateIndex) newGraph() *hnsw.Graph[int64] {
	g := hnsw.NewGraph[int64]()
	g.M = HNSWMaxNeighbors
	g.Ml = 1.0 / float64(HNSWMaxNeighbors) // Standard HNSW formula
	g.EfSearch = HNSWEfSearch
	g.Distance = h.distance
	return g
}

// Build replaces the index contents with the given identities.
// Identities without a template are skipped.
func (h *TemplateIndex) Build(identities []StoredIdentity) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.graph = nil
	h.idToIdentity = make(map[int64]*StoredIdentity, len(identities))

	for i := range identities {
		h.addLocked(&identities[i])
	}
}

// Add adds a single identity to the index.
func (h *TemplateIndex) Add(identity *StoredIdentity) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.addLocked(identity)
}

func (h *TemplateIndex) addLocked(identity *StoredIdentity) {
	if !identity.HasTemplate() {
		return
	}
	if h.graph == nil {
		h.graph = h.newGraph()
	}
	h.graph.Add(hnsw.MakeNode(identity.ID, identity.Template))
	h.idToIdentity[identity.ID] = identity
}

// Search finds the k nearest neighbors to the query template.
// Returns identity IDs and their distances, nearest first.
func (h *TemplateIndex) Search(query []float32, k int) ([]int64, []float64, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.graph == nil {
		return nil, nil, errors.New("index not initialized")
	}

	neighbors := h.graph.Search(query, k)

	ids := make([]int64, 0, len(neighbors))
	distances := make([]float64, 0, len(neighbors))
	for _, n := range neighbors {
		if _, ok := h.idToIdentity[n.Key]; !ok {
			continue
		}
		ids = append(ids, n.Key)
		distances = append(distances, float64(h.distance(query, n.Value)))
	}

	return ids, distances, nil
}

// Get returns the identity for a given ID.
func (h *TemplateIndex) Get(id int64) *StoredIdentity {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.idToIdentity[id]
}

// Count returns the number of indexed templates.
func (h *TemplateIndex) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.idToIdentity)
}
