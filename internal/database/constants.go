package database

// HNSW index parameters for the template collision audit
const (
	// HNSWMaxNeighbors (M) is the maximum number of neighbors per node.
	// Higher values improve recall but increase memory and build time.
	HNSWMaxNeighbors = 16

	// HNSWEfSearch is the search candidate pool size.
	// Higher values improve recall but slow down search.
	HNSWEfSearch = 100

	// HNSWNeighborsPerProbe is how many neighbors the audit inspects per template.
	HNSWNeighborsPerProbe = 10
)
