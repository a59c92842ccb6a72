package index

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/sivavenkatesh08/rag-mnc-insights/internal/domain"
)

var (
	// ErrNotFound means no persisted index exists at the given path.
	// The caller must rebuild before querying.
	ErrNotFound = errors.New("vector index not found")
	// ErrCorrupt means the persisted payload is malformed or came from an
	// incompatible format, model or dimension.
	ErrCorrupt = errors.New("vector index corrupt or incompatible")
)

// Index holds chunk embeddings and answers nearest-neighbor queries.
// It is built or loaded once, then read-only at query time.
type Index struct {
	embedder  domain.Embedder
	dimension int
	chunks    []domain.Chunk
	vectors   [][]float64
	logger    *zap.Logger
}

// Build embeds every chunk with the given embedder and assembles a fresh
// index. Any embedding failure aborts the build; no partial index is
// produced.
func Build(chunks []domain.Chunk, embedder domain.Embedder, logger *zap.Logger) (*Index, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	idx := &Index{embedder: embedder, logger: logger}
	for i, ch := range chunks {
		vec, err := embedder.Embed(ch.Text)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d (%s): %w", i, ch.Metadata.Filename, err)
		}
		if idx.dimension == 0 {
			idx.dimension = len(vec)
		}
		if len(vec) != idx.dimension {
			return nil, fmt.Errorf("chunk %d: embedding dimension %d, index expects %d", i, len(vec), idx.dimension)
		}
		idx.chunks = append(idx.chunks, ch)
		idx.vectors = append(idx.vectors, vec)
	}
	logger.Info("index built",
		zap.Int("entries", len(idx.chunks)),
		zap.Int("dimension", idx.dimension),
		zap.String("embedder", embedder.Name()),
	)
	return idx, nil
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int { return len(idx.chunks) }

// Dimension returns the embedding dimension the index was built with.
func (idx *Index) Dimension() int { return idx.dimension }

// Search embeds the query text and returns the k closest chunks ranked
// nearest-first, ties broken by insertion order.
func (idx *Index) Search(query string, k int) ([]domain.SearchResult, error) {
	if k <= 0 {
		k = 10
	}
	vec, err := idx.embedder.Embed(query)
	if err != nil {
		return nil, fmt.Errorf("%s embeddings: %w", idx.embedder.Name(), err)
	}
	if idx.dimension != 0 && len(vec) != idx.dimension {
		return nil, fmt.Errorf("query embedding dimension %d, index expects %d", len(vec), idx.dimension)
	}

	results := make([]domain.SearchResult, 0, len(idx.chunks))
	queryNorm := norm(vec)
	for i := range idx.vectors {
		results = append(results, domain.SearchResult{
			Chunk: idx.chunks[i],
			Score: cosine(vec, idx.vectors[i], queryNorm),
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

func cosine(a, b []float64, normA float64) float64 {
	normB := norm(b)
	if normA == 0 || normB == 0 {
		return 0
	}
	dot := 0.0
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot / (normA * normB)
}

func norm(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
