package index

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sivavenkatesh08/rag-mnc-insights/internal/domain"
)

// stubEmbedder maps known texts to fixed vectors.
type stubEmbedder struct {
	name    string
	vectors map[string][]float64
	failOn  string
}

func (s *stubEmbedder) Name() string { return s.name }

func (s *stubEmbedder) Dimension() int { return 3 }

func (s *stubEmbedder) Embed(text string) ([]float64, error) {
	if s.failOn != "" && text == s.failOn {
		return nil, fmt.Errorf("stub embedder refused %q", text)
	}
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return []float64{1, 0, 0}, nil
}

func newStub() *stubEmbedder {
	return &stubEmbedder{
		name: "stub/v1",
		vectors: map[string][]float64{
			"alpha": {1, 0, 0},
			"beta":  {0, 1, 0},
			"gamma": {0, 0, 1},
			"mixed": {1, 1, 0},
		},
	}
}

func chunk(text, filename string) domain.Chunk {
	return domain.Chunk{Text: text, Metadata: domain.Metadata{Company: "MSFT", Filename: filename}}
}

func TestBuildAndSearchRanking(t *testing.T) {
	emb := newStub()
	idx, err := Build([]domain.Chunk{
		chunk("alpha", "a.txt"),
		chunk("beta", "b.txt"),
		chunk("mixed", "c.txt"),
	}, emb, nil)
	require.NoError(t, err)
	require.Equal(t, 3, idx.Len())

	results, err := idx.Search("alpha", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "alpha", results[0].Chunk.Text)
	assert.Equal(t, "mixed", results[1].Chunk.Text)
	assert.Equal(t, "beta", results[2].Chunk.Text)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearchTiesKeepInsertionOrder(t *testing.T) {
	emb := newStub()
	// two identical entries score identically; insertion order must hold
	idx, err := Build([]domain.Chunk{
		chunk("beta", "first.txt"),
		chunk("beta", "second.txt"),
		chunk("alpha", "third.txt"),
	}, emb, nil)
	require.NoError(t, err)

	results, err := idx.Search("beta", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "first.txt", results[0].Chunk.Metadata.Filename)
	assert.Equal(t, "second.txt", results[1].Chunk.Metadata.Filename)
}

func TestSearchCapsAtIndexSize(t *testing.T) {
	idx, err := Build([]domain.Chunk{chunk("alpha", "a.txt")}, newStub(), nil)
	require.NoError(t, err)
	results, err := idx.Search("alpha", 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestBuildFailsFastOnEmbedError(t *testing.T) {
	emb := newStub()
	emb.failOn = "beta"
	_, err := Build([]domain.Chunk{chunk("alpha", "a.txt"), chunk("beta", "b.txt")}, emb, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b.txt")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	emb := newStub()
	idx, err := Build([]domain.Chunk{
		chunk("alpha", "a.txt"),
		chunk("beta", "b.txt"),
	}, emb, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "index.jsonl")
	require.NoError(t, idx.Save(path))

	loaded, err := Load(path, emb, LoadOptions{}, nil)
	require.NoError(t, err)
	assert.Equal(t, idx.Len(), loaded.Len())
	assert.Equal(t, idx.Dimension(), loaded.Dimension())

	results, err := loaded.Search("beta", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "beta", results[0].Chunk.Text)
	assert.Equal(t, "b.txt", results[0].Chunk.Metadata.Filename)
}

func TestLoadMissingPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.jsonl"), newStub(), LoadOptions{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadGarbagePayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("not json at all\n"), 0o644))
	_, err := Load(path, newStub(), LoadOptions{}, nil)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestLoadRejectsForeignEmbedder(t *testing.T) {
	emb := newStub()
	idx, err := Build([]domain.Chunk{chunk("alpha", "a.txt")}, emb, nil)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "index.jsonl")
	require.NoError(t, idx.Save(path))

	other := newStub()
	other.name = "other/v2"
	_, err = Load(path, other, LoadOptions{}, nil)
	assert.ErrorIs(t, err, ErrCorrupt)

	// explicit opt-in skips the manifest verification
	loaded, err := Load(path, other, LoadOptions{AllowUntrusted: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())
}

func TestLoadRejectsTruncatedIndex(t *testing.T) {
	emb := newStub()
	idx, err := Build([]domain.Chunk{chunk("alpha", "a.txt"), chunk("beta", "b.txt")}, emb, nil)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "index.jsonl")
	require.NoError(t, idx.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := 0
	cut := len(data)
	for i, b := range data {
		if b == '\n' {
			lines++
			if lines == 2 {
				cut = i + 1
				break
			}
		}
	}
	require.NoError(t, os.WriteFile(path, data[:cut], 0o644))

	_, err = Load(path, emb, LoadOptions{}, nil)
	assert.ErrorIs(t, err, ErrCorrupt)
}
