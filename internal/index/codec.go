package index

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/sivavenkatesh08/rag-mnc-insights/internal/domain"
)

// formatVersion is bumped whenever the on-disk layout changes. Load refuses
// indexes written under a different version.
const formatVersion = 1

// manifest is the first JSONL record of a persisted index.
type manifest struct {
	FormatVersion int    `json:"format_version"`
	Embedder      string `json:"embedder"`
	Dimension     int    `json:"dimension"`
	Entries       int    `json:"entries"`
}

// entry is one indexed chunk with its embedding, one JSONL line each.
type entry struct {
	Chunk     domain.Chunk `json:"chunk"`
	Embedding []float64    `json:"embedding"`
}

// LoadOptions controls how a persisted index is verified.
type LoadOptions struct {
	// AllowUntrusted skips the manifest compatibility checks against the
	// configured embedder. The payload structure is still validated; only
	// enable this for indexes you produced yourself.
	AllowUntrusted bool
}

// Save writes the index as a versioned JSONL file, manifest first.
func (idx *Index) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer out.Close()

	writer := bufio.NewWriter(out)
	enc := json.NewEncoder(writer)
	enc.SetEscapeHTML(false)

	m := manifest{
		FormatVersion: formatVersion,
		Embedder:      idx.embedder.Name(),
		Dimension:     idx.dimension,
		Entries:       len(idx.chunks),
	}
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("write index manifest: %w", err)
	}
	for i := range idx.chunks {
		e := entry{Chunk: idx.chunks[i], Embedding: idx.vectors[i]}
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("write index entry %d: %w", i, err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush index: %w", err)
	}
	idx.logger.Info("index saved", zap.String("path", path), zap.Int("entries", len(idx.chunks)))
	return nil
}

// Load reads a persisted index and binds it to the given embedder, which
// must match the one the index was built with unless opts.AllowUntrusted
// is set. A missing path yields ErrNotFound; a malformed or incompatible
// payload yields ErrCorrupt.
func Load(path string, embedder domain.Embedder, opts LoadOptions, logger *zap.Logger) (*Index, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open index: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		return nil, fmt.Errorf("%w: empty file", ErrCorrupt)
	}
	var m manifest
	if err := json.Unmarshal(scanner.Bytes(), &m); err != nil {
		return nil, fmt.Errorf("%w: bad manifest: %v", ErrCorrupt, err)
	}
	if m.FormatVersion != formatVersion {
		return nil, fmt.Errorf("%w: format version %d, want %d", ErrCorrupt, m.FormatVersion, formatVersion)
	}
	if !opts.AllowUntrusted && m.Embedder != embedder.Name() {
		return nil, fmt.Errorf("%w: built with embedder %q, configured %q", ErrCorrupt, m.Embedder, embedder.Name())
	}

	idx := &Index{embedder: embedder, dimension: m.Dimension, logger: logger}
	line := 1
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var e entry
		if err := json.Unmarshal([]byte(text), &e); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrCorrupt, line, err)
		}
		if len(e.Embedding) != m.Dimension {
			return nil, fmt.Errorf("%w: line %d: dimension %d, manifest says %d", ErrCorrupt, line, len(e.Embedding), m.Dimension)
		}
		idx.chunks = append(idx.chunks, e.Chunk)
		idx.vectors = append(idx.vectors, e.Embedding)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	if m.Entries != len(idx.chunks) {
		return nil, fmt.Errorf("%w: manifest lists %d entries, found %d", ErrCorrupt, m.Entries, len(idx.chunks))
	}
	logger.Info("index loaded",
		zap.String("path", path),
		zap.Int("entries", len(idx.chunks)),
		zap.Int("dimension", m.Dimension),
	)
	return idx, nil
}
