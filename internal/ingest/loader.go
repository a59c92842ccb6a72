package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/sivavenkatesh08/rag-mnc-insights/internal/domain"
)

// Loader reads transcript files from a directory tree and turns them into
// metadata-tagged chunks.
type Loader struct {
	splitter *Splitter
	logger   *zap.Logger
}

// NewLoader wires a loader around the given splitter. A nil logger disables
// logging.
func NewLoader(splitter *Splitter, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{splitter: splitter, logger: logger}
}

// LoadDir walks a root directory that holds one subdirectory per company,
// each containing transcript .txt files, and returns the flat chunk
// sequence. The transformation is pure beyond reading the files.
func (l *Loader) LoadDir(root string) ([]domain.Chunk, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read transcripts root: %w", err)
	}

	var chunks []domain.Chunk
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		companyDir := filepath.Join(root, entry.Name())
		files, err := filepath.Glob(filepath.Join(companyDir, "*.txt"))
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", companyDir, err)
		}
		for _, path := range files {
			fileChunks, err := l.loadFile(path)
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, fileChunks...)
		}
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no transcript chunks produced from %s", root)
	}
	l.logger.Info("transcripts loaded", zap.String("root", root), zap.Int("chunks", len(chunks)))
	return chunks, nil
}

func (l *Loader) loadFile(path string) ([]domain.Chunk, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript %s: %w", path, err)
	}
	meta := ParseMetadata(path)
	cleaned := CleanText(string(raw))
	windows := l.splitter.Split(cleaned)

	chunks := make([]domain.Chunk, 0, len(windows))
	for _, w := range windows {
		if strings.TrimSpace(w) == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{Text: w, Metadata: meta})
	}
	l.logger.Debug("transcript chunked",
		zap.String("file", meta.Filename),
		zap.String("company", meta.Company),
		zap.Int("windows", len(chunks)),
	)
	return chunks, nil
}
