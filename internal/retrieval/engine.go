package retrieval

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/sivavenkatesh08/rag-mnc-insights/internal/domain"
	"github.com/sivavenkatesh08/rag-mnc-insights/internal/resolver"
)

// ErrNoContext means the index holds no entries at all, so no grounding
// context can be assembled for any question.
var ErrNoContext = errors.New("no grounding context available: index is empty")

// Searcher is the subset of the vector index the engine needs.
type Searcher interface {
	Search(query string, k int) ([]domain.SearchResult, error)
	Len() int
}

// fetchK is how many candidates are pulled from the index before metadata
// filtering. Wider than the final context so the filter has room to work.
const fetchK = 10

// contextK is how many of the surviving candidates feed the prompt.
const contextK = 5

// Options tunes the engine.
type Options struct {
	// FiscalQuarters re-derives filename quarters with the fiscal-year
	// table instead of the calendar one.
	FiscalQuarters bool
}

// Engine runs nearest-neighbor search and narrows the candidates by
// metadata, degrading to the unfiltered set when nothing matches.
type Engine struct {
	searcher Searcher
	opts     Options
	logger   *zap.Logger
}

// Result is the ranked candidate set for one question.
type Result struct {
	// Chunks is the (possibly filtered) candidate sequence, most relevant
	// first. Filtering preserves the index's native ranking.
	Chunks []domain.SearchResult
	// Filter is the effective filter that was applied; zero when retrieval
	// ran unfiltered.
	Filter domain.QueryFilter
	// Filtered reports whether Chunks is the narrowed set (true) or the
	// unfiltered fallback (false).
	Filtered bool
}

// ContextChunks returns the leading chunks that feed the prompt, at most
// five.
func (r Result) ContextChunks() []domain.SearchResult {
	if len(r.Chunks) > contextK {
		return r.Chunks[:contextK]
	}
	return r.Chunks
}

// NewEngine creates a retrieval engine over the given searcher. A nil
// logger disables logging.
func NewEngine(searcher Searcher, opts Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{searcher: searcher, opts: opts, logger: logger}
}

// Retrieve fetches the top candidates for the question and narrows them by
// the effective filter. The explicit filter is honored only when all three
// of its fields are present; otherwise the filter is resolved from the
// question text. An empty filtered set falls back to the full candidate
// list so a query never fails purely because metadata matched nothing.
func (e *Engine) Retrieve(question string, explicit domain.QueryFilter) (Result, error) {
	if e.searcher.Len() == 0 {
		return Result{}, ErrNoContext
	}

	filter := explicit
	if !filter.Complete() {
		filter = resolver.Resolve(question)
	}
	e.logger.Debug("effective filter",
		zap.String("company", filter.Company),
		zap.String("year", filter.Year),
		zap.String("quarter", string(filter.Quarter)),
	)

	candidates, err := e.searcher.Search(question, fetchK)
	if err != nil {
		return Result{}, err
	}

	filtered := e.filterCandidates(candidates, filter)
	if len(filtered) > 0 {
		e.logger.Debug("metadata filter applied",
			zap.Int("candidates", len(candidates)),
			zap.Int("kept", len(filtered)),
		)
		return Result{Chunks: filtered, Filter: filter, Filtered: true}, nil
	}
	if filter.Complete() {
		e.logger.Debug("no metadata match, using broader context",
			zap.Int("candidates", len(candidates)),
		)
	}
	return Result{Chunks: candidates, Filter: filter, Filtered: false}, nil
}

// filterCandidates keeps candidates whose source filename carries the
// requested company and year and whose re-derived quarter matches. All
// three must hold; a partial filter keeps nothing.
func (e *Engine) filterCandidates(candidates []domain.SearchResult, filter domain.QueryFilter) []domain.SearchResult {
	if !filter.Complete() {
		return nil
	}
	var kept []domain.SearchResult
	for _, cand := range candidates {
		filename := cand.Chunk.Metadata.Filename
		if !strings.Contains(filename, filter.Company) {
			continue
		}
		if !strings.Contains(filename, filter.Year) {
			continue
		}
		if domain.QuarterOfFilename(filename, e.opts.FiscalQuarters) != filter.Quarter {
			continue
		}
		kept = append(kept, cand)
	}
	return kept
}
