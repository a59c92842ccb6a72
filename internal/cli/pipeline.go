package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sivavenkatesh08/rag-mnc-insights/internal/config"
	"github.com/sivavenkatesh08/rag-mnc-insights/internal/domain"
	gemembed "github.com/sivavenkatesh08/rag-mnc-insights/internal/embedding/gemini"
	"github.com/sivavenkatesh08/rag-mnc-insights/internal/embedding/openai"
	"github.com/sivavenkatesh08/rag-mnc-insights/internal/generation"
	"github.com/sivavenkatesh08/rag-mnc-insights/internal/index"
	"github.com/sivavenkatesh08/rag-mnc-insights/internal/memory"
	"github.com/sivavenkatesh08/rag-mnc-insights/internal/retrieval"
	"github.com/sivavenkatesh08/rag-mnc-insights/internal/synth"
)

func newEmbedder(ctx context.Context, cfg *config.AppConfig) (domain.Embedder, error) {
	switch cfg.Embedder.Type {
	case "gemini", "":
		return gemembed.NewClient(ctx, gemembed.Config{
			APIKey: os.Getenv(cfg.Gemini.APIKeyEnv),
			Model:  cfg.Gemini.EmbedModel,
		})
	case "openai":
		occfg := cfg.Embedder.OpenAI
		if occfg == nil {
			occfg = &config.OpenAIEmbedderConfig{}
		}
		return openai.NewClient(openai.Config{
			BaseURL:   occfg.BaseURL,
			APIKeyEnv: occfg.APIKeyEnv,
			Model:     occfg.Model,
			Timeout:   time.Duration(occfg.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}
}

// session bundles the query-time pipeline: loaded index, retrieval engine,
// synthesizer and the conversation memory restored from disk.
type session struct {
	engine *retrieval.Engine
	synth  *synth.Synthesizer
	mem    *memory.Memory
	cfg    *config.AppConfig
}

func newSession(ctx context.Context, cfg *config.AppConfig) (*session, error) {
	embedder, err := newEmbedder(ctx, cfg)
	if err != nil {
		return nil, err
	}
	idx, err := index.Load(cfg.Paths.IndexPath, embedder, index.LoadOptions{
		AllowUntrusted: cfg.Retrieval.AllowUntrustedIndex,
	}, logger)
	if err != nil {
		return nil, err
	}
	generator, err := generation.NewGemini(ctx, generation.GeminiConfig{
		APIKey: os.Getenv(cfg.Gemini.APIKeyEnv),
		Model:  cfg.Gemini.GenerateModel,
	})
	if err != nil {
		return nil, err
	}
	mem := memory.New()
	if err := mem.Restore(cfg.Paths.MemoryPath); err != nil {
		return nil, err
	}
	engine := retrieval.NewEngine(idx, retrieval.Options{
		FiscalQuarters: cfg.Retrieval.FiscalQuarters,
	}, logger)
	return &session{
		engine: engine,
		synth:  synth.New(generator, logger),
		mem:    mem,
		cfg:    cfg,
	}, nil
}

// ask runs one question through retrieval and synthesis.
func (s *session) ask(question string, explicit domain.QueryFilter) (synth.Answer, retrieval.Result, error) {
	res, err := s.engine.Retrieve(question, explicit)
	if err != nil {
		return synth.Answer{}, retrieval.Result{}, err
	}
	answer, err := s.synth.Synthesize(res.ContextChunks(), question, s.mem)
	if err != nil {
		return synth.Answer{}, res, err
	}
	return answer, res, nil
}

// saveMemory persists the conversation, reporting failures without
// blocking the already-computed answer.
func (s *session) saveMemory() error {
	return s.mem.Persist(s.cfg.Paths.MemoryPath)
}
