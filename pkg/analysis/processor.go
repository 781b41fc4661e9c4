package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/maslahah/nlpviz/config"
	"github.com/maslahah/nlpviz/pkg/cache"
	"github.com/maslahah/nlpviz/pkg/metrics"
	"github.com/maslahah/nlpviz/pkg/models"
	"github.com/maslahah/nlpviz/pkg/telemetry"
)

var _ models.TextProcessor = &Processor{}

// Processor runs pipelines over texts and remembers the resulting documents
// per (model, text). Cached documents are shared and must not be modified.
type Processor struct {
	loader models.ModelLoader
	memo   *cache.Memo[*models.Document]
}

func NewProcessor(loader models.ModelLoader, store cache.Store[*models.Document]) *Processor {
	return &Processor{
		loader: loader,
		memo:   cache.NewMemo("document", store),
	}
}

// NewDocumentStore builds the document store selected by cache.backend. The
// returned close function releases the backend connection.
func NewDocumentStore(
	ctx context.Context,
	cfg *config.Config,
) (cache.Store[*models.Document], func() error, error) {
	noop := func() error { return nil }
	switch cfg.Cache.Backend {
	case "redis":
		client, err := cache.NewRedisClient(ctx, cfg.Cache.Redis)
		if err != nil {
			return nil, noop, err
		}
		ttl := time.Duration(cfg.Cache.Redis.TTL) * time.Second
		log.Infof("Caching documents in redis at %s", cfg.Cache.Redis.Addr)
		return cache.NewRedisStore[*models.Document](client, cfg.Cache.Redis.Prefix, ttl), client.Close, nil
	case "memory", "":
		policy, err := cache.NewPolicy(cfg.Cache.Policy, cfg.Cache.MaxEntries)
		if err != nil {
			return nil, noop, err
		}
		return cache.NewMemoryStore[*models.Document](policy), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// Process returns the annotated document for text under model id.
func (p *Processor) Process(ctx context.Context, id string, text string) (*models.Document, error) {
	model, err := p.loader.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.memo.Do(ctx, cache.Key("process", id, text), func(ctx context.Context) (*models.Document, error) {
		return p.process(ctx, model, text)
	})
}

func (p *Processor) process(ctx context.Context, model *models.LoadedModel, text string) (*models.Document, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "analysis.Process",
		trace.WithAttributes(
			attribute.String("model", model.ID),
			attribute.Int("text.length", len(text)),
		))
	defer span.End()

	start := time.Now()
	doc, err := model.Pipeline.Process(ctx, text)
	if err != nil {
		var procErr *models.ProcessingError
		if !errors.As(err, &procErr) {
			err = models.NewProcessingError(model.ID, err)
		}
		metrics.ProcessFailed.WithLabelValues(model.ID).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "processing failed")
		return nil, err
	}
	metrics.ProcessDuration.WithLabelValues(model.ID).Observe(time.Since(start).Seconds())
	log.Debugf("processed %d characters with %s: %d entities", len([]rune(text)), model.ID, len(doc.Ents))
	return doc, nil
}

// Stats returns the document cache counters.
func (p *Processor) Stats() cache.Stats {
	return p.memo.Stats()
}
