package analysis

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/maslahah/nlpviz/config"
	"github.com/maslahah/nlpviz/internal"
	"github.com/maslahah/nlpviz/pkg/cache"
	"github.com/maslahah/nlpviz/pkg/metrics"
	"github.com/maslahah/nlpviz/pkg/models"
	"github.com/maslahah/nlpviz/pkg/nlp"
	"github.com/maslahah/nlpviz/pkg/telemetry"
)

var log = internal.GetLogger()

var _ models.ModelLoader = &Loader{}

// LoadFunc reads the pipeline stored in dir.
type LoadFunc func(ctx context.Context, dir string) (models.Pipeline, error)

func loadPipeline(ctx context.Context, dir string) (models.Pipeline, error) {
	p, err := nlp.Load(ctx, dir)
	if err != nil {
		return nil, err
	}
	return p, nil
}

type LoaderOption func(*Loader)

// WithLoadFunc replaces the function that reads pipelines from storage.
func WithLoadFunc(f LoadFunc) LoaderOption {
	return func(l *Loader) {
		l.load = f
	}
}

// WithStore replaces the pipeline store.
func WithStore(store cache.Store[*models.LoadedModel]) LoaderOption {
	return func(l *Loader) {
		l.store = store
	}
}

// Loader resolves the configured model identifiers to pipelines under the
// model directory and keeps every pipeline it has loaded.
type Loader struct {
	dir     string
	names   []string
	allowed map[string]struct{}
	load    LoadFunc
	store   cache.Store[*models.LoadedModel]
	memo    *cache.Memo[*models.LoadedModel]
}

func NewLoader(cfg *config.Config, opts ...LoaderOption) (*Loader, error) {
	l := &Loader{
		dir:     internal.ResolveDir(cfg.Models.Dir, internal.AppDir()),
		names:   append([]string(nil), cfg.Models.Names...),
		allowed: make(map[string]struct{}, len(cfg.Models.Names)),
		load:    loadPipeline,
	}
	for _, name := range cfg.Models.Names {
		l.allowed[name] = struct{}{}
	}
	for _, opt := range opts {
		opt(l)
	}
	// pipelines are never evicted; cache.policy bounds documents only
	if l.store == nil {
		l.store = cache.NewMemoryStore[*models.LoadedModel](cache.Unbounded())
	}
	l.memo = cache.NewMemo("pipeline", l.store)

	log.Debugf("model directory resolved to %s", l.dir)
	return l, nil
}

// Models returns the selectable model identifiers in configuration order.
func (l *Loader) Models() []string {
	return append([]string(nil), l.names...)
}

// Dir returns the resolved model directory.
func (l *Loader) Dir() string {
	return l.dir
}

// Load returns the pipeline for id, reading it from storage on first use.
// Identifiers outside the configured set return a *models.NotFoundError and
// storage failures a *models.LoadError. Failures are not remembered.
func (l *Loader) Load(ctx context.Context, id string) (*models.LoadedModel, error) {
	if _, ok := l.allowed[id]; !ok {
		return nil, models.NewNotFoundError("model " + id)
	}
	return l.memo.Do(ctx, cache.Key("load", id), func(ctx context.Context) (*models.LoadedModel, error) {
		return l.loadModel(ctx, id)
	})
}

func (l *Loader) loadModel(ctx context.Context, id string) (*models.LoadedModel, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "analysis.Load",
		trace.WithAttributes(attribute.String("model", id)))
	defer span.End()

	dir := filepath.Join(l.dir, id)
	start := time.Now()
	pipeline, err := l.load(ctx, dir)
	if err != nil {
		var loadErr *models.LoadError
		if !errors.As(err, &loadErr) {
			err = models.NewLoadError(id, dir, err)
		}
		metrics.ModelLoadsFailed.WithLabelValues(id).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		log.Errorf("Failed to load model %s: %v", id, err)
		return nil, err
	}
	elapsed := time.Since(start)
	metrics.ModelLoadDuration.WithLabelValues(id).Observe(elapsed.Seconds())
	log.Infof("Loaded model %s from %s in %s", id, dir, elapsed)

	return &models.LoadedModel{
		ID:           id,
		Pipeline:     pipeline,
		Capabilities: pipeline.Capabilities(),
	}, nil
}

// ModelInfos describes every selectable model, loading each one.
func ModelInfos(ctx context.Context, loader models.ModelLoader) ([]models.ModelInfo, error) {
	ids := loader.Models()
	infos := make([]models.ModelInfo, 0, len(ids))
	for _, id := range ids {
		m, err := loader.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		infos = append(infos, models.ModelInfo{
			ID:           id,
			Capabilities: m.Capabilities,
			Labels:       m.Pipeline.EntityLabels(),
		})
	}
	return infos, nil
}

// Stats returns the pipeline cache counters.
func (l *Loader) Stats() cache.Stats {
	return l.memo.Stats()
}
