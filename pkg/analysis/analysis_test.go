package analysis

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maslahah/nlpviz/config"
	"github.com/maslahah/nlpviz/pkg/cache"
	"github.com/maslahah/nlpviz/pkg/models"
	"github.com/maslahah/nlpviz/pkg/testutils"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := testutils.NewTestConfig()
	require.NoError(t, err)
	return cfg
}

type fakePipeline struct {
	calls atomic.Int32
	err   error
}

func (f *fakePipeline) Process(_ context.Context, text string) (*models.Document, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	doc := models.NewDocument(text)
	doc.Cats.Set("positive", 1)
	return doc, nil
}

func (f *fakePipeline) Meta() models.ModelMeta { return models.ModelMeta{Name: "fake"} }

func (f *fakePipeline) Capabilities() models.Capabilities {
	return models.Capabilities{Tokenizer: true, TextCat: true}
}

func (f *fakePipeline) Labels(string) []string { return nil }
func (f *fakePipeline) EntityLabels() []string { return []string{} }
func (f *fakePipeline) PipeNames() []string    { return []string{"textcat"} }

func TestLoaderBundledModels(t *testing.T) {
	loader, err := NewLoader(testConfig(t))
	require.NoError(t, err)

	assert.Equal(t, []string{testutils.NERModel, testutils.SentimentModel}, loader.Models())

	ner, err := loader.Load(context.Background(), testutils.NERModel)
	require.NoError(t, err)
	assert.Equal(t, testutils.NERModel, ner.ID)
	assert.True(t, ner.Capabilities.NER)
	assert.True(t, ner.Capabilities.EntityLinker)
	assert.False(t, ner.Capabilities.TextCat)

	again, err := loader.Load(context.Background(), testutils.NERModel)
	require.NoError(t, err)
	assert.Same(t, ner, again)
	assert.Equal(t, cache.Stats{Hits: 1, Misses: 1}, loader.Stats())

	infos, err := ModelInfos(context.Background(), loader)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, []string{"LOC", "ORG", "PER"}, infos[0].Labels)
	assert.True(t, infos[1].Capabilities.TextCat)
}

func TestLoaderUnknownModel(t *testing.T) {
	var calls atomic.Int32
	loader, err := NewLoader(testConfig(t), WithLoadFunc(func(context.Context, string) (models.Pipeline, error) {
		calls.Add(1)
		return &fakePipeline{}, nil
	}))
	require.NoError(t, err)

	_, err = loader.Load(context.Background(), "xx_unknown")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, int32(0), calls.Load())
}

func TestLoaderMissingDirectory(t *testing.T) {
	cfg := testConfig(t)
	cfg.Models.Dir = t.TempDir()

	loader, err := NewLoader(cfg)
	require.NoError(t, err)

	_, err = loader.Load(context.Background(), testutils.NERModel)
	var le *models.LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, testutils.NERModel, le.Model)
	assert.Equal(t, filepath.Join(cfg.Models.Dir, testutils.NERModel), le.Path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoaderFailuresAreNotCached(t *testing.T) {
	var calls atomic.Int32
	fail := true
	loader, err := NewLoader(testConfig(t), WithLoadFunc(func(context.Context, string) (models.Pipeline, error) {
		calls.Add(1)
		if fail {
			return nil, errors.New("disk on fire")
		}
		return &fakePipeline{}, nil
	}))
	require.NoError(t, err)

	_, err = loader.Load(context.Background(), testutils.SentimentModel)
	var le *models.LoadError
	require.True(t, errors.As(err, &le))
	assert.ErrorContains(t, err, "disk on fire")

	fail = false
	first, err := loader.Load(context.Background(), testutils.SentimentModel)
	require.NoError(t, err)
	second, err := loader.Load(context.Background(), testutils.SentimentModel)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLoaderConcurrentFirstLoad(t *testing.T) {
	var calls atomic.Int32
	loader, err := NewLoader(testConfig(t), WithLoadFunc(func(context.Context, string) (models.Pipeline, error) {
		calls.Add(1)
		return &fakePipeline{}, nil
	}))
	require.NoError(t, err)

	var wg sync.WaitGroup
	loaded := make([]*models.LoadedModel, 16)
	for i := range loaded {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := loader.Load(context.Background(), testutils.NERModel)
			assert.NoError(t, err)
			loaded[i] = m
		}(i)
	}
	wg.Wait()

	for _, m := range loaded {
		assert.Same(t, loaded[0], m)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestLoaderCancelledCallerDoesNotFailWaiters(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	loader, err := NewLoader(testConfig(t), WithLoadFunc(func(ctx context.Context, _ string) (models.Pipeline, error) {
		calls.Add(1)
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &fakePipeline{}, nil
	}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := loader.Load(ctx, testutils.NERModel)
		firstErr <- err
	}()
	<-started

	waiter := make(chan error, 1)
	var loaded *models.LoadedModel
	go func() {
		m, err := loader.Load(context.Background(), testutils.NERModel)
		loaded = m
		waiter <- err
	}()
	// let the waiter join the in-flight load
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	require.NoError(t, <-waiter)
	require.NotNil(t, loaded)

	again, err := loader.Load(context.Background(), testutils.NERModel)
	require.NoError(t, err)
	assert.Same(t, loaded, again)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLoaderKeepsPipelinesUnderLRUPolicy(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Policy = "lru"
	cfg.Cache.MaxEntries = 1

	var calls atomic.Int32
	loader, err := NewLoader(cfg, WithLoadFunc(func(context.Context, string) (models.Pipeline, error) {
		calls.Add(1)
		return &fakePipeline{}, nil
	}))
	require.NoError(t, err)

	first := make(map[string]*models.LoadedModel)
	for i := 0; i < 3; i++ {
		for _, id := range loader.Models() {
			m, err := loader.Load(context.Background(), id)
			require.NoError(t, err)
			if prev, ok := first[id]; ok {
				assert.Same(t, prev, m)
			} else {
				first[id] = m
			}
		}
	}
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, cache.Stats{Hits: 4, Misses: 2}, loader.Stats())
}

func TestDocumentStoreHonoursLRUPolicy(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Policy = "lru"
	cfg.Cache.MaxEntries = 1

	store, closeStore, err := NewDocumentStore(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { _ = closeStore() }()

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "a", models.NewDocument("a")))
	require.NoError(t, store.Set(ctx, "b", models.NewDocument("b")))
	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, ok, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProcessorMemoizes(t *testing.T) {
	pipeline := &fakePipeline{}
	loader, err := NewLoader(testConfig(t), WithLoadFunc(func(context.Context, string) (models.Pipeline, error) {
		return pipeline, nil
	}))
	require.NoError(t, err)
	processor := NewProcessor(loader, cache.NewMemoryStore[*models.Document](nil))

	ctx := context.Background()
	first, err := processor.Process(ctx, testutils.SentimentModel, "bagus")
	require.NoError(t, err)
	second, err := processor.Process(ctx, testutils.SentimentModel, "bagus")
	require.NoError(t, err)
	assert.Same(t, first, second)

	// same text, different model is a separate entry
	_, err = processor.Process(ctx, testutils.NERModel, "bagus")
	require.NoError(t, err)

	assert.Equal(t, int32(2), pipeline.calls.Load())
	assert.Equal(t, cache.Stats{Hits: 1, Misses: 2}, processor.Stats())
}

func TestProcessorErrors(t *testing.T) {
	pipeline := &fakePipeline{err: errors.New("tokenizer exploded")}
	loader, err := NewLoader(testConfig(t), WithLoadFunc(func(context.Context, string) (models.Pipeline, error) {
		return pipeline, nil
	}))
	require.NoError(t, err)
	processor := NewProcessor(loader, cache.NewMemoryStore[*models.Document](nil))

	_, err = processor.Process(context.Background(), testutils.SentimentModel, "x")
	var pe *models.ProcessingError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, testutils.SentimentModel, pe.Model)

	// failures are retried
	_, err = processor.Process(context.Background(), testutils.SentimentModel, "x")
	assert.Error(t, err)
	assert.Equal(t, int32(2), pipeline.calls.Load())

	_, err = processor.Process(context.Background(), "nope", "x")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestProcessorDeterministic(t *testing.T) {
	cfg := testConfig(t)
	loader, err := NewLoader(cfg)
	require.NoError(t, err)
	cached := NewProcessor(loader, cache.NewMemoryStore[*models.Document](nil))

	uncachedLoader, err := NewLoader(cfg)
	require.NoError(t, err)

	for _, text := range testutils.FakeTexts(7, 25) {
		doc, err := cached.Process(context.Background(), testutils.NERModel, text)
		require.NoError(t, err)

		model, err := uncachedLoader.Load(context.Background(), testutils.NERModel)
		require.NoError(t, err)
		fresh, err := model.Pipeline.Process(context.Background(), text)
		require.NoError(t, err)

		assert.Equal(t, fresh, doc)
	}
}

func TestProcessorRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Cache.Backend = "redis"
	cfg.Cache.Redis.Addr = mr.Addr()

	store, closeStore, err := NewDocumentStore(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeStore() })
	assert.IsType(t, &cache.RedisStore[*models.Document]{}, store)

	loader, err := NewLoader(cfg)
	require.NoError(t, err)
	processor := NewProcessor(loader, store)

	first, err := processor.Process(context.Background(), testutils.SentimentModel, testutils.SentimentText)
	require.NoError(t, err)
	second, err := processor.Process(context.Background(), testutils.SentimentModel, testutils.SentimentText)
	require.NoError(t, err)

	assert.Equal(t, first.CategoryList(), second.CategoryList())
	assert.Equal(t, first.Tokens, second.Tokens)
	assert.Equal(t, cache.Stats{Hits: 1, Misses: 1}, processor.Stats())
	assert.Len(t, mr.Keys(), 1)
}

func TestNewDocumentStore(t *testing.T) {
	cfg := testConfig(t)

	store, closeStore, err := NewDocumentStore(context.Background(), cfg)
	require.NoError(t, err)
	assert.NoError(t, closeStore())
	assert.IsType(t, &cache.MemoryStore[*models.Document]{}, store)

	cfg.Cache.Backend = "redis"
	cfg.Cache.Redis.Addr = "127.0.0.1:1"
	_, _, err = NewDocumentStore(context.Background(), cfg)
	assert.ErrorContains(t, err, "redis ping failed")

	cfg.Cache.Backend = "memcached"
	_, _, err = NewDocumentStore(context.Background(), cfg)
	assert.Error(t, err)
}
