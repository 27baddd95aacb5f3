package search

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/kbukum/newsfeed/errors"
	"github.com/kbukum/newsfeed/logger"
	"github.com/kbukum/newsfeed/newsapi"
	"github.com/kbukum/newsfeed/observability"
	"github.com/kbukum/newsfeed/pipeline"
)

const (
	textBuffer = 16
	loadBuffer = 4
)

// ViewModel turns live search text into published result lists.
//
// Text set through SetText is debounced, lowercased and mapped to a keyword
// search in the current scope. Each request cancels the one before it and
// only the latest result is published. A failed fetch publishes an empty
// list and records LastError; the pipeline keeps running.
type ViewModel struct {
	fetcher newsapi.Fetcher
	cfg     Config
	log     *logger.Logger
	metrics *observability.Metrics

	texts     chan string
	loads     chan newsapi.Request
	headlines atomic.Bool
	started   atomic.Bool
	running   atomic.Bool
	done      chan struct{}

	mu    sync.RWMutex
	state State

	subMu   sync.Mutex
	subs    map[int]chan State
	nextSub int

	index *cache.Cache
}

// Option configures a ViewModel.
type Option func(*ViewModel)

// WithLogger sets the view model logger.
func WithLogger(l *logger.Logger) Option {
	return func(v *ViewModel) {
		if l != nil {
			v.log = l
		}
	}
}

// WithMetrics records pipeline activity on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(v *ViewModel) { v.metrics = m }
}

// New creates a view model that fetches through fetcher.
func New(fetcher newsapi.Fetcher, cfg Config, opts ...Option) *ViewModel {
	cfg.ApplyDefaults()
	v := &ViewModel{
		fetcher: fetcher,
		cfg:     cfg,
		log:     logger.GetGlobalLogger(),
		texts:   make(chan string, textBuffer),
		loads:   make(chan newsapi.Request, loadBuffer),
		done:    make(chan struct{}),
		state:   State{Articles: []newsapi.Article{}, Items: []Item{}},
		subs:    make(map[int]chan State),
		index:   cache.New(cfg.IndexTTL, cfg.IndexTTL/2),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.log = v.log.WithComponent("search")
	v.headlines.Store(cfg.Headlines)
	return v
}

// SetText records text as the current search text and feeds it to the
// pipeline.
func (v *ViewModel) SetText(ctx context.Context, text string) error {
	if v.stopped() {
		return errors.ServiceUnavailable("search pipeline")
	}
	v.mu.Lock()
	v.state.Text = text
	v.mu.Unlock()

	select {
	case v.texts <- text:
		return nil
	case <-v.done:
		return errors.ServiceUnavailable("search pipeline")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetHeadlines sets the scope used for keyword searches that settle from
// now on.
func (v *ViewModel) SetHeadlines(headlines bool) {
	v.headlines.Store(headlines)
}

// Headlines reports the current keyword search scope.
func (v *ViewModel) Headlines() bool {
	return v.headlines.Load()
}

// Load queues a one-off request. It skips the debounce but competes with
// keyword searches, so a newer request of either sort supersedes it.
func (v *ViewModel) Load(ctx context.Context, req newsapi.Request) error {
	if v.stopped() {
		return errors.ServiceUnavailable("search pipeline")
	}
	select {
	case v.loads <- req:
		return nil
	case <-v.done:
		return errors.ServiceUnavailable("search pipeline")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the most recently published state.
func (v *ViewModel) Snapshot() State {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// Article returns a recently published article by ID.
func (v *ViewModel) Article(id uuid.UUID) (newsapi.Article, bool) {
	a, ok := v.index.Get(id.String())
	if !ok {
		return newsapi.Article{}, false
	}
	return a.(newsapi.Article), true
}

// Subscribe returns a channel receiving every published state. A subscriber
// that falls behind loses its oldest queued states, never the newest.
// The returned function unsubscribes and closes the channel.
func (v *ViewModel) Subscribe(buffer int) (<-chan State, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan State, buffer)

	v.subMu.Lock()
	id := v.nextSub
	v.nextSub++
	v.subs[id] = ch
	v.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			v.subMu.Lock()
			delete(v.subs, id)
			v.subMu.Unlock()
			close(ch)
		})
	}
}

// Running reports whether Run is executing.
func (v *ViewModel) Running() bool {
	return v.running.Load()
}

func (v *ViewModel) stopped() bool {
	select {
	case <-v.done:
		return true
	default:
		return false
	}
}

// Run executes the search pipeline until ctx is done. It may be called once.
func (v *ViewModel) Run(ctx context.Context) error {
	if !v.started.CompareAndSwap(false, true) {
		return stderrors.New("search: view model can only run once")
	}
	v.running.Store(true)
	defer func() {
		v.running.Store(false)
		close(v.done)
	}()

	settled := pipeline.Map(
		pipeline.Debounce(pipeline.FromChannel(v.texts), v.cfg.Debounce),
		func(_ context.Context, text string) (newsapi.Request, error) {
			return newsapi.KeywordSearch(v.headlines.Load(), strings.ToLower(text)), nil
		},
	)
	settled = pipeline.Tap(settled, func(_ context.Context, req newsapi.Request) error {
		v.log.Debug("query settled", logger.Fields("query", req.Text))
		return nil
	})
	requests := pipeline.Merge(settled, pipeline.FromChannel(v.loads))
	results := pipeline.SwitchLatest(requests, func(fetchCtx context.Context, req newsapi.Request) (outcome, error) {
		return v.fetch(ctx, fetchCtx, req), nil
	})

	v.log.Info("search pipeline started", logger.Fields(
		"debounce", v.cfg.Debounce.String(),
		"headlines", v.headlines.Load(),
	))
	err := pipeline.Drain(results, v.publish).Run(ctx)
	v.log.Info("search pipeline stopped")

	if ctx.Err() != nil {
		return nil
	}
	return err
}

// outcome is the settled result of one request. Errors travel as values so
// the pipeline never ends on a failed fetch.
type outcome struct {
	req      newsapi.Request
	articles []newsapi.Article
	err      error
}

func (v *ViewModel) fetch(runCtx, ctx context.Context, req newsapi.Request) outcome {
	v.log.Debug("fetch started", logger.Fields("request", req.String()))

	articles, err := v.fetcher.Fetch(ctx, req)
	if ctx.Err() != nil && runCtx.Err() == nil {
		v.metrics.RecordSuperseded(runCtx)
		v.log.Debug("fetch superseded", logger.Fields("request", req.String()))
	}
	if articles == nil {
		articles = []newsapi.Article{}
	}
	return outcome{req: req, articles: articles, err: err}
}

func (v *ViewModel) publish(ctx context.Context, out outcome) error {
	next := State{
		Query:     out.req.Text,
		Request:   out.req.Kind.String(),
		Headlines: out.req.Headlines || out.req.Kind == newsapi.KindTopHeadlines,
		Articles:  out.articles,
		UpdatedAt: time.Now(),
	}
	if out.err != nil {
		kind := newsapi.ErrorKind(out.err)
		next.Articles = []newsapi.Article{}
		next.LastError = &ErrorInfo{
			Kind:    kind,
			Reason:  newsapi.Reason(out.err),
			Message: out.err.Error(),
		}
		v.metrics.RecordSearchError(ctx, kind)
		v.log.WithError(out.err).Warn("search failed, publishing empty results", logger.Fields(
			"request", out.req.String(),
			"kind", kind,
			"reason", next.LastError.Reason,
		))
	}
	next.Items = itemsOf(next.Articles)

	for _, a := range next.Articles {
		v.index.SetDefault(a.ID.String(), a)
	}

	v.mu.Lock()
	next.Text = v.state.Text
	next.Seq = v.state.Seq + 1
	v.state = next
	v.mu.Unlock()

	v.metrics.RecordPublished(ctx, len(next.Articles))
	v.log.Debug("results published", logger.Fields(
		"request", out.req.String(),
		"articles", len(next.Articles),
		"seq", next.Seq,
	))
	v.broadcast(next)
	return nil
}

func (v *ViewModel) broadcast(st State) {
	v.subMu.Lock()
	defer v.subMu.Unlock()

	for _, ch := range v.subs {
		select {
		case ch <- st:
			continue
		default:
		}
		// Full: replace the oldest queued state.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- st:
		default:
		}
	}
}
