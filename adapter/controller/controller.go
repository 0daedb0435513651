// Package controller contains the sync controller, which ties a
// [domain.Store] to a [domain.Location] and a [domain.Gateway] for each view.
//
// A view goes through Uninitialized, Loading and Ready. Once Ready, URL
// changes are decoded into the store and store changes are projected back to
// the URL, never both in the same reaction. The controller reactions expect to
// be driven by a single event loop; [Controller.ApplyToDataset],
// [Controller.Save] and [Controller.Reload] may run concurrently with it.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/vinicius-lino-figueiredo/gefilter/adapter/evaluator"
	"github.com/vinicius-lino-figueiredo/gefilter/adapter/location"
	"github.com/vinicius-lino-figueiredo/gefilter/adapter/urlcodec"
	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

// writer tells which side is currently writing, so the other side does not
// react to it.
type writer uint8

const (
	writerNone writer = iota
	writerURL
	writerStore
)

// ResultListener is notified when a new result becomes visible for a view.
type ResultListener = func(view string, res domain.Result)

type resultListener struct {
	id uint64
	fn ResultListener
}

type viewState struct {
	state       domain.ViewState
	issued      uint64
	result      domain.Result
	hasResult   bool
	records     []domain.Record
	hasRecords  bool
	cancelStore func()
	listeners   []resultListener
}

// Controller synchronizes the views of a store with the URL and the gateway.
type Controller struct {
	store      domain.Store
	gateway    domain.Gateway
	codec      domain.Codec
	eval       domain.Evaluator
	loc        domain.Location
	log        *slog.Logger
	metrics    domain.Metrics
	combinator domain.LogicOp
	defaults   func() domain.Query
	autoApply  bool

	mu        sync.Mutex
	views     map[string]*viewState
	active    string
	writer    writer
	inflight  int
	cancelLoc func()
	nextID    uint64
}

// NewController returns a controller for the views of store, using gateway
// as the backend.
func NewController(store domain.Store, gateway domain.Gateway, opts ...Option) *Controller {
	c := Controller{
		store:      store,
		gateway:    gateway,
		combinator: domain.And,
		defaults:   domain.DefaultQuery,
		views:      make(map[string]*viewState),
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.log == nil {
		c.log = slog.New(slog.DiscardHandler)
	}
	if c.codec == nil {
		c.codec = urlcodec.NewCodec(urlcodec.WithDefaults(c.defaults), urlcodec.WithLogger(c.log))
	}
	if c.eval == nil {
		c.eval = evaluator.NewEvaluator()
	}
	if c.loc == nil {
		c.loc = location.NewHistory("")
	}
	if c.metrics == nil {
		c.metrics = noopMetrics{}
	}
	return &c
}

// view returns the state of a view, creating it. Lock must be held.
func (c *Controller) view(name string) *viewState {
	vs, ok := c.views[name]
	if !ok {
		vs = &viewState{}
		c.views[name] = vs
	}
	return vs
}

// State returns the lifecycle state of a view.
func (c *Controller) State(view string) domain.ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view(view).state
}

// Active returns the name of the active view, or an empty string.
func (c *Controller) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Location returns the location the controller keeps in sync.
func (c *Controller) Location() domain.Location {
	return c.loc
}

// Open loads suggestions and the saved configuration of a view, hydrates it
// from the URL and makes it the active view. If loading fails the view goes
// back to Uninitialized and Open can be called again. Opening a Ready view
// only activates it.
func (c *Controller) Open(ctx context.Context, view string) error {
	c.mu.Lock()
	vs := c.view(view)
	switch vs.state {
	case domain.Ready:
		c.mu.Unlock()
		return c.Activate(view)
	case domain.Loading:
		c.mu.Unlock()
		return domain.ErrViewNotReady
	}
	vs.state = domain.Loading
	c.mu.Unlock()

	if err := c.load(ctx, view); err != nil {
		c.mu.Lock()
		vs.state = domain.Uninitialized
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	vs.state = domain.Ready
	c.active = view
	if c.cancelLoc == nil {
		c.cancelLoc = c.loc.Subscribe(c.onLocationChange)
	}
	c.mu.Unlock()

	// URL wins over the saved configuration; missing parameters keep it
	c.hydrate(view, c.store.Query(view))

	cancel := c.store.Subscribe(view, c.onStoreChange)
	c.mu.Lock()
	vs.cancelStore = cancel
	c.mu.Unlock()

	c.project(view, c.store.Query(view))
	c.log.Debug("view ready", slog.String("view", view))
	return nil
}

// Reload fetches suggestions and the saved configuration again. It is the
// user initiated retry after a failure.
func (c *Controller) Reload(ctx context.Context, view string) error {
	if c.State(view) != domain.Ready {
		return c.Open(ctx, view)
	}
	return c.load(ctx, view)
}

func (c *Controller) load(ctx context.Context, view string) error {
	c.beginLoading()
	defer c.endLoading()

	var suggestions []domain.Suggestion
	err := c.observe(domain.OpFetchSuggestions, func() (err error) {
		suggestions, err = c.gateway.FetchSuggestions(ctx, view)
		return err
	})
	if err != nil {
		return c.fail(domain.OpFetchSuggestions, view, err)
	}

	var cfg *domain.Query
	err = c.observe(domain.OpFetchConfig, func() (err error) {
		cfg, err = c.gateway.FetchConfig(ctx, view)
		return err
	})
	if err != nil {
		return c.fail(domain.OpFetchConfig, view, err)
	}

	c.store.SetSuggestions(view, suggestions)
	if cfg != nil {
		c.store.SetQuery(view, *cfg)
	}
	c.store.ClearError()
	return nil
}

// Activate makes a Ready view the active one and projects its query to the
// URL.
func (c *Controller) Activate(view string) error {
	c.mu.Lock()
	if c.view(view).state != domain.Ready {
		c.mu.Unlock()
		return domain.ErrViewNotReady
	}
	c.active = view
	c.mu.Unlock()

	c.project(view, c.store.Query(view))
	return nil
}

// CloseView stops synchronizing a view. Its query stays in the store.
func (c *Controller) CloseView(view string) {
	c.mu.Lock()
	vs := c.view(view)
	cancel := vs.cancelStore
	vs.cancelStore = nil
	vs.state = domain.Uninitialized
	vs.hasResult = false
	vs.result = domain.Result{}
	if c.active == view {
		c.active = ""
	}
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Close stops synchronizing every view and the location.
func (c *Controller) Close() {
	c.mu.Lock()
	names := make([]string, 0, len(c.views))
	for name := range c.views {
		names = append(names, name)
	}
	cancelLoc := c.cancelLoc
	c.cancelLoc = nil
	c.mu.Unlock()

	for _, name := range names {
		c.CloseView(name)
	}
	if cancelLoc != nil {
		cancelLoc()
	}
}

// hydrate decodes the current URL over base and stores the result.
func (c *Controller) hydrate(view string, base domain.Query) {
	patch, err := c.codec.Decode(urlcodec.ParseParams(c.loc.Query()))
	if err != nil {
		c.reportDecode(view, err)
	}
	q := patch.ApplyTo(base)
	c.withWriter(writerURL, func() {
		c.store.SetQuery(view, q)
	})
}

func (c *Controller) reportDecode(view string, err error) {
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}
	for _, e := range errs {
		var errDec *domain.ErrDecode
		if errors.As(e, &errDec) {
			c.metrics.DecodeError(errDec.Param)
		}
		c.log.Warn("ignoring url state", slog.String("view", view), slog.Any("error", e))
	}
}

// project reconciles q into the current URL, if it changes anything.
func (c *Controller) project(view string, q domain.Query) {
	curr := c.loc.Query()
	next := urlcodec.EncodeParams(c.codec.Reconcile(urlcodec.ParseParams(curr), q))
	if next == curr {
		return
	}
	c.withWriter(writerStore, func() {
		c.loc.Replace(next)
	})
	c.log.Debug("url updated", slog.String("view", view), slog.String("query", next))
}

func (c *Controller) withWriter(w writer, fn func()) {
	c.mu.Lock()
	prev := c.writer
	c.writer = w
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.writer = prev
		c.mu.Unlock()
	}()
	fn()
}

func (c *Controller) onLocationChange(_ string, nav domain.Navigation) {
	c.mu.Lock()
	if c.writer == writerStore {
		c.mu.Unlock()
		return
	}
	view := c.active
	ready := view != "" && c.view(view).state == domain.Ready
	c.mu.Unlock()

	if !ready {
		return
	}
	// the URL is authoritative when navigating: missing parameters reset
	c.hydrate(view, c.defaults())
	c.log.Debug("url navigation", slog.String("view", view), slog.Int("navigation", int(nav)))
}

func (c *Controller) onStoreChange(view string, q domain.Query) {
	c.mu.Lock()
	vs := c.view(view)
	ready := vs.state == domain.Ready
	fromURL := c.writer == writerURL
	isActive := c.active == view
	reapply := c.autoApply && ready && vs.hasRecords
	c.mu.Unlock()

	if reapply {
		go c.autoReapply(view)
	}
	if !ready || fromURL || !isActive {
		return
	}
	c.project(view, q)
}

// ApplyToDataset filters records through the gateway, then sorts and
// paginates them locally. When the view has no effective group the gateway is
// not called and records are used as they are.
//
// Only the most recently issued call of a view publishes its result; earlier
// calls that finish later return [domain.ErrStaleResult]. Results and failures
// of a view that is no longer active return [domain.ErrViewInactive].
func (c *Controller) ApplyToDataset(ctx context.Context, view string, records []domain.Record) (domain.Result, error) {
	return c.apply(ctx, view, records, false)
}

// Reapply runs [Controller.ApplyToDataset] again with the records of the
// last call for the view.
func (c *Controller) Reapply(ctx context.Context, view string) (domain.Result, error) {
	return c.apply(ctx, view, nil, true)
}

func (c *Controller) autoReapply(view string) {
	_, err := c.Reapply(context.Background(), view)
	switch {
	case err == nil,
		errors.Is(err, domain.ErrStaleResult),
		errors.Is(err, domain.ErrViewInactive),
		errors.Is(err, domain.ErrViewNotReady):
	default:
		c.log.Warn("reapplying filters", slog.String("view", view), slog.Any("error", err))
	}
}

// apply issues a new call for the view. With last set, records are replaced
// by the ones of the previous call, read under the same lock that takes the
// sequence number.
func (c *Controller) apply(ctx context.Context, view string, records []domain.Record, last bool) (domain.Result, error) {
	c.mu.Lock()
	vs := c.view(view)
	if vs.state != domain.Ready || (last && !vs.hasRecords) {
		c.mu.Unlock()
		return domain.Result{}, domain.ErrViewNotReady
	}
	if last {
		records = vs.records
	}
	vs.issued++
	seq := vs.issued
	vs.records = records
	vs.hasRecords = true
	c.mu.Unlock()

	q := c.store.Query(view)
	groups := q.EffectiveGroups()

	filtered := records
	if len(groups) > 0 {
		req := domain.FilterRequest{Groups: groups, Combinator: c.combinator}

		c.beginLoading()
		err := c.observe(domain.OpApplyFilters, func() (err error) {
			filtered, err = c.gateway.ApplyFilters(ctx, view, req, slices.Clone(records))
			return err
		})
		c.endLoading()

		if err != nil {
			if c.isStale(vs, seq) {
				return c.discard(view, seq)
			}
			if !c.isActive(view, vs) {
				c.log.Debug("ignoring failure of inactive view", slog.String("view", view), slog.Any("error", err))
				return domain.Result{}, domain.ErrViewInactive
			}
			return domain.Result{}, c.fail(domain.OpApplyFilters, view, err)
		}
	}

	res := c.eval.Evaluate(q, filtered)

	c.mu.Lock()
	if seq != vs.issued {
		c.mu.Unlock()
		return c.discard(view, seq)
	}
	if c.active != view || vs.state != domain.Ready {
		c.mu.Unlock()
		c.log.Debug("discarding result of inactive view", slog.String("view", view))
		return domain.Result{}, domain.ErrViewInactive
	}
	vs.result = res
	vs.hasResult = true
	listeners := make([]ResultListener, len(vs.listeners))
	for n, l := range vs.listeners {
		listeners[n] = l.fn
	}
	c.mu.Unlock()

	if len(groups) > 0 {
		c.store.ClearError()
	}
	for _, fn := range listeners {
		fn(view, res)
	}
	return res, nil
}

func (c *Controller) isStale(vs *viewState, seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return seq != vs.issued
}

func (c *Controller) isActive(view string, vs *viewState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active == view && vs.state == domain.Ready
}

func (c *Controller) discard(view string, seq uint64) (domain.Result, error) {
	c.metrics.StaleResult(view)
	c.log.Debug("discarding stale result", slog.String("view", view), slog.Uint64("seq", seq))
	return domain.Result{}, domain.ErrStaleResult
}

// Result returns the last visible result of a view.
func (c *Controller) Result(view string) (domain.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	vs := c.view(view)
	return vs.result, vs.hasResult
}

// OnResult registers fn to be called when a new result becomes visible for
// the view. The returned function cancels the subscription.
func (c *Controller) OnResult(view string, fn ResultListener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	vs := c.view(view)
	vs.listeners = append(vs.listeners, resultListener{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			vs.listeners = slices.DeleteFunc(vs.listeners, func(l resultListener) bool {
				return l.id == id
			})
		})
	}
}

// Save persists the current query of a view, with effective groups only.
// Saving is optimistic: if it fails the in-memory query is kept as it is and
// only the store error is set.
func (c *Controller) Save(ctx context.Context, view string) error {
	if c.State(view) != domain.Ready {
		return domain.ErrViewNotReady
	}

	q := c.store.Query(view)
	q.Groups = q.EffectiveGroups()

	c.beginLoading()
	err := c.observe(domain.OpSaveConfig, func() error {
		return c.gateway.SaveConfig(ctx, view, q)
	})
	c.endLoading()

	if err != nil {
		return c.fail(domain.OpSaveConfig, view, err)
	}
	c.store.ClearError()
	c.log.Info("filter configuration saved", slog.String("view", view))
	return nil
}

func (c *Controller) beginLoading() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight++
	c.store.SetLoading(true)
}

func (c *Controller) endLoading() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	c.store.SetLoading(c.inflight > 0)
}

func (c *Controller) observe(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	c.metrics.ObserveGateway(op, time.Since(start), err)
	return err
}

// fail records a gateway failure in the store and returns it as a
// [domain.ErrTransport].
func (c *Controller) fail(op, view string, err error) error {
	var errT *domain.ErrTransport
	if !errors.As(err, &errT) {
		errT = &domain.ErrTransport{Op: op, View: view, Err: err}
	}
	c.store.SetError(errT.Error())
	c.log.Error("gateway call failed",
		slog.String("op", op),
		slog.String("view", view),
		slog.Any("error", err),
	)
	return errT
}

type noopMetrics struct{}

func (noopMetrics) ObserveGateway(string, time.Duration, error) {}
func (noopMetrics) StaleResult(string)                          {}
func (noopMetrics) DecodeError(string)                          {}
