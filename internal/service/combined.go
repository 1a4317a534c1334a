package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"wavefeed-backend/internal/core"
	"wavefeed-backend/internal/model"
	"wavefeed-backend/pkg/errcode"
	"wavefeed-backend/pkg/psub"
	"github.com/sirupsen/logrus"
)

// ErrSuperseded reports that a combine operation lost the race against a
// newer submission. Its result was discarded and the externally observable
// state belongs to the newer operation.
var ErrSuperseded = errors.New("combine operation superseded")

type FeedState uint8

const (
	StateIdle FeedState = iota
	StateLoading
	StateLoaded
	StateLoadingMore
	StateError
)

var feedStateNames = map[FeedState]string{
	StateIdle:        "idle",
	StateLoading:     "loading",
	StateLoaded:      "loaded",
	StateLoadingMore: "loading-more",
	StateError:       "error",
}

func (s FeedState) String() string {
	if name, ok := feedStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint8(s))
}

// FeedSnapshot is the unit the coordinator publishes: a CombinedResult and
// its paired PaginationState, produced together by one operation. Snapshots
// are immutable; every update replaces the whole pair.
type FeedSnapshot struct {
	Result *core.CombinedResult  `json:"result"`
	Pages  *core.PaginationState `json:"pagination"`
}

type CombinedFeedOptions struct {
	PageSize       int
	MaxSearchFetch int
	CombineTimeout time.Duration
	DebounceDelay  time.Duration
	Clock          func() time.Time
	Notify         *psub.Service
	NotifyKey      string
}

// CombinedFeedCoordinator owns one feed view: it classifies the active
// query/filter state, fans out to the search and data collaborators, merges
// the counts and tracks pagination over the merged result. It is the single
// writer of its snapshot; readers get wholesale replacements and never see
// partial updates.
//
// The coordinator applies only the result of the most recently issued
// combine. Each submission bumps a sequence number; an operation whose
// sequence no longer matches at completion is discarded, so a fast filter
// toggle can never be overwritten by a slower, older search.
type CombinedFeedCoordinator struct {
	ts   core.FeedSearchService
	ds   core.DataService
	eval *filterEvaluator

	pageSize       int
	maxSearchFetch int
	timeout        time.Duration
	debounceDelay  time.Duration
	now            func() time.Time
	notify         *psub.Service
	notifyKey      string

	mu      sync.Mutex
	state   FeedState
	seq     uint64
	agg     resultAggregator
	items   []*model.PostFormatted // full ordered result list, client mode only
	query   string
	filters core.FilterSet
	address string
	snap    *FeedSnapshot
	lastErr *errcode.Error

	dmu      sync.Mutex
	debounce *time.Timer
}

func NewCombinedFeedCoordinator(ts core.FeedSearchService, ds core.DataService, opt CombinedFeedOptions) *CombinedFeedCoordinator {
	if opt.PageSize <= 0 {
		opt.PageSize = 20
	}
	if opt.MaxSearchFetch <= 0 {
		opt.MaxSearchFetch = 500
	}
	if opt.DebounceDelay <= 0 {
		opt.DebounceDelay = 300 * time.Millisecond
	}
	if opt.Clock == nil {
		opt.Clock = time.Now
	}
	return &CombinedFeedCoordinator{
		ts:             ts,
		ds:             ds,
		eval:           newFilterEvaluator(opt.Clock),
		pageSize:       opt.PageSize,
		maxSearchFetch: opt.MaxSearchFetch,
		timeout:        opt.CombineTimeout,
		debounceDelay:  opt.DebounceDelay,
		now:            opt.Clock,
		notify:         opt.Notify,
		notifyKey:      opt.NotifyKey,
		state:          StateIdle,
	}
}

// Submit runs one combine operation for (query, filters) and replaces the
// snapshot on success. It may be called from any state; a submission always
// supersedes whatever was in flight, including a pending load-more.
func (c *CombinedFeedCoordinator) Submit(ctx context.Context, address, query string, filters core.FilterSet) (*FeedSnapshot, error) {
	query = strings.TrimSpace(query)
	fs, ignored := filters.Normalized()
	for _, facet := range ignored {
		logrus.Warnf("CombinedFeedCoordinator.Submit %s: %s", errcode.InvalidFilterValue.Msg(), facet)
	}

	mode := core.ResolveMode(query, fs)
	key := core.Fingerprint(query, fs)

	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.state = StateLoading
	c.query, c.filters, c.address = query, fs, address
	c.mu.Unlock()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	started := c.now()
	out, pagMode, err := c.fetch(ctx, mode, address, query, fs)
	elapsed := c.now().Sub(started)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		logrus.Debugf("CombinedFeedCoordinator.Submit drop stale result seq:%d current:%d", seq, c.seq)
		return nil, ErrSuperseded
	}
	if err != nil {
		c.state = StateError
		c.lastErr = asErrcode(err, errcode.GetFeedFailed)
		return nil, c.lastErr
	}

	result := c.agg.Combine(mode, out, key, pagMode, elapsed)

	pages := &core.PaginationState{
		CurrentPage:    1,
		PaginationMode: pagMode,
		HasMorePosts:   result.TotalResults > int64(c.pageSize),
	}
	if pagMode == core.PaginationClient {
		c.items = out.items
		pages.PaginatedPosts = pageSlice(out.items, c.pageSize)
	} else {
		// server mode: out.items already is the first backend page
		c.items = nil
		pages.PaginatedPosts = out.items
	}

	c.state = StateLoaded
	c.lastErr = nil
	snap := &FeedSnapshot{Result: result, Pages: pages}
	c.snap = snap
	c.publish(snap)
	return snap, nil
}

// LoadMore advances to the next page. It only acts from Loaded with more
// posts available; anything else is a no-op returning the current snapshot.
// In client mode the next page is appended from the retained result list;
// in server mode the backend is asked for the next page, which replaces the
// current one.
func (c *CombinedFeedCoordinator) LoadMore(ctx context.Context) (*FeedSnapshot, error) {
	c.mu.Lock()
	if c.state != StateLoaded || c.snap == nil || !c.snap.Pages.HasMorePosts {
		snap := c.snap
		c.mu.Unlock()
		return snap, nil
	}

	if c.snap.Pages.PaginationMode == core.PaginationClient {
		defer c.mu.Unlock()
		page := c.snap.Pages.CurrentPage + 1
		upto := page * c.pageSize
		if upto > len(c.items) {
			upto = len(c.items)
		}
		pages := &core.PaginationState{
			CurrentPage:    page,
			PaginatedPosts: append([]*model.PostFormatted{}, c.items[:upto]...),
			HasMorePosts:   upto < len(c.items),
			PaginationMode: core.PaginationClient,
		}
		snap := &FeedSnapshot{Result: c.snap.Result, Pages: pages}
		c.snap = snap
		c.publish(snap)
		return snap, nil
	}

	seq := c.seq
	page := c.snap.Pages.CurrentPage
	query := c.query
	c.state = StateLoadingMore
	c.mu.Unlock()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	resp, err := c.searchWithDeadline(ctx, &core.QueryReq{Query: query}, page*c.pageSize, c.pageSize)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		// a reset won the race; this page belongs to a dead result set
		logrus.Debugf("CombinedFeedCoordinator.LoadMore drop stale page seq:%d current:%d", seq, c.seq)
		return nil, ErrSuperseded
	}
	if err != nil {
		c.state = StateError
		c.lastErr = asErrcode(err, errcode.LoadMoreFailed)
		return nil, c.lastErr
	}

	next := page + 1
	pages := &core.PaginationState{
		CurrentPage:    next,
		PaginatedPosts: resp.Items,
		HasMorePosts:   int64(next*c.pageSize) < resp.Total,
		PaginationMode: core.PaginationServer,
	}
	snap := &FeedSnapshot{Result: c.snap.Result, Pages: pages}
	c.state = StateLoaded
	c.snap = snap
	c.publish(snap)
	return snap, nil
}

// Retry re-runs the last submitted (query, filters) pair, the caller's way
// out of the Error state.
func (c *CombinedFeedCoordinator) Retry(ctx context.Context) (*FeedSnapshot, error) {
	c.mu.Lock()
	address, query, filters := c.address, c.query, c.filters
	c.mu.Unlock()
	return c.Submit(ctx, address, query, filters)
}

// SubmitDebounced coalesces rapid submissions into the last one: each call
// restarts the window, only the final pair is submitted. The result arrives
// through the notify channel; errors other than supersession are logged.
func (c *CombinedFeedCoordinator) SubmitDebounced(address, query string, filters core.FilterSet) {
	c.dmu.Lock()
	defer c.dmu.Unlock()
	if c.debounce != nil {
		c.debounce.Stop()
	}
	c.debounce = time.AfterFunc(c.debounceDelay, func() {
		if _, err := c.Submit(context.Background(), address, query, filters); err != nil && !errors.Is(err, ErrSuperseded) {
			logrus.Errorf("CombinedFeedCoordinator.SubmitDebounced submit err: %v", err)
		}
	})
}

// Clear resets the coordinator to Idle and drops the aggregator's mode
// memory. An in-flight operation is superseded.
func (c *CombinedFeedCoordinator) Clear() {
	c.dmu.Lock()
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
	c.dmu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.state = StateIdle
	c.items = nil
	c.snap = nil
	c.lastErr = nil
	c.query, c.address = "", ""
	c.filters = core.FilterSet{}
	c.agg.Clear()
}

func (c *CombinedFeedCoordinator) State() FeedState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns the current result/pagination pair, which stays valid
// even while a newer operation is loading or after one failed.
func (c *CombinedFeedCoordinator) Snapshot() *FeedSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

func (c *CombinedFeedCoordinator) LastError() *errcode.Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// fetch executes the mode's fetch strategy and reports which pagination
// strategy the result supports. Search-only is backend-paged (server);
// every other mode materializes the full ordered list in memory (client).
// In search-and-filter the search narrows first and the facet predicates
// run over the already-shrunk match set, never the full corpus.
func (c *CombinedFeedCoordinator) fetch(ctx context.Context, mode core.Mode, address, query string, fs core.FilterSet) (*combineOutcome, core.PaginationMode, error) {
	switch mode {
	case core.ModeSearchOnly:
		resp, err := c.searchWithDeadline(ctx, &core.QueryReq{Query: query}, 0, c.pageSize)
		if err != nil {
			return nil, core.PaginationServer, err
		}
		return &combineOutcome{
			items:       resp.Items,
			searchTotal: resp.Total,
		}, core.PaginationServer, nil

	case core.ModeFilterOnly:
		candidates, err := c.ds.FetchCandidates(ctx)
		if err != nil {
			return nil, core.PaginationClient, errcode.FilterUnavailable.WithDetails(err.Error())
		}
		following, err := c.followingSet(ctx, address, fs)
		if err != nil {
			return nil, core.PaginationClient, err
		}
		filtered := c.eval.Evaluate(candidates, fs, following)
		return &combineOutcome{
			items:          filtered.Items,
			filterTotal:    filtered.Total,
			candidateTotal: int64(len(candidates)),
		}, core.PaginationClient, nil

	case core.ModeSearchAndFilter:
		resp, err := c.searchWithDeadline(ctx, &core.QueryReq{Query: query}, 0, c.maxSearchFetch)
		if err != nil {
			return nil, core.PaginationClient, err
		}
		following, err := c.followingSet(ctx, address, fs)
		if err != nil {
			return nil, core.PaginationClient, err
		}
		filtered := c.eval.Evaluate(resp.Items, fs, following)
		// the narrowed set is both the filter count and the intersection,
		// so combined <= min(search, filter) holds by construction
		return &combineOutcome{
			items:         filtered.Items,
			searchTotal:   resp.Total,
			filterTotal:   filtered.Total,
			combinedTotal: filtered.Total,
		}, core.PaginationClient, nil
	}

	candidates, err := c.ds.FetchCandidates(ctx)
	if err != nil {
		return nil, core.PaginationClient, errcode.FilterUnavailable.WithDetails(err.Error())
	}
	return &combineOutcome{
		items:          candidates,
		candidateTotal: int64(len(candidates)),
	}, core.PaginationClient, nil
}

// searchWithDeadline races the provider call against the context so a
// combine that blows its deadline fails instead of hanging. The provider
// call is left to finish on its own; its result is simply dropped.
func (c *CombinedFeedCoordinator) searchWithDeadline(ctx context.Context, q *core.QueryReq, offset, limit int) (*core.QueryResp, error) {
	type searchResult struct {
		resp *core.QueryResp
		err  error
	}
	ch := make(chan searchResult, 1)
	go func() {
		resp, err := c.ts.Search(q, offset, limit)
		ch <- searchResult{resp, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, asErrcode(r.err, errcode.SearchUnavailable)
		}
		return r.resp, nil
	case <-ctx.Done():
		return nil, errcode.SearchUnavailable.WithDetails(ctx.Err().Error())
	}
}

func (c *CombinedFeedCoordinator) followingSet(ctx context.Context, address string, fs core.FilterSet) (map[string]struct{}, error) {
	if !fs.Following {
		return nil, nil
	}
	following, err := c.ds.FollowingSet(ctx, address)
	if err != nil {
		return nil, errcode.FilterUnavailable.WithDetails(err.Error())
	}
	return following, nil
}

func (c *CombinedFeedCoordinator) publish(snap *FeedSnapshot) {
	if c.notify != nil {
		c.notify.Notify(c.notifyKey, snap)
	}
}

func pageSlice(items []*model.PostFormatted, pageSize int) []*model.PostFormatted {
	if len(items) > pageSize {
		items = items[:pageSize]
	}
	return append([]*model.PostFormatted{}, items...)
}

func asErrcode(err error, fallback *errcode.Error) *errcode.Error {
	var e *errcode.Error
	if errors.As(err, &e) {
		return e
	}
	return fallback.WithDetails(err.Error())
}
