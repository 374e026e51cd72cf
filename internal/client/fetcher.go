package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/OfirNeeman/ai-stylist/internal/apperror"
	"github.com/OfirNeeman/ai-stylist/internal/model"
)

// DefaultDebounce is how long the fetcher waits after the last filter
// change before firing a request. Matching the UI slider cadence: drag
// events arrive far faster than this, so only the resting value fetches.
const DefaultDebounce = 750 * time.Millisecond

// quotaFriendlyMessage replaces raw quota errors in fetch results.
const quotaFriendlyMessage = "Our AI is very popular right now... please wait a moment and try again."

// FetchFunc performs the actual recommendation request.
type FetchFunc func(ctx context.Context, budget float64, clothingType string) (*model.StyleRecommendation, error)

// Result is one delivered fetch outcome. Err, when set, is already
// user-presentable.
type Result struct {
	Seq            uint64
	Recommendation *model.StyleRecommendation
	Err            error
}

// Fetcher debounces recommendation requests and discards stale
// responses. Every Request bumps a sequence number; a response is only
// delivered if its sequence still matches the latest request, so a slow
// early answer can never overwrite a fast late one.
type Fetcher struct {
	fetch    FetchFunc
	deliver  func(Result)
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
}

// NewFetcher creates a Fetcher delivering results through deliver.
// deliver is called from a background goroutine.
func NewFetcher(fetch FetchFunc, deliver func(Result), debounce time.Duration) *Fetcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Fetcher{fetch: fetch, deliver: deliver, debounce: debounce}
}

// Request schedules a fetch for the given filters, superseding any
// pending or in-flight request.
func (f *Fetcher) Request(ctx context.Context, budget float64, clothingType string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	seq := f.seq

	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = time.AfterFunc(f.debounce, func() {
		f.run(ctx, seq, budget, clothingType)
	})
}

// Stop cancels any pending request.
func (f *Fetcher) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
	}
	f.seq++ // orphan anything already in flight
}

func (f *Fetcher) run(ctx context.Context, seq uint64, budget float64, clothingType string) {
	if f.stale(seq) {
		return
	}

	rec, err := f.fetch(ctx, budget, clothingType)

	// Check again: the filters may have moved while the request ran.
	if f.stale(seq) {
		return
	}

	if err != nil && errors.Is(err, apperror.ErrQuota) {
		err = errors.New(quotaFriendlyMessage)
	}
	f.deliver(Result{Seq: seq, Recommendation: rec, Err: err})
}

func (f *Fetcher) stale(seq uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return seq != f.seq
}
