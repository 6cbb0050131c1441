package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/festmatch/internal/shared"
	"github.com/desertthunder/festmatch/internal/tourdates"
	"golang.org/x/time/rate"
)

// EventCache is the slice of the tour-date cache the Warmer needs.
type EventCache interface {
	ArtistEvents(ctx context.Context, artist, region string) (tourdates.TourDates, error)
}

// WarmOpts contains configuration for bulk cache warming.
type WarmOpts struct {
	NumWorkers int     // Concurrent workers (default: 5, capped at 10)
	RateLimit  float64 // Requests per second against the upstream API (default: 2)
}

// WarmResult summarizes a warming run.
type WarmResult struct {
	Total  int // Artists attempted
	Warmed int // Payloads cached successfully
	Failed int // Upstream failures (left uncached)
}

// Warmer primes the tour-date cache for a list of artists.
type Warmer struct {
	cache EventCache
}

// NewWarmer creates a Warmer over the given cache.
func NewWarmer(cache EventCache) *Warmer {
	return &Warmer{cache: cache}
}

// Warm fetches tour dates for every artist in one region through a
// rate-limited worker pool. Cache hits are cheap, so warming an already-warm
// list is harmless. Progress is reported through the optional channel.
func (w *Warmer) Warm(ctx context.Context, artists []string, region string, progress chan<- ProgressUpdate, opts WarmOpts) (*WarmResult, error) {
	if w.cache == nil {
		return nil, fmt.Errorf("%w: tour cache not initialized", shared.ErrServiceUnavailable)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2.0
	}

	result := &WarmResult{Total: len(artists)}
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan string, len(artists))
	outcomes := make(chan bool, len(artists))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go w.warmWorker(ctx, &wg, limiter, region, jobs, outcomes)
	}

	go func() {
		for _, artist := range artists {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			case jobs <- artist:
			}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	completed := 0
	for ok := range outcomes {
		completed++
		if ok {
			result.Warmed++
		} else {
			result.Failed++
		}
		sendProgress(progress, warmUpdate(completed, result.Total))
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// warmWorker fetches artists from the jobs channel until it closes.
func (w *Warmer) warmWorker(ctx context.Context, wg *sync.WaitGroup, limiter *rate.Limiter, region string, jobs <-chan string, outcomes chan<- bool) {
	defer wg.Done()

	for artist := range jobs {
		if err := limiter.Wait(ctx); err != nil {
			return
		}

		dates, err := w.cache.ArtistEvents(ctx, artist, region)
		outcomes <- err == nil && !dates.APIError
	}
}
