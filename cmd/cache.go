package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/festmatch/internal/catalog"
	"github.com/desertthunder/festmatch/internal/repositories"
	"github.com/desertthunder/festmatch/internal/services"
	"github.com/desertthunder/festmatch/internal/tasks"
	"github.com/desertthunder/festmatch/internal/tourdates"
	"github.com/urfave/cli/v3"
)

// CacheWarm primes the tour-date cache for every artist any user follows.
func (r *Runner) CacheWarm(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	region := cmd.String("region")
	workers := cmd.Int("workers")
	rateLimit := cmd.Int("rate")

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	artists, err := repositories.NewArtistRepository(db).DistinctNames()
	if err != nil {
		return fmt.Errorf("failed to list artists: %w", err)
	}
	if len(artists) == 0 {
		return r.writePlain("Nothing to warm: no user follows any artists yet\n")
	}

	cacheOpts := []tourdates.Option{tourdates.WithLogger(r.logger)}
	if config.Cache.TTLHours > 0 {
		cacheOpts = append(cacheOpts, tourdates.WithTTL(time.Duration(config.Cache.TTLHours)*time.Hour))
	}
	cache := tourdates.NewCache(
		services.NewBandsintownService(r.httpClient),
		repositories.NewTourCacheRepository(db),
		catalog.NewStore(config.Catalog.Path),
		cacheOpts...)

	r.logger.Info("warming tour-date cache", "artists", len(artists), "region", region, "workers", workers)

	progress := make(chan tasks.ProgressUpdate, len(artists))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := tasks.NewWarmer(cache).Warm(ctx, artists, region, progress, tasks.WarmOpts{
		NumWorkers: workers,
		RateLimit:  float64(rateLimit),
	})
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("cache warm interrupted: %w", err)
	}

	r.writePlainln("✓ Warmed %d/%d artists (%d upstream failures)", result.Warmed, result.Total, result.Failed)
	return nil
}

// CacheSweep deletes expired sessions and stale cached tour dates once.
// The server runs the same sweeps on a timer; this is for cron or manual use.
func (r *Runner) CacheSweep(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	now := time.Now()

	sessions, err := repositories.NewSessionRepository(db).DeleteExpired(now)
	if err != nil {
		return fmt.Errorf("failed to sweep sessions: %w", err)
	}

	ttl := 24 * time.Hour
	if config.Cache.TTLHours > 0 {
		ttl = time.Duration(config.Cache.TTLHours) * time.Hour
	}
	cached, err := repositories.NewTourCacheRepository(db).DeleteExpired(now.Add(-ttl))
	if err != nil {
		return fmt.Errorf("failed to sweep tour cache: %w", err)
	}

	r.writePlain("✓ Deleted %d expired sessions, %d stale cache entries\n", sessions, cached)
	return nil
}
