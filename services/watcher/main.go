package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/02loveslollipop/thinsos/internal/logging"
	"github.com/02loveslollipop/thinsos/services/watcher/internal/config"
	"github.com/02loveslollipop/thinsos/services/watcher/internal/db"
	"github.com/02loveslollipop/thinsos/services/watcher/internal/models"
	"github.com/02loveslollipop/thinsos/services/watcher/internal/source"
	"github.com/02loveslollipop/thinsos/services/watcher/internal/utils"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("watcher failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.LogLevel)

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	client, err := source.Connect(ctx, cfg.SOSURL, cfg.SOSToken, cfg.RequestTimeout, log.Logger)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.SOSURL, err)
	}

	series := utils.SelectSeries(client.DataAvailability(), cfg.Features, cfg.ObservedProperties)
	log.Info().
		Int("series", len(series)).
		Int("available", len(client.DataAvailability())).
		Msg("selected series")
	if len(series) == 0 {
		return nil
	}

	features, err := client.GetFeatures(ctx, "")
	if err != nil {
		return fmt.Errorf("fetch features: %w", err)
	}
	featureRows := utils.BuildFeatureRows(features)

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	harvest := models.HarvestRun{
		ID:        uuid.New(),
		StartedAt: now,
		Series:    len(series),
		Status:    models.RunRunning,
	}
	logger := log.With().Str("run", harvest.ID.String()).Logger()

	if cfg.DryRun {
		logger.Info().Int("features", len(featureRows)).Msg("dry-run: skipping schema and feature upsert")
	} else {
		if err := db.EnsureSchema(ctx, pool); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		if err := db.UpsertFeatures(ctx, pool, featureRows); err != nil {
			return fmt.Errorf("upsert features: %w", err)
		}
		if err := db.StartRun(ctx, pool, harvest); err != nil {
			return fmt.Errorf("start run: %w", err)
		}
	}

	lastMap, err := db.FetchLastObservations(ctx, pool, utils.SeriesFeatureIDs(series))
	if err != nil {
		return finish(ctx, pool, cfg.DryRun, harvest, err)
	}

	var (
		mu         sync.Mutex
		candidates []models.ObservationCandidate
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)

	for _, s := range series {
		s := s
		g.Go(func() error {
			last, ok := lastMap[s.Key]
			from := utils.HarvestStart(s, last, ok, now, cfg.Lookback)

			table, err := source.FetchSeries(gctx, client, s, from, now)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				logger.Warn().Err(err).Stringer("series", s.Key).Msg("fetch series failed")
				mu.Lock()
				harvest.Failed++
				mu.Unlock()
				return nil
			}

			cands, err := utils.BuildObservationCandidates(s.Key, table)
			if err != nil {
				return fmt.Errorf("series %s: %w", s.Key, err)
			}
			logger.Debug().
				Stringer("series", s.Key).
				Time("from", from).
				Int("rows", len(cands)).
				Msg("fetched series")

			mu.Lock()
			candidates = append(candidates, cands...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return finish(ctx, pool, cfg.DryRun, harvest, err)
	}

	pending := utils.FilterNewObservations(candidates, lastMap, cfg.MinInterval, cfg.ValueEpsilon)
	logger.Info().
		Int("candidates", len(candidates)).
		Int("pending", len(pending)).
		Int("failed", harvest.Failed).
		Bool("dry_run", cfg.DryRun).
		Msg("prepared observations")

	if cfg.DryRun {
		for _, cand := range pending {
			logger.Info().
				Stringer("series", cand.Series).
				Time("ts", cand.TS).
				Str("value", utils.ValuePtrString(cand.Value)).
				Str("uom", cand.UOM).
				Msg("dry-run: would insert")
		}
		return nil
	}

	if err := db.InsertObservations(ctx, pool, harvest.ID, pending); err != nil {
		return finish(ctx, pool, cfg.DryRun, harvest, err)
	}
	harvest.Inserted = len(pending)

	logger.Info().Int("inserted", harvest.Inserted).Msg("inserted observations")
	return finish(ctx, pool, cfg.DryRun, harvest, nil)
}

// finish records the outcome of run and passes runErr through.
func finish(ctx context.Context, pool *pgxpool.Pool, dryRun bool, run models.HarvestRun, runErr error) error {
	if dryRun {
		return runErr
	}

	run.FinishedAt = time.Now().UTC()
	switch {
	case runErr != nil:
		run.Status = models.RunFailed
		run.Error = runErr.Error()
	case run.Failed > 0:
		run.Status = models.RunPartial
	default:
		run.Status = models.RunSuccess
	}

	if err := db.FinishRun(ctx, pool, run); err != nil {
		log.Error().Err(err).Str("run", run.ID.String()).Msg("record run outcome failed")
	}
	return runErr
}
