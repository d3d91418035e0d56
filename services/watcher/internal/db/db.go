package db

import (
	"context"
	_ "embed"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/02loveslollipop/thinsos/services/watcher/internal/models"
)

//go:embed schema.sql
var schema string

// EnsureSchema creates the sos schema and its tables when missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}

// UpsertFeatures inserts/updates feature metadata records.
func UpsertFeatures(ctx context.Context, pool *pgxpool.Pool, features []models.FeatureRow) error {
	if len(features) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `INSERT INTO sos.features (id, name, lat, lon, metadata, created_at, updated_at)
VALUES ($1,NULLIF($2,''),$3,$4,$5,NOW(),NOW())
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    lat = EXCLUDED.lat,
    lon = EXCLUDED.lon,
    metadata = EXCLUDED.metadata,
    updated_at = NOW()`

	for _, f := range features {
		batch.Queue(query, f.ID, f.Name, f.Lat, f.Lon, f.Metadata)
	}

	res := pool.SendBatch(ctx, batch)
	defer res.Close()

	for range features {
		if _, err := res.Exec(); err != nil {
			return err
		}
	}

	return nil
}

// FetchLastObservations loads the most recent stored value per series of
// the given features.
func FetchLastObservations(ctx context.Context, pool *pgxpool.Pool, featureIDs []string) (map[models.SeriesKey]models.LastObservation, error) {
	result := make(map[models.SeriesKey]models.LastObservation)
	if len(featureIDs) == 0 {
		return result, nil
	}

	rows, err := pool.Query(ctx, `
SELECT DISTINCT ON (feature_id, procedure, observed_property)
       feature_id, procedure, observed_property, value, ts
FROM sos.observations
WHERE feature_id = ANY($1)
ORDER BY feature_id, procedure, observed_property, ts DESC`, featureIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var key models.SeriesKey
		var value *float64
		var ts time.Time
		if err := rows.Scan(&key.FeatureID, &key.Procedure, &key.ObservedProperty, &value, &ts); err != nil {
			return nil, err
		}
		result[key] = models.LastObservation{Value: value, TS: ts}
	}

	return result, rows.Err()
}

// InsertObservations writes new observations, tagging them with runID.
func InsertObservations(ctx context.Context, pool *pgxpool.Pool, runID uuid.UUID, observations []models.ObservationCandidate) error {
	if len(observations) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `INSERT INTO sos.observations (feature_id, procedure, observed_property, ts, value, uom, run_id, ingested_at, updated_at)
VALUES ($1,$2,$3,$4,$5,NULLIF($6,''),$7,NOW(),NOW())
ON CONFLICT (feature_id, procedure, observed_property, ts) DO UPDATE
SET value = EXCLUDED.value,
    uom = EXCLUDED.uom,
    run_id = EXCLUDED.run_id,
    updated_at = NOW()`

	for _, o := range observations {
		batch.Queue(query, o.Series.FeatureID, o.Series.Procedure, o.Series.ObservedProperty, o.TS, o.Value, o.UOM, runID)
	}

	res := pool.SendBatch(ctx, batch)
	defer res.Close()

	for range observations {
		if _, err := res.Exec(); err != nil {
			return err
		}
	}

	return nil
}

// StartRun records the beginning of a harvest run.
func StartRun(ctx context.Context, pool *pgxpool.Pool, run models.HarvestRun) error {
	_, err := pool.Exec(ctx, `
INSERT INTO sos.harvest_runs (id, started_at, series, status)
VALUES ($1,$2,$3,$4)`, run.ID, run.StartedAt, run.Series, run.Status)
	return err
}

// FinishRun stores the outcome of a harvest run.
func FinishRun(ctx context.Context, pool *pgxpool.Pool, run models.HarvestRun) error {
	_, err := pool.Exec(ctx, `
UPDATE sos.harvest_runs
SET finished_at = $2, series = $3, failed = $4, inserted = $5, status = $6, error = NULLIF($7,'')
WHERE id = $1`, run.ID, run.FinishedAt, run.Series, run.Failed, run.Inserted, run.Status, run.Error)
	return err
}
