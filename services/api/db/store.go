package db

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps database access helpers.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Feature represents a harvested feature of interest.
type Feature struct {
	ID        string          `json:"id"`
	Name      *string         `json:"name,omitempty"`
	Lat       float64         `json:"lat"`
	Lon       float64         `json:"lon"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

const featureColumns = `id, name, lat, lon, metadata, created_at, updated_at`

func scanFeature(row pgx.Row) (Feature, error) {
	var f Feature
	err := row.Scan(&f.ID, &f.Name, &f.Lat, &f.Lon, &f.Metadata, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

// ListFeatures returns all harvested features.
func (s *Store) ListFeatures(ctx context.Context) ([]Feature, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+featureColumns+` FROM sos.features ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	features := make([]Feature, 0)
	for rows.Next() {
		f, err := scanFeature(rows)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, rows.Err()
}

// GetFeature returns one feature, or nil when it is unknown.
func (s *Store) GetFeature(ctx context.Context, id string) (*Feature, error) {
	f, err := scanFeature(s.pool.QueryRow(ctx, `SELECT `+featureColumns+` FROM sos.features WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Observation is one stored value of a series.
type Observation struct {
	FeatureID        string    `json:"feature_id"`
	Procedure        string    `json:"procedure"`
	ObservedProperty string    `json:"observed_property"`
	Timestamp        time.Time `json:"ts"`
	Value            *float64  `json:"value"`
	UOM              *string   `json:"uom,omitempty"`
}

// ObservationQuery holds filters for retrieving observations.
type ObservationQuery struct {
	FeatureID        string
	Procedure        string
	ObservedProperty string
	Limit            int
	Since            *time.Time
	Until            *time.Time
}

const observationsBase = `
    SELECT feature_id, procedure, observed_property, ts, value, uom
    FROM sos.observations
    WHERE feature_id = $1
`

// FetchObservations returns observations of a feature based on the query,
// oldest first. With a limit the most recent rows are kept.
func (s *Store) FetchObservations(ctx context.Context, q ObservationQuery) ([]Observation, error) {
	args := []any{q.FeatureID}
	clause := ""
	argPos := 2
	if q.Procedure != "" {
		clause += " AND procedure = $" + strconv.Itoa(argPos)
		args = append(args, q.Procedure)
		argPos++
	}
	if q.ObservedProperty != "" {
		clause += " AND observed_property = $" + strconv.Itoa(argPos)
		args = append(args, q.ObservedProperty)
		argPos++
	}
	if q.Since != nil {
		clause += " AND ts >= $" + strconv.Itoa(argPos)
		args = append(args, *q.Since)
		argPos++
	}
	if q.Until != nil {
		clause += " AND ts <= $" + strconv.Itoa(argPos)
		args = append(args, *q.Until)
		argPos++
	}
	limit := ""
	if q.Limit > 0 {
		limit = " LIMIT $" + strconv.Itoa(argPos)
		args = append(args, q.Limit)
	}

	sql := `SELECT * FROM (` + observationsBase + clause + ` ORDER BY ts DESC` + limit + `) recent ORDER BY ts`

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	observations := make([]Observation, 0)
	for rows.Next() {
		var o Observation
		if err := rows.Scan(&o.FeatureID, &o.Procedure, &o.ObservedProperty, &o.Timestamp, &o.Value, &o.UOM); err != nil {
			return nil, err
		}
		observations = append(observations, o)
	}
	return observations, rows.Err()
}

const latestObservationsSQL = `
    SELECT DISTINCT ON (feature_id, procedure, observed_property)
           feature_id, procedure, observed_property, ts, value, uom
    FROM sos.observations
    ORDER BY feature_id, procedure, observed_property, ts DESC
`

// LatestObservations returns the latest observation per series.
func (s *Store) LatestObservations(ctx context.Context) ([]Observation, error) {
	rows, err := s.pool.Query(ctx, latestObservationsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	data := make([]Observation, 0)
	for rows.Next() {
		var o Observation
		if err := rows.Scan(&o.FeatureID, &o.Procedure, &o.ObservedProperty, &o.Timestamp, &o.Value, &o.UOM); err != nil {
			return nil, err
		}
		data = append(data, o)
	}
	return data, rows.Err()
}
