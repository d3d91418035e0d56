package models

import (
	"time"

	"github.com/google/uuid"
)

// SeriesKey identifies one time series of the service.
type SeriesKey struct {
	FeatureID        string
	Procedure        string
	ObservedProperty string
}

func (k SeriesKey) String() string {
	return k.FeatureID + "/" + k.Procedure + "/" + k.ObservedProperty
}

// Series is a series the data-availability index advertises, with its window.
type Series struct {
	Key  SeriesKey
	From time.Time
	To   time.Time
}

// FeatureRow captures the normalized feature metadata for DB operations.
type FeatureRow struct {
	ID       string
	Name     string
	Lat      float64
	Lon      float64
	Metadata map[string]any
}

// ObservationCandidate encapsulates a normalized observation ready for insertion.
type ObservationCandidate struct {
	Series SeriesKey
	TS     time.Time
	Value  *float64
	UOM    string
}

// LastObservation represents the most recent stored observation of a series.
type LastObservation struct {
	Value *float64
	TS    time.Time
}

// Run statuses.
const (
	RunRunning = "running"
	RunSuccess = "success"
	RunPartial = "partial"
	RunFailed  = "failed"
)

// HarvestRun is the bookkeeping row of one watcher execution.
type HarvestRun struct {
	ID         uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time
	Series     int
	Failed     int
	Inserted   int
	Status     string
	Error      string
}
