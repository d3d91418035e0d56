package db

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// HarvestRun is one recorded watcher execution.
type HarvestRun struct {
	ID         uuid.UUID  `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Series     int        `json:"series"`
	Failed     int        `json:"failed"`
	Inserted   int        `json:"inserted"`
	Status     string     `json:"status"`
	Error      *string    `json:"error,omitempty"`
}

type HarvestRunsPage struct {
	Runs       []HarvestRun `json:"runs"`
	TotalCount int          `json:"total_count"`
}

// ListRuns returns harvest runs, newest first, optionally filtered by status
// and start time.
func (s *Store) ListRuns(ctx context.Context, limit, offset int, status string, since *time.Time) (*HarvestRunsPage, error) {
	conditions := []string{}
	args := []any{}

	if status != "" {
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)+1))
		args = append(args, status)
	}
	if since != nil {
		conditions = append(conditions, "started_at >= $"+strconv.Itoa(len(args)+1))
		args = append(args, *since)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countSQL := "SELECT COUNT(*) FROM sos.harvest_runs " + whereClause
	var totalCount int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&totalCount); err != nil {
		return nil, err
	}

	limitPos := len(args) + 1
	offsetPos := len(args) + 2
	args = append(args, limit, offset)

	query := strings.Builder{}
	query.WriteString("SELECT id, started_at, finished_at, series, failed, inserted, status, error ")
	query.WriteString("FROM sos.harvest_runs ")
	query.WriteString(whereClause + " ")
	query.WriteString("ORDER BY started_at DESC ")
	query.WriteString("LIMIT $" + strconv.Itoa(limitPos) + " OFFSET $" + strconv.Itoa(offsetPos))

	rows, err := s.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]HarvestRun, 0, limit)
	for rows.Next() {
		var r HarvestRun
		if err := rows.Scan(
			&r.ID,
			&r.StartedAt,
			&r.FinishedAt,
			&r.Series,
			&r.Failed,
			&r.Inserted,
			&r.Status,
			&r.Error,
		); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &HarvestRunsPage{Runs: runs, TotalCount: totalCount}, nil
}
