package source

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/02loveslollipop/thinsos/services/watcher/internal/models"
	"github.com/02loveslollipop/thinsos/sos"
)

// Connect builds an SOS client whose requests time out after timeout.
func Connect(ctx context.Context, baseURL, token string, timeout time.Duration, logger zerolog.Logger) (*sos.Client, error) {
	return sos.NewClient(ctx, baseURL, token,
		sos.WithHTTPClient(&http.Client{Timeout: timeout}),
		sos.WithLogger(logger),
	)
}

// FetchSeries retrieves the observations of one series between from and to.
func FetchSeries(ctx context.Context, client *sos.Client, series models.Series, from, to time.Time) (*sos.Table, error) {
	return client.GetObservation(ctx, sos.FilterQuery{
		FeatureOfInterest: series.Key.FeatureID,
		Procedure:         series.Key.Procedure,
		ObservedProperty:  series.Key.ObservedProperty,
		FromDate:          from.UTC().Format(time.RFC3339Nano),
		ToDate:            to.UTC().Format(time.RFC3339Nano),
	})
}
