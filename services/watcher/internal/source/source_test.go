package source

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/02loveslollipop/thinsos/services/watcher/internal/models"
	"github.com/02loveslollipop/thinsos/sos/sostest"
)

func TestFetchSeries(t *testing.T) {
	srv := sostest.NewServer()
	defer srv.Close()

	client, err := Connect(context.Background(), srv.URL, "token", 5*time.Second, zerolog.Nop())
	if err != nil {
		t.Fatalf("Connect() unexpected error = %v", err)
	}

	series := models.Series{Key: models.SeriesKey{FeatureID: "66401", Procedure: "Stage_Gauge", ObservedProperty: "Water Level"}}
	from := time.Date(2019, 3, 31, 12, 0, 0, 0, time.FixedZone("NZST", 12*3600))
	to := time.Date(2019, 4, 2, 0, 0, 0, 0, time.UTC)

	table, err := FetchSeries(context.Background(), client, series, from, to)
	if err != nil {
		t.Fatalf("FetchSeries() unexpected error = %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("FetchSeries() returned %d rows, want 2", table.Len())
	}

	q := srv.Last().Query
	if got := q.Get("procedure"); got != "Stage_Gauge" {
		t.Errorf("procedure = %q", got)
	}
	if got, want := q.Get("temporalFilter"), "om:phenomenonTime,2019-03-31T00:00:00Z/2019-04-02T00:00:00Z"; got != want {
		t.Errorf("temporalFilter = %q, want %q", got, want)
	}
}
