// Package charts aggregates snapshot history into chart series for the
// dashboard's historical views.
package charts

import (
	"fmt"
	"sort"
	"time"

	"github.com/markcheno/go-talib"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/runwaylabs/sovereign/internal/domain"
)

// smoothingPeriod is the window used for the SMA/EMA chart overlays.
const smoothingPeriod = 7

// ChartDataPoint represents a single point on a chart.
type ChartDataPoint struct {
	Time  string  `json:"time"` // YYYY-MM-DD (daily) / YYYY-W## / YYYY-MM
	Value float64 `json:"value"`
}

// SeriesStats summarizes a ratio series for the chart header.
type SeriesStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Latest float64 `json:"latest"`
}

// RatioSeries is the full chart payload for one wallet and period.
type RatioSeries struct {
	Period string           `json:"period"`
	Points []ChartDataPoint `json:"points"`
	SMA    []ChartDataPoint `json:"sma,omitempty"`
	EMA    []ChartDataPoint `json:"ema,omitempty"`
	Stats  *SeriesStats     `json:"stats,omitempty"`
}

// SnapshotHistory is the slice of the snapshots module this service needs.
type SnapshotHistory interface {
	History(wallet string, limit int) ([]domain.Snapshot, error)
}

// Service provides chart data operations.
type Service struct {
	history SnapshotHistory
	now     func() time.Time
	log     zerolog.Logger
}

// NewService creates a new charts service.
func NewService(history SnapshotHistory, log zerolog.Logger) *Service {
	return &Service{
		history: history,
		now:     time.Now,
		log:     log.With().Str("service", "charts").Logger(),
	}
}

// GetRatioSeries returns a wallet's sovereignty-ratio series with the
// aggregation matching the requested period: 90D (daily), 1Y (weekly),
// 5Y (monthly). Smoothing overlays are attached when the series is long
// enough for the window.
func (s *Service) GetRatioSeries(wallet, period string) (*RatioSeries, error) {
	var startDate time.Time
	var groupBy string

	now := s.now().UTC()
	switch period {
	case "90D":
		startDate = now.AddDate(0, 0, -90)
		groupBy = "day"
	case "1Y":
		startDate = now.AddDate(-1, 0, 0)
		groupBy = "week"
	case "5Y":
		startDate = now.AddDate(-5, 0, 0)
		groupBy = "month"
	default:
		return nil, fmt.Errorf("invalid period: %s (must be 90D, 1Y or 5Y)", period)
	}

	snaps, err := s.history.History(wallet, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot history: %w", err)
	}

	points := aggregate(snaps, startDate, groupBy)
	series := &RatioSeries{Period: period, Points: points}
	if len(points) == 0 {
		return series, nil
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}

	series.Stats = summarize(values)
	if len(values) >= smoothingPeriod {
		series.SMA = overlay(points, talib.Sma(values, smoothingPeriod))
		series.EMA = overlay(points, talib.Ema(values, smoothingPeriod))
	}
	return series, nil
}

// aggregate buckets snapshots by day/week/month and keeps the last
// observation of each bucket (close semantics).
func aggregate(snaps []domain.Snapshot, startDate time.Time, groupBy string) []ChartDataPoint {
	buckets := make(map[string]float64)

	for _, snap := range snaps {
		if snap.RecordedAt.Before(startDate) {
			continue
		}

		var bucket string
		switch groupBy {
		case "week":
			year, week := snap.RecordedAt.ISOWeek()
			bucket = fmt.Sprintf("%d-W%02d", year, week)
		case "month":
			bucket = snap.RecordedAt.Format("2006-01")
		default:
			bucket = snap.RecordedAt.Format("2006-01-02")
		}
		// History is ordered oldest first, so the last write wins.
		buckets[bucket] = snap.Ratio
	}

	points := make([]ChartDataPoint, 0, len(buckets))
	for bucket, value := range buckets {
		points = append(points, ChartDataPoint{Time: bucket, Value: value})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Time < points[j].Time })
	return points
}

// overlay aligns a talib output slice with the source points, dropping the
// leading warm-up values the indicator has not stabilized for.
func overlay(points []ChartDataPoint, values []float64) []ChartDataPoint {
	result := make([]ChartDataPoint, 0, len(points)-smoothingPeriod+1)
	for i := smoothingPeriod - 1; i < len(points) && i < len(values); i++ {
		result = append(result, ChartDataPoint{Time: points[i].Time, Value: values[i]})
	}
	return result
}

func summarize(values []float64) *SeriesStats {
	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	stats := &SeriesStats{
		Mean:   stat.Mean(values, nil),
		Min:    min,
		Max:    max,
		Latest: values[len(values)-1],
	}
	if len(values) > 1 {
		stats.StdDev = stat.StdDev(values, nil)
	}
	return stats
}
