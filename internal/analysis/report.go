package analysis

import (
	"fmt"
	"time"

	"zonal/internal/fitx"
	"zonal/internal/zones"
)

// ZoneRow is one printable line of the session zone table.
type ZoneRow struct {
	Zone    string
	Time    string
	Seconds float64
	Percent float64
}

// SessionReport is the structured summary of one analysed session.
type SessionReport struct {
	ID        string
	Start     time.Time
	End       time.Time
	Samples   int
	Zones     []ZoneRow
	Durations map[zones.Zone]time.Duration
	Ratio     Ratio
	Total     string
	// AvgPaceMinPerKm is 0 when the session carries no speed.
	AvgPaceMinPerKm float64
}

// BuildSessionReport runs normalize and aggregate for one session.
// ErrEmptySession comes back unwrapped so callers can tell it from failures.
func BuildSessionReport(id string, recs []fitx.Record, opts Options) (SessionReport, error) {
	series, err := Normalize(recs)
	if err != nil {
		return SessionReport{}, err
	}
	agg, err := Aggregate(series, opts)
	if err != nil {
		return SessionReport{}, err
	}

	rows := make([]ZoneRow, 0, len(agg.Zones))
	for _, z := range agg.Zones {
		rows = append(rows, ZoneRow{
			Zone:    z.Zone.String(),
			Time:    FormatHMS(z.Duration),
			Seconds: z.Duration.Seconds(),
			Percent: z.Percent,
		})
	}

	return SessionReport{
		ID:              id,
		Start:           series.Start(),
		End:             series.End(),
		Samples:         len(series),
		Zones:           rows,
		Durations:       agg.Durations,
		Ratio:           agg.Ratio,
		Total:           FormatHMS(agg.Ratio.TotalTime),
		AvgPaceMinPerKm: avgPace(series),
	}, nil
}

func avgPace(series Series) float64 {
	var sum float64
	var n int
	for _, s := range series {
		if s.SpeedMPS != nil && *s.SpeedMPS > 0 {
			sum += *s.SpeedMPS
			n++
		}
	}
	if n == 0 {
		return 0
	}
	pace, _ := Sample{SpeedMPS: ptr(sum / float64(n))}.PaceMinPerKm()
	return pace
}

func ptr(v float64) *float64 { return &v }

// FormatHMS renders d as HH:MM:SS, truncating sub-second time. Hours may exceed 24.
func FormatHMS(d time.Duration) string {
	s := int64(d / time.Second)
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

// FormatSeconds is FormatHMS for a fractional second count.
func FormatSeconds(sec float64) string {
	return FormatHMS(time.Duration(sec * float64(time.Second)))
}
