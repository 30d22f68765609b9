package analysis

import (
	"errors"
	"sort"
	"time"

	"zonal/internal/fitx"
)

// ErrEmptySession means a session has nothing to aggregate: fewer than two
// stamped samples, or no classified time. Callers skip it, it is not a failure.
var ErrEmptySession = errors.New("empty session")

// Sample is one canonical point of a session series.
type Sample struct {
	Timestamp time.Time
	HeartRate *float64

	// carried for derived metrics, never classified
	SpeedMPS  *float64
	Cadence   *float64
	PowerW    *float64
	DistanceM *float64
	AltitudeM *float64
	Lat       *float64
	Lon       *float64
}

// PaceMinPerKm derives running pace from speed.
func (s Sample) PaceMinPerKm() (float64, bool) {
	if s.SpeedMPS == nil || *s.SpeedMPS <= 0 {
		return 0, false
	}
	return (1000.0 / *s.SpeedMPS) / 60.0, true
}

// Series is a session's samples sorted by timestamp ascending.
type Series []Sample

// Start returns the first timestamp, zero for an empty series.
func (s Series) Start() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[0].Timestamp
}

// End returns the last timestamp, zero for an empty series.
func (s Series) End() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[len(s)-1].Timestamp
}

// Normalize drops unstamped records and sorts the rest by time.
func Normalize(recs []fitx.Record) (Series, error) {
	out := make(Series, 0, len(recs))
	for _, r := range recs {
		if r.Timestamp.IsZero() {
			continue
		}
		out = append(out, Sample{
			Timestamp: r.Timestamp,
			HeartRate: intPtrToFloat(r.HR),
			SpeedMPS:  r.SpeedMPS,
			Cadence:   intPtrToFloat(r.Cad),
			PowerW:    intPtrToFloat(r.PowerW),
			DistanceM: r.DistanceM,
			AltitudeM: r.ElevM,
			Lat:       r.Lat,
			Lon:       r.Lon,
		})
	}
	if len(out) < 2 {
		return nil, ErrEmptySession
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func intPtrToFloat(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}
