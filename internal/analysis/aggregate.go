package analysis

import (
	"strconv"
	"time"

	"zonal/internal/zones"
)

// Options carries the athlete threshold for one sport.
type Options struct {
	LTHR float64
	// MaxGap, when positive, drops intervals longer than it (recording pauses).
	MaxGap time.Duration
}

// ZoneDuration is one row of a session's zone table.
type ZoneDuration struct {
	Zone     zones.Zone
	Duration time.Duration
	Samples  int
	Percent  float64
}

// Ratio is the session's 80/20 split.
type Ratio struct {
	EasyPercent    float64
	IntensePercent float64
	TotalTime      time.Duration
}

// Aggregation is the result of one time-weighted pass over a series.
type Aggregation struct {
	Durations map[zones.Zone]time.Duration
	// Zones holds every zone with at least one classified sample, in intensity order.
	Zones   []ZoneDuration
	Easy    time.Duration
	Intense time.Duration
	Ratio   Ratio
}

// Aggregate weights each sample's zone by the time elapsed since the previous
// sample. Unclassified samples add nothing and stay out of the denominator.
func Aggregate(series Series, opts Options) (Aggregation, error) {
	if len(series) < 2 {
		return Aggregation{}, ErrEmptySession
	}

	durations := make(map[zones.Zone]time.Duration)
	counts := make(map[zones.Zone]int)
	var total time.Duration

	for i, s := range series {
		var dt time.Duration
		if i > 0 {
			dt = s.Timestamp.Sub(series[i-1].Timestamp)
		}
		if dt < 0 || (opts.MaxGap > 0 && dt > opts.MaxGap) {
			dt = 0
		}
		z := zones.Classify(s.HeartRate, opts.LTHR)
		if z == zones.Unclassified {
			continue
		}
		durations[z] += dt
		counts[z]++
		total += dt
	}
	if total == 0 {
		return Aggregation{}, ErrEmptySession
	}

	agg := Aggregation{Durations: durations}
	for _, z := range zones.All() {
		if counts[z] == 0 {
			continue
		}
		agg.Zones = append(agg.Zones, ZoneDuration{
			Zone:     z,
			Duration: durations[z],
			Samples:  counts[z],
			Percent:  percentOf(durations[z], total),
		})
		if z.Easy() {
			agg.Easy += durations[z]
		}
	}
	agg.Intense = total - agg.Easy
	agg.Ratio = Ratio{
		EasyPercent:    percentOf(agg.Easy, total),
		IntensePercent: percentOf(agg.Intense, total),
		TotalTime:      total,
	}
	return agg, nil
}

func percentOf(part, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	return Round1(float64(part) / float64(total) * 100)
}

// Round1 rounds to one decimal place. Ties go to even on the exact binary value.
func Round1(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	if err != nil {
		return v
	}
	return r
}
