package fitx

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/tormoder/fit"
)

// Activity is the session-level metadata of a FIT activity.
type Activity struct {
	StartTimeUTC time.Time
	Sport        string
	SubSport     string
	DurationS    int
	DistanceM    int
	AvgHR        int
	MaxHR        int
}

// Record is one device sample. A zero Timestamp means the device did not
// stamp the record; nil fields were absent or carried the FIT invalid value.
type Record struct {
	Timestamp time.Time
	HR        *int
	SpeedMPS  *float64
	Cad       *int
	PowerW    *int
	DistanceM *float64
	Lat       *float64
	Lon       *float64
	ElevM     *float64
}

// Decode reads a FIT activity stream. A file without a session message
// still yields its records; Activity is then left zero.
func Decode(r io.Reader) (Activity, []Record, error) {
	fd, err := fit.Decode(r)
	if err != nil {
		return Activity{}, nil, fmt.Errorf("decode fit: %w", err)
	}
	af, err := fd.Activity()
	if err != nil {
		return Activity{}, nil, fmt.Errorf("activity fit expected: %w", err)
	}

	var meta Activity
	if len(af.Sessions) > 0 && af.Sessions[0] != nil {
		s := af.Sessions[0]
		// total_timer_time scale 1000, total_distance scale 100
		meta = Activity{
			StartTimeUTC: validTime(s.StartTime).UTC(),
			Sport:        s.Sport.String(),
			SubSport:     s.SubSport.String(),
			DurationS:    int(float64(validUint32(s.TotalTimerTime)) / 1000.0),
			DistanceM:    int(float64(validUint32(s.TotalDistance)) / 100.0),
			AvgHR:        int(validUint8(s.AvgHeartRate)),
			MaxHR:        int(validUint8(s.MaxHeartRate)),
		}
	}

	recs := make([]Record, 0, len(af.Records))
	for _, rr := range af.Records {
		if rr == nil {
			continue
		}
		recs = append(recs, convertRecord(rr))
	}
	return meta, recs, nil
}

// DecodeFile opens path and decodes it.
func DecodeFile(path string) (Activity, []Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return Activity{}, nil, err
	}
	defer f.Close()
	return Decode(f)
}

func convertRecord(rr *fit.RecordMsg) Record {
	r := Record{Timestamp: validTime(rr.Timestamp)}

	if rr.HeartRate != 0 && rr.HeartRate != math.MaxUint8 {
		v := int(rr.HeartRate)
		r.HR = &v
	}
	if rr.Cadence != math.MaxUint8 {
		v := int(rr.Cadence)
		r.Cad = &v
	}
	if rr.Power != math.MaxUint16 {
		v := int(rr.Power)
		r.PowerW = &v
	}

	// enhanced_* carry the same quantity with a wider range
	if v := rr.GetEnhancedSpeedScaled(); finiteNonNegative(v) {
		r.SpeedMPS = &v
	} else if v := rr.GetSpeedScaled(); finiteNonNegative(v) {
		r.SpeedMPS = &v
	}
	if v := rr.GetEnhancedAltitudeScaled(); isFinite(v) {
		r.ElevM = &v
	} else if v := rr.GetAltitudeScaled(); isFinite(v) {
		r.ElevM = &v
	}
	if v := rr.GetDistanceScaled(); finiteNonNegative(v) {
		r.DistanceM = &v
	}

	if !rr.PositionLat.Invalid() && !rr.PositionLong.Invalid() {
		lat := rr.PositionLat.Degrees()
		lon := rr.PositionLong.Degrees()
		if lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180 {
			r.Lat, r.Lon = &lat, &lon
		}
	}
	return r
}

func validTime(t time.Time) time.Time {
	if t.IsZero() || fit.IsBaseTime(t) {
		return time.Time{}
	}
	return t
}

func validUint8(v uint8) uint8 {
	if v == math.MaxUint8 {
		return 0
	}
	return v
}

func validUint32(v uint32) uint32 {
	if v == math.MaxUint32 {
		return 0
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteNonNegative(v float64) bool {
	return isFinite(v) && v >= 0
}
