package zones

import "math"

// Zone is an 80/20 heart-rate intensity band, ordered by intensity.
type Zone int

const (
	Unclassified Zone = iota
	Z1
	Z2
	Zx
	Z3
	Zy
	Z4
	Z5
)

func (z Zone) String() string {
	switch z {
	case Z1:
		return "Z1"
	case Z2:
		return "Z2"
	case Zx:
		return "Zx"
	case Z3:
		return "Z3"
	case Zy:
		return "Zy"
	case Z4:
		return "Z4"
	case Z5:
		return "Z5"
	default:
		return "unclassified"
	}
}

// Easy reports whether time in z counts toward the easy side of the split.
func (z Zone) Easy() bool { return z == Z1 || z == Z2 }

// Band is a half-open [Low, High) interval of HR/LTHR.
type Band struct {
	Zone Zone
	Low  float64
	High float64
}

// Bands is the zone table shared by running and cycling. Evaluated in order.
var Bands = []Band{
	{Zone: Z1, Low: 0.72, High: 0.81},
	{Zone: Z2, Low: 0.81, High: 0.90},
	{Zone: Zx, Low: 0.90, High: 0.95},
	{Zone: Z3, Low: 0.95, High: 1.00},
	{Zone: Zy, Low: 1.00, High: 1.02},
	{Zone: Z4, Low: 1.02, High: 1.05},
	{Zone: Z5, Low: 1.05, High: math.Inf(1)},
}

// All lists the named zones in intensity order.
func All() []Zone {
	out := make([]Zone, len(Bands))
	for i, b := range Bands {
		out[i] = b.Zone
	}
	return out
}

// Classify maps a heart rate to its zone relative to lthr.
// A missing or non-finite HR, a non-positive lthr, or a ratio below the
// first band all yield Unclassified.
func Classify(hr *float64, lthr float64) Zone {
	if hr == nil || math.IsNaN(*hr) || math.IsInf(*hr, 0) {
		return Unclassified
	}
	if lthr <= 0 || math.IsNaN(lthr) || math.IsInf(lthr, 0) {
		return Unclassified
	}
	return ClassifyRatio(*hr / lthr)
}

// ClassifyRatio maps an HR/LTHR ratio to its zone.
func ClassifyRatio(ratio float64) Zone {
	for _, b := range Bands {
		if ratio >= b.Low && ratio < b.High {
			return b.Zone
		}
	}
	return Unclassified
}
