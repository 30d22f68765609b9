package rollup

import "zonal/internal/analysis"

// Totals accumulates time in seconds. Values are immutable; Add returns a new one.
type Totals struct {
	EasyS    float64
	IntenseS float64
	TimeS    float64
}

// Add folds one outcome in. A session's split is expanded back into seconds
// so that longer sessions weigh more. Empty and failed outcomes add nothing.
func (t Totals) Add(o Outcome) Totals {
	if o.Status != StatusOK {
		return t
	}
	d := o.Duration.Seconds()
	if o.Report != nil {
		t.EasyS += d * o.Report.Ratio.EasyPercent / 100
		t.IntenseS += d * o.Report.Ratio.IntensePercent / 100
	}
	t.TimeS += d
	return t
}

func (t Totals) Plus(u Totals) Totals {
	return Totals{
		EasyS:    t.EasyS + u.EasyS,
		IntenseS: t.IntenseS + u.IntenseS,
		TimeS:    t.TimeS + u.TimeS,
	}
}

// EasyPercent is 0 when no time was accumulated.
func (t Totals) EasyPercent() float64 {
	if t.TimeS <= 0 {
		return 0
	}
	return analysis.Round1(t.EasyS / t.TimeS * 100)
}

// IntensePercent is 0 when no time was accumulated.
func (t Totals) IntensePercent() float64 {
	if t.TimeS <= 0 {
		return 0
	}
	return analysis.Round1(t.IntenseS / t.TimeS * 100)
}

// Batch lists session identifiers per sport.
type Batch struct {
	Running  []string
	Cycling  []string
	Swimming []string
}

// Week is the final weekly report.
type Week struct {
	Running  SportResult
	Cycling  SportResult
	Swimming SportResult

	// Zone is running plus cycling; swimming stays out of the split.
	Zone           Totals
	HasSplit       bool
	EasyPercent    float64
	IntensePercent float64

	SwimTimeS  float64
	TotalTimeS float64
}

// Week runs every sport of the batch and combines the totals.
func (r *Rollup) Week(b Batch) Week {
	w := Week{
		Running:  r.Sport(Running, b.Running),
		Cycling:  r.Sport(Cycling, b.Cycling),
		Swimming: r.Sport(Swimming, b.Swimming),
	}
	return w.combine()
}

func (w Week) combine() Week {
	w.Zone = w.Running.Totals.Plus(w.Cycling.Totals)
	w.HasSplit = w.Zone.TimeS > 0
	w.EasyPercent = w.Zone.EasyPercent()
	w.IntensePercent = w.Zone.IntensePercent()
	w.SwimTimeS = w.Swimming.Totals.TimeS
	w.TotalTimeS = w.Zone.TimeS + w.SwimTimeS
	return w
}

// Sports returns the per-sport results in report order.
func (w Week) Sports() []SportResult {
	return []SportResult{w.Running, w.Cycling, w.Swimming}
}

// Failures lists sessions that could not be read, in report order.
func (w Week) Failures() []Outcome { return w.withStatus(StatusFailed) }

// Empty lists sessions that had nothing to aggregate.
func (w Week) Empty() []Outcome { return w.withStatus(StatusEmpty) }

func (w Week) withStatus(s Status) []Outcome {
	var out []Outcome
	for _, sr := range w.Sports() {
		for _, o := range sr.Outcomes {
			if o.Status == s {
				out = append(out, o)
			}
		}
	}
	return out
}
