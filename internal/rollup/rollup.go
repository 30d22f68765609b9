package rollup

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"zonal/internal/analysis"
	"zonal/internal/fitx"
)

type Sport int

const (
	Running Sport = iota
	Cycling
	Swimming
)

func (s Sport) String() string {
	switch s {
	case Running:
		return "running"
	case Cycling:
		return "cycling"
	case Swimming:
		return "swimming"
	default:
		return fmt.Sprintf("sport(%d)", int(s))
	}
}

// ZoneModeled reports whether the sport has an LTHR zone model.
// Swimming only contributes volume.
func (s Sport) ZoneModeled() bool { return s == Running || s == Cycling }

type Status int

const (
	StatusOK Status = iota
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	default:
		return "failed"
	}
}

// Outcome is the result of processing one session file.
type Outcome struct {
	ID     string
	Sport  Sport
	Status Status
	// Report is set for successfully analysed zone-modeled sessions.
	Report *analysis.SessionReport
	// Duration is what the session adds to its sport's total time.
	Duration time.Duration
	Err      error
}

// Reader yields the raw records of one session.
type Reader interface {
	Read(sport Sport, id string) ([]fitx.Record, error)
}

// ReaderFunc adapts a function to Reader.
type ReaderFunc func(sport Sport, id string) ([]fitx.Record, error)

func (f ReaderFunc) Read(sport Sport, id string) ([]fitx.Record, error) { return f(sport, id) }

// Thresholds holds the LTHR for each zone-modeled sport, in bpm.
type Thresholds struct {
	Running float64
	Cycling float64
}

func (t Thresholds) For(s Sport) float64 {
	switch s {
	case Running:
		return t.Running
	case Cycling:
		return t.Cycling
	default:
		return 0
	}
}

// Rollup processes batches of sessions one at a time, in identifier order.
type Rollup struct {
	Reader     Reader
	Thresholds Thresholds
	MaxGap     time.Duration
	Logf       func(format string, args ...any)
}

// SportResult is one sport's processed batch.
type SportResult struct {
	Sport    Sport
	Outcomes []Outcome
	Totals   Totals
}

// Sport processes ids for one sport. A failing session never stops the batch.
func (r *Rollup) Sport(sport Sport, ids []string) SportResult {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	res := SportResult{Sport: sport}
	for _, id := range sorted {
		o := r.process(sport, id)
		switch o.Status {
		case StatusOK:
			r.logf("rollup: %s %s -> %s", sport, id, analysis.FormatHMS(o.Duration))
		case StatusEmpty:
			r.logf("rollup: %s %s -> no data", sport, id)
		case StatusFailed:
			r.logf("rollup: %s %s -> ERROR: %v", sport, id, o.Err)
		}
		res.Outcomes = append(res.Outcomes, o)
		res.Totals = res.Totals.Add(o)
	}
	return res
}

func (r *Rollup) process(sport Sport, id string) (o Outcome) {
	o = Outcome{ID: id, Sport: sport}
	defer func() {
		if p := recover(); p != nil {
			o = Outcome{ID: id, Sport: sport, Status: StatusFailed, Err: fmt.Errorf("panic reading session: %v", p)}
		}
	}()

	recs, err := r.Reader.Read(sport, id)
	if err != nil {
		o.Status, o.Err = StatusFailed, err
		return o
	}

	if !sport.ZoneModeled() {
		d, ok := elapsed(recs)
		if !ok {
			o.Status, o.Err = StatusEmpty, analysis.ErrEmptySession
			return o
		}
		o.Duration = d
		return o
	}

	rep, err := analysis.BuildSessionReport(id, recs, analysis.Options{
		LTHR:   r.Thresholds.For(sport),
		MaxGap: r.MaxGap,
	})
	if errors.Is(err, analysis.ErrEmptySession) {
		o.Status, o.Err = StatusEmpty, err
		return o
	}
	if err != nil {
		o.Status, o.Err = StatusFailed, err
		return o
	}
	o.Report = &rep
	o.Duration = rep.Ratio.TotalTime.Truncate(time.Second)
	return o
}

// elapsed is the first-to-last span of the stamped records.
func elapsed(recs []fitx.Record) (time.Duration, bool) {
	var first, last time.Time
	n := 0
	for _, r := range recs {
		if r.Timestamp.IsZero() {
			continue
		}
		if n == 0 || r.Timestamp.Before(first) {
			first = r.Timestamp
		}
		if n == 0 || r.Timestamp.After(last) {
			last = r.Timestamp
		}
		n++
	}
	if n < 2 {
		return 0, false
	}
	return last.Sub(first), true
}

func (r *Rollup) logf(format string, args ...any) {
	if r.Logf != nil {
		r.Logf(format, args...)
	}
}
