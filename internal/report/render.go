package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"zonal/internal/analysis"
	"zonal/internal/rollup"
)

var (
	rule   = strings.Repeat("-", 60)
	banner = strings.Repeat("=", 60)
)

var titles = map[rollup.Sport]string{
	rollup.Running:  "Running sessions",
	rollup.Cycling:  "Cycling sessions",
	rollup.Swimming: "Swimming sessions",
}

// Render writes the console report for one week.
func Render(w io.Writer, week string, res rollup.Week) error {
	ew := &errWriter{w: w}
	for _, sr := range res.Sports() {
		renderSport(ew, sr)
	}
	renderSummary(ew, week, res)
	return ew.err
}

func renderSport(w *errWriter, sr rollup.SportResult) {
	w.printf("\n%s\n%s\n", titles[sr.Sport], rule)
	if len(sr.Outcomes) == 0 {
		w.printf("no sessions\n")
		return
	}
	for _, o := range sr.Outcomes {
		w.printf("\n%s\n", o.ID)
		switch {
		case o.Status == rollup.StatusFailed:
			w.printf("ERROR: %v\n", o.Err)
		case o.Status == rollup.StatusEmpty:
			w.printf("no data\n")
		case o.Report != nil:
			SessionTable(w, *o.Report)
		default:
			w.printf("Duration: %s\n", analysis.FormatHMS(o.Duration))
		}
	}
	if sr.Sport.ZoneModeled() && sr.Totals.TimeS > 0 {
		w.printf("\n%s total - Easy: %.1f%% | Intense: %.1f%% | Total: %s\n",
			sr.Sport, sr.Totals.EasyPercent(), sr.Totals.IntensePercent(), analysis.FormatSeconds(sr.Totals.TimeS))
	} else {
		w.printf("\n%s total: %s\n", sr.Sport, analysis.FormatSeconds(sr.Totals.TimeS))
	}
}

// SessionTable prints the zone rows and the 80/20 line of one session.
func SessionTable(w io.Writer, rep analysis.SessionReport) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Zone\tTime\tPercent\t\n")
	for _, z := range rep.Zones {
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t\n", z.Zone, z.Time, z.Percent)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n80/20 - Easy: %.1f%% | Intense: %.1f%% | Total: %s\n",
		rep.Ratio.EasyPercent, rep.Ratio.IntensePercent, rep.Total)
	if rep.AvgPaceMinPerKm > 0 {
		fmt.Fprintf(w, "Avg pace: %s /km\n", formatPace(rep.AvgPaceMinPerKm))
	}
}

func renderSummary(w *errWriter, week string, res rollup.Week) {
	w.printf("\n%s\n", banner)
	if res.HasSplit {
		w.printf("Week %s (running + cycling):\n", week)
		w.printf("Easy: %.1f%% | Intense: %.1f%% | Total: %s\n",
			res.EasyPercent, res.IntensePercent, analysis.FormatSeconds(res.Zone.TimeS))
	} else {
		w.printf("Week %s: no running or cycling time\n", week)
	}
	w.printf("\nWeekly volume (running + cycling + swimming):\n")
	w.printf("Running: %s | Cycling: %s | Swimming: %s\n",
		analysis.FormatSeconds(res.Running.Totals.TimeS),
		analysis.FormatSeconds(res.Cycling.Totals.TimeS),
		analysis.FormatSeconds(res.SwimTimeS))
	w.printf("Total: %s\n", analysis.FormatSeconds(res.TotalTimeS))

	if failed := res.Failures(); len(failed) > 0 {
		w.printf("\nFailed sessions:\n")
		for _, o := range failed {
			w.printf("  %s %s: %v\n", o.Sport, o.ID, o.Err)
		}
	}
	if empty := res.Empty(); len(empty) > 0 {
		w.printf("\nSessions without data:\n")
		for _, o := range empty {
			w.printf("  %s %s\n", o.Sport, o.ID)
		}
	}
	w.printf("%s\n", banner)
}

// formatPace renders min/km as M:SS.
func formatPace(minPerKm float64) string {
	sec := int(minPerKm*60 + 0.5)
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}

// errWriter keeps the first write error so rendering code stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func (e *errWriter) printf(format string, args ...any) {
	fmt.Fprintf(e, format, args...)
}
