package importer

import (
	"errors"
	"fmt"
	"path/filepath"

	"zonal/internal/cfg"
	"zonal/internal/importlog"
	"zonal/internal/rollup"
	"zonal/internal/store"
)

// ErrSave marks a week that was analysed but could not be stored.
var ErrSave = errors.New("store report")

type Importer struct {
	c  cfg.Config
	db *store.DB
}

// New returns an importer; db may be nil to skip persistence.
func New(c cfg.Config, db *store.DB) *Importer {
	return &Importer{c: c, db: db}
}

// Summary is the outcome of one week run.
type Summary struct {
	Folder string
	Week   string
	Batch  rollup.Batch
	Result rollup.Week
	// Hashes maps session ids to content fingerprints.
	Hashes map[string]string
	// ReportID is empty when nothing was stored.
	ReportID string
}

// WeekLabel is the folder's base name, e.g. 2025-W23.
func WeekLabel(dir string) string {
	return filepath.Base(filepath.Clean(dir))
}

func (im *Importer) Thresholds() rollup.Thresholds {
	return rollup.Thresholds{Running: im.c.LTHRRun, Cycling: im.c.LTHRBike}
}

// RunWeek analyses every session file in dir and stores the report.
// Session failures are part of the summary; only folder and database
// errors are returned. On an ErrSave error Result is complete.
func (im *Importer) RunWeek(dir string) (Summary, error) {
	importlog.Reset()
	sum := Summary{Folder: dir, Week: WeekLabel(dir)}

	b, err := im.Scan(dir)
	if err != nil {
		return sum, err
	}
	sum.Batch = b
	importlog.Printf("import: %s -> %d run, %d bike, %d swim file(s)",
		dir, len(b.Running), len(b.Cycling), len(b.Swimming))

	sum.Hashes = im.fingerprints(dir, sum.Week, b)

	r := &rollup.Rollup{
		Reader:     folderReader(dir),
		Thresholds: im.Thresholds(),
		MaxGap:     im.c.MaxGap(),
		Logf:       importlog.Printf,
	}
	sum.Result = r.Week(b)
	if n := len(sum.Result.Failures()); n > 0 {
		importlog.Printf("import: %d session(s) failed", n)
	}

	if im.db == nil {
		return sum, nil
	}
	id, err := im.db.SaveWeek(sum.Week, im.Thresholds(), sum.Result, sum.Hashes, importlog.Snapshot(0))
	if err != nil {
		return sum, fmt.Errorf("%w for %s: %w", ErrSave, sum.Week, err)
	}
	sum.ReportID = id
	importlog.Printf("store: saved report %s for %s", id, sum.Week)
	return sum, nil
}

// fingerprints hashes every file of the batch and flags content that was
// already seen, in this folder or in a stored earlier week.
func (im *Importer) fingerprints(dir, week string, b rollup.Batch) map[string]string {
	hashes := map[string]string{}
	first := map[string]string{}
	for _, ids := range [][]string{b.Running, b.Cycling, b.Swimming} {
		for _, id := range ids {
			h, err := Fingerprint(filepath.Join(dir, id))
			if err != nil {
				importlog.Printf("import: hash %s: %v", id, err)
				continue
			}
			hashes[id] = h
			if prev, dup := first[h]; dup {
				importlog.Printf("import: %s has the same content as %s", id, prev)
			} else {
				first[h] = id
			}
			if im.db == nil {
				continue
			}
			if prevWeek, err := im.db.LookupReportByHash(h); err == nil && prevWeek != week {
				importlog.Printf("import: %s was already counted in %s", id, prevWeek)
			}
		}
	}
	return hashes
}
