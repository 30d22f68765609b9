package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"zonal/internal/rollup"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

type DB struct{ *sql.DB }

// fixed width so created_at sorts as text
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Report is one persisted week run.
type Report struct {
	ID         string
	Week       string
	CreatedAt  time.Time
	LTHRRun    float64
	LTHRBike   float64
	EasyPct    sql.NullFloat64 // null when no zone-modeled time
	IntensePct sql.NullFloat64
	ZoneTimeS  float64
	SwimTimeS  float64
	TotalTimeS float64
	Log        string
}

type Session struct {
	ID         int64
	ReportID   string
	Sport      string
	Source     string
	FileHash   string
	Status     string
	Error      string
	DurationS  float64
	EasyPct    sql.NullFloat64
	IntensePct sql.NullFloat64
	StartUTC   sql.NullString
}

type SessionZone struct {
	Zone    string
	Seconds float64
	Percent float64
}

func Open(path string) (*DB, error) {
	// ensure parent directory exists (SQLite won't create parents)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(8000)&mode=rwc", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

func (db *DB) WithTx(fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func Migrate(db *DB) error {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.Up(db.DB, "migrations")
}

// SaveWeek stores a week and all its sessions in one transaction and returns
// the new report id. hashes maps session ids to content fingerprints.
func (db *DB) SaveWeek(week string, th rollup.Thresholds, w rollup.Week, hashes map[string]string, logLines []string) (string, error) {
	id := uuid.NewString()
	err := db.WithTx(func(tx *sql.Tx) error {
		var easy, intense sql.NullFloat64
		if w.HasSplit {
			easy = sql.NullFloat64{Float64: w.EasyPercent, Valid: true}
			intense = sql.NullFloat64{Float64: w.IntensePercent, Valid: true}
		}
		if _, err := tx.Exec(`INSERT INTO reports(
			id,week,created_at,lthr_run,lthr_bike,easy_pct,intense_pct,zone_time_s,swim_time_s,total_time_s,log
		) VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
			id, week, time.Now().UTC().Format(timeLayout), th.Running, th.Cycling,
			easy, intense, w.Zone.TimeS, w.SwimTimeS, w.TotalTimeS, strings.Join(logLines, "\n")); err != nil {
			return err
		}
		for _, sr := range w.Sports() {
			for _, o := range sr.Outcomes {
				if err := insertSession(tx, id, o, hashes[o.ID]); err != nil {
					return fmt.Errorf("session %s: %w", o.ID, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func insertSession(tx *sql.Tx, reportID string, o rollup.Outcome, hash string) error {
	var errText string
	if o.Err != nil && o.Status == rollup.StatusFailed {
		errText = o.Err.Error()
	}
	var easy, intense sql.NullFloat64
	var start sql.NullString
	if o.Report != nil {
		easy = sql.NullFloat64{Float64: o.Report.Ratio.EasyPercent, Valid: true}
		intense = sql.NullFloat64{Float64: o.Report.Ratio.IntensePercent, Valid: true}
		start = sql.NullString{String: o.Report.Start.UTC().Format(time.RFC3339), Valid: true}
	}
	res, err := tx.Exec(`INSERT INTO sessions(report_id,sport,source,file_hash,status,error,duration_s,easy_pct,intense_pct,start_time_utc)
	VALUES(?,?,?,?,?,?,?,?,?,?)`,
		reportID, o.Sport.String(), o.ID, hash, o.Status.String(), errText, o.Duration.Seconds(), easy, intense, start)
	if err != nil {
		return err
	}
	if o.Report == nil || len(o.Report.Zones) == 0 {
		return nil
	}
	sessionID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO session_zones(session_id,zone,seconds,percent) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, z := range o.Report.Zones {
		if _, err := stmt.Exec(sessionID, z.Zone, z.Seconds, z.Percent); err != nil {
			return err
		}
	}
	return nil
}

const reportColumns = `id,week,created_at,lthr_run,lthr_bike,easy_pct,intense_pct,zone_time_s,swim_time_s,total_time_s,log`

func scanReport(row interface{ Scan(...any) error }) (Report, error) {
	var r Report
	var created string
	if err := row.Scan(&r.ID, &r.Week, &created, &r.LTHRRun, &r.LTHRBike, &r.EasyPct, &r.IntensePct,
		&r.ZoneTimeS, &r.SwimTimeS, &r.TotalTimeS, &r.Log); err != nil {
		return Report{}, err
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return Report{}, fmt.Errorf("report %s created_at: %w", r.ID, err)
	}
	r.CreatedAt = t
	return r, nil
}

// LatestReport returns the most recent report for week, or sql.ErrNoRows.
func (db *DB) LatestReport(week string) (Report, error) {
	row := db.QueryRow(`SELECT `+reportColumns+` FROM reports WHERE week = ? ORDER BY created_at DESC LIMIT 1`, week)
	return scanReport(row)
}

func (db *DB) ListReports() ([]Report, error) {
	rows, err := db.Query(`SELECT ` + reportColumns + ` FROM reports ORDER BY week, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (db *DB) ReportSessions(reportID string) ([]Session, error) {
	rows, err := db.Query(`SELECT id,report_id,sport,source,file_hash,status,error,duration_s,easy_pct,intense_pct,start_time_utc
		FROM sessions WHERE report_id = ? ORDER BY id`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.ReportID, &s.Sport, &s.Source, &s.FileHash, &s.Status, &s.Error,
			&s.DurationS, &s.EasyPct, &s.IntensePct, &s.StartUTC); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (db *DB) SessionZones(sessionID int64) ([]SessionZone, error) {
	rows, err := db.Query(`SELECT zone, seconds, percent FROM session_zones WHERE session_id = ? ORDER BY rowid`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionZone
	for rows.Next() {
		var z SessionZone
		if err := rows.Scan(&z.Zone, &z.Seconds, &z.Percent); err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	return out, rows.Err()
}

// LookupReportByHash returns the week of the latest report that already
// contained a session with this fingerprint.
func (db *DB) LookupReportByHash(hash string) (string, error) {
	if hash == "" {
		return "", sql.ErrNoRows
	}
	var week string
	err := db.QueryRow(`SELECT r.week FROM sessions s JOIN reports r ON r.id = s.report_id
		WHERE s.file_hash = ? ORDER BY r.created_at DESC LIMIT 1`, hash).Scan(&week)
	return week, err
}

func (db *DB) DeleteReport(id string) error {
	res, err := db.Exec(`DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool { return errors.Is(err, sql.ErrNoRows) }
