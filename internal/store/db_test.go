package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"zonal/internal/fitx"
	"zonal/internal/rollup"
)

var t0 = time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "sub", "zonal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(db))
	return db
}

// every 10s: easyS seconds at 150 bpm, then hardS seconds at 185.
func session(easyS, hardS int) []fitx.Record {
	var recs []fitx.Record
	off := 0
	add := func(hr int) {
		v := hr
		recs = append(recs, fitx.Record{Timestamp: t0.Add(time.Duration(off) * time.Second), HR: &v})
		off += 10
	}
	add(150)
	for i := 0; i < easyS/10; i++ {
		add(150)
	}
	for i := 0; i < hardS/10; i++ {
		add(185)
	}
	return recs
}

var th = rollup.Thresholds{Running: 174, Cycling: 171}

func testWeek() rollup.Week {
	r := &rollup.Rollup{
		Thresholds: th,
		Reader: rollup.ReaderFunc(func(sport rollup.Sport, id string) ([]fitx.Record, error) {
			switch id {
			case "R1.fit":
				return session(80, 20), nil
			case "C1.fit":
				return nil, errors.New("decode fit: bad header")
			case "S1.fit":
				return []fitx.Record{{Timestamp: t0}, {Timestamp: t0.Add(30 * time.Minute)}}, nil
			}
			return nil, errors.New("unknown")
		}),
	}
	return r.Week(rollup.Batch{
		Running:  []string{"R1.fit"},
		Cycling:  []string{"C1.fit"},
		Swimming: []string{"S1.fit"},
	})
}

func TestSaveWeekRoundTrip(t *testing.T) {
	db := openTest(t)

	hashes := map[string]string{"R1.fit": "aa11", "S1.fit": "bb22"}
	id, err := db.SaveWeek("2025-W23", th, testWeek(), hashes, []string{"rollup: one", "rollup: two"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	rep, err := db.LatestReport("2025-W23")
	require.NoError(t, err)
	require.Equal(t, id, rep.ID)
	require.Equal(t, 174.0, rep.LTHRRun)
	require.Equal(t, 171.0, rep.LTHRBike)
	require.True(t, rep.EasyPct.Valid)
	require.Equal(t, 80.0, rep.EasyPct.Float64)
	require.Equal(t, 20.0, rep.IntensePct.Float64)
	require.Equal(t, 100.0, rep.ZoneTimeS)
	require.Equal(t, 1800.0, rep.SwimTimeS)
	require.Equal(t, 1900.0, rep.TotalTimeS)
	require.Equal(t, "rollup: one\nrollup: two", rep.Log)
	require.WithinDuration(t, time.Now(), rep.CreatedAt, time.Minute)

	sessions, err := db.ReportSessions(id)
	require.NoError(t, err)
	require.Len(t, sessions, 3)

	run := sessions[0]
	require.Equal(t, "running", run.Sport)
	require.Equal(t, "R1.fit", run.Source)
	require.Equal(t, "aa11", run.FileHash)
	require.Equal(t, "ok", run.Status)
	require.Equal(t, 100.0, run.DurationS)
	require.Equal(t, 80.0, run.EasyPct.Float64)
	require.True(t, run.StartUTC.Valid)

	bike := sessions[1]
	require.Equal(t, "failed", bike.Status)
	require.Contains(t, bike.Error, "bad header")
	require.False(t, bike.EasyPct.Valid)

	swim := sessions[2]
	require.Equal(t, "swimming", swim.Sport)
	require.Equal(t, 1800.0, swim.DurationS)
	require.False(t, swim.EasyPct.Valid)

	zs, err := db.SessionZones(run.ID)
	require.NoError(t, err)
	require.Equal(t, []SessionZone{
		{Zone: "Z2", Seconds: 80, Percent: 80},
		{Zone: "Z5", Seconds: 20, Percent: 20},
	}, zs)

	zs, err = db.SessionZones(swim.ID)
	require.NoError(t, err)
	require.Empty(t, zs)
}

func TestWeekWithoutSplitStoresNull(t *testing.T) {
	db := openTest(t)
	var w rollup.Week
	id, err := db.SaveWeek("2025-W24", th, w, nil, nil)
	require.NoError(t, err)

	rep, err := db.LatestReport("2025-W24")
	require.NoError(t, err)
	require.Equal(t, id, rep.ID)
	require.False(t, rep.EasyPct.Valid)
	require.False(t, rep.IntensePct.Valid)
}

func TestLatestReportPicksNewest(t *testing.T) {
	db := openTest(t)
	w := testWeek()
	first, err := db.SaveWeek("2025-W23", th, w, nil, nil)
	require.NoError(t, err)
	second, err := db.SaveWeek("2025-W23", th, w, nil, nil)
	require.NoError(t, err)
	_, err = db.SaveWeek("2025-W22", th, w, nil, nil)
	require.NoError(t, err)

	rep, err := db.LatestReport("2025-W23")
	require.NoError(t, err)
	require.Equal(t, second, rep.ID)

	all, err := db.ListReports()
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "2025-W22", all[0].Week)
	require.Equal(t, first, all[1].ID)
	require.Equal(t, second, all[2].ID)

	_, err = db.LatestReport("2030-W01")
	require.True(t, IsNotFound(err))
}

func TestLookupReportByHash(t *testing.T) {
	db := openTest(t)
	_, err := db.SaveWeek("2025-W23", th, testWeek(), map[string]string{"R1.fit": "aa11"}, nil)
	require.NoError(t, err)

	week, err := db.LookupReportByHash("aa11")
	require.NoError(t, err)
	require.Equal(t, "2025-W23", week)

	_, err = db.LookupReportByHash("ffff")
	require.True(t, IsNotFound(err))
	_, err = db.LookupReportByHash("")
	require.True(t, IsNotFound(err))
}

func TestDeleteReportCascades(t *testing.T) {
	db := openTest(t)
	id, err := db.SaveWeek("2025-W23", th, testWeek(), map[string]string{"R1.fit": "aa11"}, nil)
	require.NoError(t, err)
	sessions, err := db.ReportSessions(id)
	require.NoError(t, err)

	require.NoError(t, db.DeleteReport(id))
	require.True(t, IsNotFound(db.DeleteReport(id)))

	left, err := db.ReportSessions(id)
	require.NoError(t, err)
	require.Empty(t, left)
	zs, err := db.SessionZones(sessions[0].ID)
	require.NoError(t, err)
	require.Empty(t, zs)

	_, err = db.LookupReportByHash("aa11")
	require.True(t, IsNotFound(err))
}
