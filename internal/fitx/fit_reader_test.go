package fitx

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tormoder/fit"
)

func buildTestFIT(t *testing.T, start time.Time, hrs []uint8) []byte {
	t.Helper()

	header := fit.NewHeader(fit.V20, true)
	file, err := fit.NewFile(fit.FileTypeActivity, header)
	require.NoError(t, err)

	activity, err := file.Activity()
	require.NoError(t, err)

	for i, hr := range hrs {
		rec := fit.NewRecordMsg()
		rec.Timestamp = start.Add(time.Duration(i) * 10 * time.Second)
		rec.HeartRate = hr
		rec.Speed = 3000 // 3 m/s
		rec.Cadence = 88
		activity.Records = append(activity.Records, rec)
	}

	session := fit.NewSessionMsg()
	session.Timestamp = start.Add(time.Duration(len(hrs)) * 10 * time.Second)
	session.StartTime = start
	session.Sport = fit.SportRunning
	activity.Sessions = append(activity.Sessions, session)

	var buf bytes.Buffer
	require.NoError(t, fit.Encode(&buf, file, binary.LittleEndian))
	return buf.Bytes()
}

func TestDecodeRecords(t *testing.T) {
	start := time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)
	data := buildTestFIT(t, start, []uint8{150, 0xFF, 185})

	meta, recs, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, fit.SportRunning.String(), meta.Sport)
	require.True(t, meta.StartTimeUTC.Equal(start))
	require.Len(t, recs, 3)

	require.True(t, recs[0].Timestamp.Equal(start))
	require.NotNil(t, recs[0].HR)
	require.Equal(t, 150, *recs[0].HR)
	require.Nil(t, recs[1].HR, "invalid heart rate must decode as missing")
	require.Equal(t, 185, *recs[2].HR)

	require.NotNil(t, recs[0].SpeedMPS)
	require.InDelta(t, 3.0, *recs[0].SpeedMPS, 1e-9)
	require.NotNil(t, recs[0].Cad)
	require.Equal(t, 88, *recs[0].Cad)
	require.Nil(t, recs[0].PowerW)
	require.Nil(t, recs[0].Lat)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte("not a fit file at all")))
	require.Error(t, err)
}

func TestSportReadersSelectFields(t *testing.T) {
	start := time.Date(2025, 6, 3, 18, 30, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "R_session.fit")
	require.NoError(t, os.WriteFile(path, buildTestFIT(t, start, []uint8{140, 141}), 0o644))

	run, err := ReadRunning(path)
	require.NoError(t, err)
	require.Len(t, run, 2)
	require.NotNil(t, run[0].SpeedMPS)
	require.NotNil(t, run[0].HR)

	bike, err := ReadCycling(path)
	require.NoError(t, err)
	require.Len(t, bike, 2)
	require.NotNil(t, bike[0].Cad)
	require.Nil(t, bike[0].DistanceM)

	swim, err := ReadSwimming(path)
	require.NoError(t, err)
	require.Len(t, swim, 2)
	require.Nil(t, swim[0].HR)
	require.Nil(t, swim[0].SpeedMPS)
	require.True(t, swim[1].Timestamp.Equal(start.Add(10*time.Second)))
}

func TestReadMissingFile(t *testing.T) {
	_, err := ReadRunning(filepath.Join(t.TempDir(), "nope.fit"))
	require.Error(t, err)
}

func TestSelectKeepsTimestamp(t *testing.T) {
	hr := 120
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	r := Record{Timestamp: ts, HR: &hr}
	require.Nil(t, r.Select(SwimmingFields).HR)
	require.True(t, r.Select(SwimmingFields).Timestamp.Equal(ts))
	require.Equal(t, &hr, r.Select(FieldHR).HR)
}
