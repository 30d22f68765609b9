package export

import (
	"time"

	"github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"zonal/internal/rollup"
)

type zoneRow struct {
	Week       string  `parquet:"name=week, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Sport      string  `parquet:"name=sport, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Session    string  `parquet:"name=session, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	StartUTC   string  `parquet:"name=start_utc_iso, type=BYTE_ARRAY, convertedtype=UTF8"`
	Zone       string  `parquet:"name=zone, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Seconds    float64 `parquet:"name=seconds, type=DOUBLE"`
	Percent    float64 `parquet:"name=percent, type=DOUBLE"`
	EasyPct    float64 `parquet:"name=easy_pct, type=DOUBLE"`
	IntensePct float64 `parquet:"name=intense_pct, type=DOUBLE"`
}

// rows flattens the analysed sessions of w into one row per (session, zone).
// Swims and sessions without a report have no zone rows.
func rows(week string, w rollup.Week) []zoneRow {
	var out []zoneRow
	for _, sr := range w.Sports() {
		for _, o := range sr.Outcomes {
			if o.Report == nil {
				continue
			}
			for _, z := range o.Report.Zones {
				out = append(out, zoneRow{
					Week:       week,
					Sport:      o.Sport.String(),
					Session:    o.ID,
					StartUTC:   o.Report.Start.UTC().Format(time.RFC3339),
					Zone:       z.Zone,
					Seconds:    z.Seconds,
					Percent:    z.Percent,
					EasyPct:    o.Report.Ratio.EasyPercent,
					IntensePct: o.Report.Ratio.IntensePercent,
				})
			}
		}
	}
	return out
}

func write(fw source.ParquetFile, rs []zoneRow) error {
	pw, err := writer.NewParquetWriter(fw, new(zoneRow), 4)
	if err != nil {
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, r := range rs {
		if err := pw.Write(r); err != nil {
			_ = pw.WriteStop()
			return err
		}
	}
	return pw.WriteStop()
}

// WriteZones writes the week's zone table to a parquet file at path and
// returns the number of rows.
func WriteZones(path, week string, w rollup.Week) (int, error) {
	rs := rows(week, w)
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return 0, err
	}
	if err := write(fw, rs); err != nil {
		_ = fw.Close()
		return 0, err
	}
	return len(rs), fw.Close()
}

// MarshalZones is WriteZones into memory.
func MarshalZones(week string, w rollup.Week) ([]byte, error) {
	fw := buffer.NewBufferFile()
	if err := write(fw, rows(week, w)); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return append([]byte(nil), fw.Bytes()...), nil
}
