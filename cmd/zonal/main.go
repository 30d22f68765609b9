package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"zonal/internal/cfg"
	"zonal/internal/export"
	"zonal/internal/importer"
	"zonal/internal/report"
	"zonal/internal/store"
)

// outputs says where a run writes besides the store.
type outputs struct {
	stdout      io.Writer
	reportFile  bool
	parquetPath string
}

func main() {
	configPath := flag.String("config", "", "path to config")
	dbPath := flag.String("db", "", "sqlite database (overrides db_path)")
	lthrRun := flag.Float64("lthr-run", 0, "running LTHR in bpm (overrides lthr_run)")
	lthrBike := flag.Float64("lthr-bike", 0, "cycling LTHR in bpm (overrides lthr_bike)")
	maxGap := flag.Int("max-gap", -1, "ignore sample gaps longer than this many seconds, 0 disables (overrides max_gap_s)")
	parquetPath := flag.String("parquet", "", "also write the zone table to this parquet file")
	noDB := flag.Bool("no-db", false, "do not store the report")
	noFile := flag.Bool("no-file", false, "do not write report_<week>.txt into the folder")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: zonal [flags] <week-folder>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	actualConfigPath := *configPath
	if actualConfigPath == "" {
		actualConfigPath = "./zonal.json"
	}
	c := cfg.Load(actualConfigPath)
	if *dbPath != "" {
		c.DBPath = *dbPath
	}
	if *lthrRun > 0 {
		c.LTHRRun = *lthrRun
	}
	if *lthrBike > 0 {
		c.LTHRBike = *lthrBike
	}
	if *maxGap >= 0 {
		c.MaxGapS = *maxGap
	}
	if err := c.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	var db *store.DB
	if !*noDB {
		var err error
		db, err = store.Open(c.DBPath)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		if err := store.Migrate(db); err != nil {
			db.Close()
			log.Fatalf("migrate: %v", err)
		}
	}

	err := run(c, db, flag.Arg(0), outputs{
		stdout:      os.Stdout,
		reportFile:  !*noFile,
		parquetPath: *parquetPath,
	})
	if db != nil {
		db.Close()
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}

// run analyses one week folder. The report is written even when storing it
// fails; that error is returned afterwards.
func run(c cfg.Config, db *store.DB, folder string, o outputs) error {
	sum, err := importer.New(c, db).RunWeek(folder)
	var saveErr error
	if errors.Is(err, importer.ErrSave) {
		saveErr = err
	} else if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	out := o.stdout
	if o.reportFile {
		reportPath := filepath.Join(folder, fmt.Sprintf("report_%s.txt", sum.Week))
		fmt.Fprintln(o.stdout, reportPath)
		f, err := os.Create(reportPath)
		if err != nil {
			return fmt.Errorf("report file: %w", err)
		}
		defer f.Close()
		out = io.MultiWriter(o.stdout, f)
	}

	if err := report.Render(out, sum.Week, sum.Result); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if o.parquetPath != "" {
		n, err := export.WriteZones(o.parquetPath, sum.Week, sum.Result)
		if err != nil {
			return fmt.Errorf("parquet: %w", err)
		}
		log.Printf("parquet: %d zone row(s) -> %s", n, o.parquetPath)
	}
	if sum.ReportID != "" {
		log.Printf("stored report %s", sum.ReportID)
	}
	return saveErr
}
