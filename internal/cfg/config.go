package cfg

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	DBPath     string  `json:"db_path"`
	LTHRRun    float64 `json:"lthr_run"`
	LTHRBike   float64 `json:"lthr_bike"`
	RunPrefix  string  `json:"run_prefix"`
	BikePrefix string  `json:"bike_prefix"`
	SwimPrefix string  `json:"swim_prefix"`
	Extension  string  `json:"extension"`
	MaxGapS    int     `json:"max_gap_s"`
}

func Default() Config {
	return Config{
		DBPath:     "./data/zonal.db",
		RunPrefix:  "R",
		BikePrefix: "C",
		SwimPrefix: "S",
		Extension:  ".fit",
		MaxGapS:    0, // no cap, every interval counts
	}
}

func Load(path string) Config {
	c := Default()
	f, err := os.Open(path)
	if err != nil {
		log.Printf("config: using defaults (%v)", err)
		return c
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&c); err != nil {
		log.Printf("config decode: %v (using defaults)", err)
		return Default()
	}
	return c
}

// MaxGap is MaxGapS as a duration; 0 disables the cap.
func (c Config) MaxGap() time.Duration {
	if c.MaxGapS <= 0 {
		return 0
	}
	return time.Duration(c.MaxGapS) * time.Second
}

// Validate reports every problem at once. Without both thresholds no zone
// can be computed, so the run must not start.
func (c Config) Validate() error {
	var problems []string
	if !(c.LTHRRun > 0) {
		problems = append(problems, "lthr_run must be a positive bpm value")
	}
	if !(c.LTHRBike > 0) {
		problems = append(problems, "lthr_bike must be a positive bpm value")
	}
	if strings.TrimSpace(c.Extension) == "" {
		problems = append(problems, "extension is required")
	}
	prefixes := map[string]string{"run_prefix": c.RunPrefix, "bike_prefix": c.BikePrefix, "swim_prefix": c.SwimPrefix}
	seen := map[string]string{}
	for _, key := range []string{"run_prefix", "bike_prefix", "swim_prefix"} {
		p := prefixes[key]
		if p == "" {
			problems = append(problems, key+" is required")
			continue
		}
		if other, dup := seen[p]; dup {
			problems = append(problems, fmt.Sprintf("%s duplicates %s (%q)", key, other, p))
		}
		seen[p] = key
	}
	if c.MaxGapS < 0 {
		problems = append(problems, "max_gap_s must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
