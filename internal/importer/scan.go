package importer

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"zonal/internal/rollup"
)

// Select lists the regular files in dir whose name starts with prefix and
// ends with ext (case-insensitive), sorted by name.
func Select(dir, prefix, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read week folder: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if len(name) < len(ext) || !strings.EqualFold(name[len(name)-len(ext):], ext) {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// Scan builds the per-sport batch for one week folder.
func (im *Importer) Scan(dir string) (rollup.Batch, error) {
	var b rollup.Batch
	var err error
	if b.Running, err = Select(dir, im.c.RunPrefix, im.c.Extension); err != nil {
		return rollup.Batch{}, err
	}
	if b.Cycling, err = Select(dir, im.c.BikePrefix, im.c.Extension); err != nil {
		return rollup.Batch{}, err
	}
	if b.Swimming, err = Select(dir, im.c.SwimPrefix, im.c.Extension); err != nil {
		return rollup.Batch{}, err
	}
	return b, nil
}
