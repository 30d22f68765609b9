package importer

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"

	"zonal/internal/fitx"
	"zonal/internal/rollup"
)

// Fingerprint is the hex blake2b-256 of the file content.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// folderReader reads sessions from one week folder with the sport's reader.
func folderReader(dir string) rollup.Reader {
	return rollup.ReaderFunc(func(sport rollup.Sport, id string) ([]fitx.Record, error) {
		path := filepath.Join(dir, id)
		switch sport {
		case rollup.Running:
			return fitx.ReadRunning(path)
		case rollup.Cycling:
			return fitx.ReadCycling(path)
		case rollup.Swimming:
			return fitx.ReadSwimming(path)
		}
		return nil, fmt.Errorf("no reader for %s", sport)
	})
}
