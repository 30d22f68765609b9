// Package importlog is the run log of one week analysis: every line goes to
// the std logger and the most recent ones are kept for the stored report.
package importlog

import (
	"fmt"
	"log"
	"sync"
)

const maxLines = 500

var (
	mu    sync.Mutex
	ring  [maxLines]string
	next  int // slot for the next line
	count int
)

// Printf logs one progress line of the current run.
func Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Print(msg)

	mu.Lock()
	ring[next] = msg
	next = (next + 1) % maxLines
	if count < maxLines {
		count++
	}
	mu.Unlock()
}

// Snapshot returns the last n lines oldest first, or all kept lines if n <= 0.
func Snapshot(n int) []string {
	mu.Lock()
	defer mu.Unlock()
	if n <= 0 || n > count {
		n = count
	}
	out := make([]string, n)
	first := (next - n + maxLines) % maxLines
	for i := range out {
		out[i] = ring[(first+i)%maxLines]
	}
	return out
}

// Reset starts a new run.
func Reset() {
	mu.Lock()
	ring = [maxLines]string{}
	next, count = 0, 0
	mu.Unlock()
}
