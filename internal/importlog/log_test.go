package importlog

import (
	"fmt"
	"io"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestSnapshot(t *testing.T) {
	Reset()
	Printf("rollup: %s", "a")
	Printf("rollup: %s", "b")
	Printf("rollup: %s", "c")

	require.Equal(t, []string{"rollup: a", "rollup: b", "rollup: c"}, Snapshot(0))
	require.Equal(t, []string{"rollup: b", "rollup: c"}, Snapshot(2))
	require.Len(t, Snapshot(10), 3)
}

func TestRingDropsOldest(t *testing.T) {
	Reset()
	for i := 0; i < maxLines+5; i++ {
		Printf("line %d", i)
	}
	all := Snapshot(0)
	require.Len(t, all, maxLines)
	require.Equal(t, "line 5", all[0])
	require.Equal(t, fmt.Sprintf("line %d", maxLines+4), all[len(all)-1])
}

func TestSnapshotAfterWrapKeepsOrder(t *testing.T) {
	Reset()
	for i := 0; i < 2*maxLines+3; i++ {
		Printf("line %d", i)
	}
	require.Equal(t, []string{
		fmt.Sprintf("line %d", 2*maxLines+1),
		fmt.Sprintf("line %d", 2*maxLines+2),
	}, Snapshot(2))

	Reset()
	require.Empty(t, Snapshot(0))
}
