package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jumpLine(system string) string {
	return fmt.Sprintf(`{"timestamp":"2024-03-01T18:02:11Z","event":"FSDJump","StarSystem":%q}`+"\n", system)
}

func startWatcher(t *testing.T, dir string) (*Watcher, chan Location) {
	t.Helper()
	locations := make(chan Location, 16)
	w := NewWatcher(dir, func(loc Location) { locations <- loc })
	w.PollInterval = 25 * time.Millisecond
	require.NoError(t, w.Start())
	t.Cleanup(w.Stop)
	return w, locations
}

func waitForSystem(t *testing.T, locations chan Location, system string) {
	t.Helper()
	select {
	case loc := <-locations:
		assert.Equal(t, system, loc.System)
	case <-time.After(3 * time.Second):
		t.Fatalf("no location event for %q", system)
	}
}

func TestWatcher_CatchUpReportsOnlyLastLocation(t *testing.T) {
	dir := t.TempDir()
	contents := jumpLine("Lave") + jumpLine("Diso") + jumpLine("Leesti")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Journal.2024-03-01T180211.01.log"), []byte(contents), 0644))

	_, locations := startWatcher(t, dir)
	waitForSystem(t, locations, "Leesti")

	select {
	case loc := <-locations:
		t.Fatalf("unexpected replayed location %q", loc.System)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_ReportsAppendedJumps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Journal.2024-03-01T180211.01.log")
	require.NoError(t, os.WriteFile(path, []byte(jumpLine("Lave")), 0644))

	_, locations := startWatcher(t, dir)
	waitForSystem(t, locations, "Lave")

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(jumpLine("Diso") + jumpLine("Leesti"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	waitForSystem(t, locations, "Diso")
	waitForSystem(t, locations, "Leesti")
}

func TestWatcher_RollsToNewerJournalFile(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "Journal.2024-03-01T180211.01.log")
	require.NoError(t, os.WriteFile(old, []byte(jumpLine("Lave")), 0644))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	_, locations := startWatcher(t, dir)
	waitForSystem(t, locations, "Lave")

	newer := filepath.Join(dir, "Journal.2024-03-01T190000.01.log")
	require.NoError(t, os.WriteFile(newer, []byte(jumpLine("Orerve")), 0644))

	waitForSystem(t, locations, "Orerve")
}

func TestWatcher_PartialLinesHeldUntilComplete(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Journal.2024-03-01T180211.01.log")
	require.NoError(t, os.WriteFile(path, []byte(jumpLine("Lave")), 0644))

	_, locations := startWatcher(t, dir)
	waitForSystem(t, locations, "Lave")

	full := jumpLine("Diso")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(full[:10])
	require.NoError(t, err)

	select {
	case loc := <-locations:
		t.Fatalf("partial line delivered as %q", loc.System)
	case <-time.After(150 * time.Millisecond):
	}

	_, err = f.WriteString(full[10:])
	require.NoError(t, err)
	require.NoError(t, f.Close())

	waitForSystem(t, locations, "Diso")
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "missing"), nil)
	require.Error(t, w.Start())
}
