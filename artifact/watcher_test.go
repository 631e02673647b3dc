package artifact

import (
	"testing"
	"time"
)

func loadedStore(t *testing.T, dir string) (*Store, *Bundle) {
	t.Helper()
	writeArtifacts(t, dir, validArtifacts())

	store := NewStore()
	bundle, status, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.Swap(bundle, status)
	return store, bundle
}

func TestWatcherKeepsBundleOnFailedReload(t *testing.T) {
	dir := t.TempDir()
	store, original := loadedStore(t, dir)

	watcher, err := WatchDir(dir, store, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer watcher.Close()

	// Corrupt one blob; the reload must fail and the active bundle and
	// generation must survive.
	writeArtifacts(t, dir, map[string]string{ModelFile: `{"version": `})
	time.Sleep(4 * reloadDelay)

	current, generation := store.Current()
	if current != original {
		t.Fatal("failed reload replaced the active bundle")
	}
	if generation != 1 {
		t.Fatalf("failed reload changed the generation: %d", generation)
	}
}

func TestWatcherSwapsOnValidUpdate(t *testing.T) {
	dir := t.TempDir()
	store, original := loadedStore(t, dir)

	reloads := make(chan struct{}, 8)
	watcher, err := WatchDir(dir, store, func() { reloads <- struct{}{} })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer watcher.Close()

	// Break the bundle, then restore a valid set: the next successful
	// reload must install a fresh bundle at a later generation.
	writeArtifacts(t, dir, map[string]string{ModelFile: `{"version": `})
	time.Sleep(4 * reloadDelay)
	writeArtifacts(t, dir, validArtifacts())

	select {
	case <-reloads:
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	current, generation := store.Current()
	if current == original {
		t.Fatal("expected a fresh bundle after restore")
	}
	if generation < 2 {
		t.Fatalf("expected generation >= 2 after swap, got %d", generation)
	}
	if status := store.Status(); !status.ModelLoaded || !status.ScalerLoaded || !status.EncodersLoaded {
		t.Fatalf("expected fully loaded status, got %+v", status)
	}
}
