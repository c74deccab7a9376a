// Tests for the SQLite backend lifecycle.
package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mesh-intelligence/wikigames/pkg/types"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	if err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}

	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer b.Detach()

	dbPath := filepath.Join(tmpDir, types.StoreFileName)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("%s not created", types.StoreFileName)
	}

	if err := b.Attach(config); err != types.ErrAlreadyAttached {
		t.Errorf("expected ErrAlreadyAttached, got %v", err)
	}
}

func TestBackend_AttachCreatesNestedDataDir(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "a", "b")

	b := NewBackend()
	if err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir}); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer b.Detach()

	if _, err := os.Stat(filepath.Join(dataDir, types.StoreFileName)); err != nil {
		t.Errorf("database not created in nested dir: %v", err)
	}
}

func TestBackend_AttachInvalidConfig(t *testing.T) {
	b := NewBackend()
	if err := b.Attach(types.Config{Backend: "", DataDir: t.TempDir()}); err != types.ErrBackendEmpty {
		t.Errorf("expected ErrBackendEmpty, got %v", err)
	}
	if err := b.Attach(types.Config{Backend: "room", DataDir: t.TempDir()}); err != types.ErrBackendUnknown {
		t.Errorf("expected ErrBackendUnknown, got %v", err)
	}
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend()
	b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()})

	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}

	// Verify idempotent
	if err := b.Detach(); err != nil {
		t.Errorf("second Detach should not error, got %v", err)
	}

	ctx := context.Background()
	if _, err := b.GetAllGames(ctx); err != types.ErrStoreDetached {
		t.Errorf("GetAllGames: expected ErrStoreDetached, got %v", err)
	}
	if err := b.InsertConsole(ctx, types.ConsoleRecord{Name: "x"}); err != types.ErrStoreDetached {
		t.Errorf("InsertConsole: expected ErrStoreDetached, got %v", err)
	}
}

func TestBackend_ReattachKeepsRows(t *testing.T) {
	ctx := context.Background()
	config := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}

	b := NewBackend()
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if err := b.InsertGame(ctx, types.GameRecord{Name: "Doom", Description: "Demons"}); err != nil {
		t.Fatalf("InsertGame failed: %v", err)
	}
	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}

	if err := b.Attach(config); err != nil {
		t.Fatalf("second Attach failed: %v", err)
	}
	defer b.Detach()

	games, err := b.GetAllGames(ctx)
	if err != nil {
		t.Fatalf("GetAllGames failed: %v", err)
	}
	if len(games) != 1 || games[0].Name != "Doom" {
		t.Errorf("expected the stored game after reattach, got %+v", games)
	}
}

func TestShared_ConcurrentFirstAccess(t *testing.T) {
	t.Cleanup(func() { ResetShared() })
	config := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}

	const callers = 8
	got := make([]*Backend, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b, err := Shared(config)
			if err != nil {
				t.Errorf("Shared failed: %v", err)
				return
			}
			got[i] = b
		}(i)
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		if got[i] != got[0] {
			t.Fatalf("caller %d got a different backend", i)
		}
	}

	if err := ResetShared(); err != nil {
		t.Fatalf("ResetShared failed: %v", err)
	}
	if _, err := got[0].GetAllGames(context.Background()); err != types.ErrStoreDetached {
		t.Errorf("expected shared backend to be detached after reset, got %v", err)
	}
}
