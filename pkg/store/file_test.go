package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/tagwatch/tagwatch-go/pkg/geo"
	"github.com/tagwatch/tagwatch-go/pkg/subscription"
)

func TestFileStore(t *testing.T) {
	t.Run("LoadNonExistent", func(t *testing.T) {
		fs, err := OpenFileStore(filepath.Join(t.TempDir(), "nonexistent.json"))
		if err != nil {
			t.Fatalf("OpenFileStore() error = %v", err)
		}
		list, _ := fs.List(context.Background())
		if len(list) != 0 {
			t.Errorf("List() = %d entries, want 0", len(list))
		}
	})

	t.Run("SurvivesReopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "state.json")
		ctx := context.Background()

		fs, err := OpenFileStore(path)
		if err != nil {
			t.Fatalf("OpenFileStore() error = %v", err)
		}
		place := subscription.Place{ID: "home", Name: "Home", Center: geo.Point{Latitude: 52.52, Longitude: 13.405}, RadiusMeters: 100}
		if _, err := fs.PutPlace(ctx, place); err != nil {
			t.Fatalf("PutPlace() error = %v", err)
		}
		sub, err := fs.Insert(ctx, subscription.Subscription{
			Type:       subscription.TypeApp,
			EventKind:  subscription.EventGeofenceExit,
			PlaceTagID: "home",
			IsActive:   true,
		})
		if err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		fs.Close()

		reopened, err := OpenFileStore(path)
		if err != nil {
			t.Fatalf("reopen error = %v", err)
		}
		got, err := reopened.GetByID(ctx, sub.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.Place == nil || got.Place.Name != "Home" {
			t.Errorf("Place = %+v, want Home", got.Place)
		}
		if got.Type != subscription.TypeApp {
			t.Errorf("Type = %v, want APP", got.Type)
		}
	})

	t.Run("VersionStamped", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		fs, _ := OpenFileStore(path)
		if _, err := fs.PutPlace(context.Background(), subscription.Place{ID: "p", Center: geo.Point{}, RadiusMeters: 1}); err != nil {
			t.Fatalf("PutPlace() error = %v", err)
		}

		state, err := fs.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if state.Version != StateVersion {
			t.Errorf("Version = %d, want %d", state.Version, StateVersion)
		}
		if state.SavedAt.IsZero() {
			t.Error("SavedAt not set")
		}
	})

	t.Run("FutureVersionRejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := OpenFileStore(path); err == nil {
			t.Error("OpenFileStore() accepted a future version")
		}
	})

	t.Run("CorruptFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := OpenFileStore(path); err == nil {
			t.Error("OpenFileStore() accepted corrupt JSON")
		}
	})

	t.Run("SaveFailureAbortsWrite", func(t *testing.T) {
		parent := filepath.Join(t.TempDir(), "sub")
		fs, err := OpenFileStore(filepath.Join(parent, "state.json"))
		if err != nil {
			t.Fatalf("OpenFileStore() error = %v", err)
		}
		// Occupy the parent directory path with a regular file so MkdirAll fails.
		if err := os.WriteFile(parent, nil, 0644); err != nil {
			t.Fatal(err)
		}
		_, err = fs.Insert(context.Background(), subscription.Subscription{
			Type: subscription.TypeUser, EventKind: subscription.EventGeofenceEntry, PlaceTagID: "p",
		})
		if err == nil {
			t.Fatal("Insert() succeeded despite unwritable path")
		}
		list, _ := fs.List(context.Background())
		if len(list) != 0 {
			t.Errorf("List() = %d entries after failed save, want 0", len(list))
		}
	})
}
