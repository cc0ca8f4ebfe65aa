package thumbstore_test

import (
	"bytes"
	"sort"
	"testing"

	"photocat/internal/catalog"
	"photocat/internal/thumbstore"
)

// Both store implementations must behave identically; run the same
// behavioural suite against each.
func stores(t *testing.T) map[string]catalog.ThumbnailStore {
	t.Helper()
	fsStore, err := thumbstore.NewFileSystemStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}
	return map[string]catalog.ThumbnailStore{
		"memory":     thumbstore.NewMemoryStore(),
		"filesystem": fsStore,
	}
}

func TestThumbnailStore(t *testing.T) {
	t.Run("put then get round-trips", func(t *testing.T) {
		for name, store := range stores(t) {
			t.Run(name, func(t *testing.T) {
				want := []byte{0xFF, 0xD8, 0x01, 0x02}
				if err := store.Put("f1", "a.jpg", want); err != nil {
					t.Fatalf("Put() error = %v", err)
				}
				got, err := store.Get("f1", "a.jpg")
				if err != nil {
					t.Fatalf("Get() error = %v", err)
				}
				if !bytes.Equal(got, want) {
					t.Errorf("Get() = %x, want %x", got, want)
				}
			})
		}
	})

	t.Run("put overwrites", func(t *testing.T) {
		for name, store := range stores(t) {
			t.Run(name, func(t *testing.T) {
				if err := store.Put("f1", "a.jpg", []byte("old")); err != nil {
					t.Fatalf("Put() error = %v", err)
				}
				if err := store.Put("f1", "a.jpg", []byte("new")); err != nil {
					t.Fatalf("second Put() error = %v", err)
				}
				got, err := store.Get("f1", "a.jpg")
				if err != nil {
					t.Fatalf("Get() error = %v", err)
				}
				if string(got) != "new" {
					t.Errorf("Get() = %q, want %q", got, "new")
				}
			})
		}
	})

	t.Run("get of a missing blob fails", func(t *testing.T) {
		for name, store := range stores(t) {
			t.Run(name, func(t *testing.T) {
				if _, err := store.Get("f1", "missing.jpg"); err == nil {
					t.Error("Get() on missing blob succeeded, want error")
				}
			})
		}
	})

	t.Run("contains", func(t *testing.T) {
		for name, store := range stores(t) {
			t.Run(name, func(t *testing.T) {
				if err := store.Put("f1", "a.jpg", []byte("x")); err != nil {
					t.Fatalf("Put() error = %v", err)
				}
				ok, err := store.Contains("f1", "a.jpg")
				if err != nil || !ok {
					t.Errorf("Contains(a.jpg) = %v, %v, want true", ok, err)
				}
				ok, err = store.Contains("f1", "b.jpg")
				if err != nil || ok {
					t.Errorf("Contains(b.jpg) = %v, %v, want false", ok, err)
				}
			})
		}
	})

	t.Run("list returns folder-scoped keys", func(t *testing.T) {
		for name, store := range stores(t) {
			t.Run(name, func(t *testing.T) {
				if err := store.Put("f1", "a.jpg", []byte("x")); err != nil {
					t.Fatalf("Put() error = %v", err)
				}
				if err := store.Put("f1", "b.jpg", []byte("x")); err != nil {
					t.Fatalf("Put() error = %v", err)
				}
				if err := store.Put("f2", "c.jpg", []byte("x")); err != nil {
					t.Fatalf("Put() error = %v", err)
				}

				keys, err := store.List()
				if err != nil {
					t.Fatalf("List() error = %v", err)
				}
				sort.Strings(keys)
				want := []string{"f1/a.jpg", "f1/b.jpg", "f2/c.jpg"}
				if len(keys) != len(want) {
					t.Fatalf("List() = %v, want %v", keys, want)
				}
				for i := range want {
					if keys[i] != want[i] {
						t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
					}
				}
			})
		}
	})

	t.Run("delete removes a single blob", func(t *testing.T) {
		for name, store := range stores(t) {
			t.Run(name, func(t *testing.T) {
				if err := store.Put("f1", "a.jpg", []byte("x")); err != nil {
					t.Fatalf("Put() error = %v", err)
				}
				if err := store.Delete(catalog.BlobKey("f1", "a.jpg")); err != nil {
					t.Fatalf("Delete() error = %v", err)
				}
				if ok, _ := store.Contains("f1", "a.jpg"); ok {
					t.Error("blob still present after Delete()")
				}
			})
		}
	})

	t.Run("delete of a missing blob fails", func(t *testing.T) {
		for name, store := range stores(t) {
			t.Run(name, func(t *testing.T) {
				if err := store.Delete("f1/missing.jpg"); err == nil {
					t.Error("Delete() on missing blob succeeded, want error")
				}
			})
		}
	})

	t.Run("delete folder clears only that folder", func(t *testing.T) {
		for name, store := range stores(t) {
			t.Run(name, func(t *testing.T) {
				if err := store.Put("f1", "a.jpg", []byte("x")); err != nil {
					t.Fatalf("Put() error = %v", err)
				}
				if err := store.Put("f2", "b.jpg", []byte("x")); err != nil {
					t.Fatalf("Put() error = %v", err)
				}

				if err := store.DeleteFolder("f1"); err != nil {
					t.Fatalf("DeleteFolder() error = %v", err)
				}
				if ok, _ := store.Contains("f1", "a.jpg"); ok {
					t.Error("f1 blob survived DeleteFolder(f1)")
				}
				if ok, _ := store.Contains("f2", "b.jpg"); !ok {
					t.Error("f2 blob lost by DeleteFolder(f1)")
				}
			})
		}
	})
}

func TestMemoryStore_PutCopiesData(t *testing.T) {
	store := thumbstore.NewMemoryStore()
	data := []byte("original")
	if err := store.Put("f1", "a.jpg", data); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	data[0] = 'X'

	got, err := store.Get("f1", "a.jpg")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "original" {
		t.Errorf("Get() = %q, caller mutation leaked into the store", got)
	}
}
