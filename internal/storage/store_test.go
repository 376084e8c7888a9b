package storage

import (
	"path/filepath"
	"testing"

	"github.com/lunamir/aria/internal/logging"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"), logging.Discard())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGetMissingKey(t *testing.T) {
	store := openTestStore(t)

	if _, ok := store.Get("nope"); ok {
		t.Error("Get() ok = true for missing key")
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	store := openTestStore(t)

	if !store.Set("greeting", []byte(`"hello"`)) {
		t.Fatal("Set() failed")
	}

	data, ok := store.Get("greeting")
	if !ok {
		t.Fatal("Get() ok = false after Set")
	}
	if string(data) != `"hello"` {
		t.Errorf("Get() = %q, want %q", data, `"hello"`)
	}
}

func TestSetOverwrites(t *testing.T) {
	store := openTestStore(t)

	store.Set("k", []byte("1"))
	store.Set("k", []byte("2"))

	data, _ := store.Get("k")
	if string(data) != "2" {
		t.Errorf("Get() = %q, want %q", data, "2")
	}
}

func TestRemove(t *testing.T) {
	store := openTestStore(t)

	store.Set("k", []byte("1"))
	store.Remove("k")

	if _, ok := store.Get("k"); ok {
		t.Error("Get() ok = true after Remove")
	}

	// Removing a missing key is fine
	if !store.Remove("never-existed") {
		t.Error("Remove() of missing key reported failure")
	}
}

func TestJSONHelpers(t *testing.T) {
	store := openTestStore(t)

	type settings struct {
		Volume  float64 `json:"volume"`
		Shuffle bool    `json:"shuffle"`
	}

	in := settings{Volume: 0.8, Shuffle: true}
	if !store.SetJSON("settings", in) {
		t.Fatal("SetJSON() failed")
	}

	var out settings
	if !store.GetJSON("settings", &out) {
		t.Fatal("GetJSON() ok = false")
	}
	if out != in {
		t.Errorf("GetJSON() = %+v, want %+v", out, in)
	}
}

func TestCorruptedValueReadsAsAbsent(t *testing.T) {
	store := openTestStore(t)

	store.Set("bad", []byte("{not json"))

	var out map[string]string
	if store.GetJSON("bad", &out) {
		t.Error("GetJSON() ok = true for corrupted value")
	}
}
