package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestPutGet(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key := Key([]byte("input"), "gap", 20, 20)

	var e Entry
	if ok, err := c.Get(key, &e); err != nil || ok {
		t.Fatalf("Get on empty cache = %v, %v", ok, err)
	}
	if err := c.Put(key, &Entry{Query: "gap", X: 14, Y: 11}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	ok, err := c.Get(key, &e)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if e.X != 14 || e.Y != 11 || e.Query != "gap" || e.Schema != schemaVersion || e.SavedAt.IsZero() {
		t.Fatalf("unexpected entry %+v", e)
	}
}

func TestKeyDependsOnEverything(t *testing.T) {
	base := Key([]byte("a"), "row", 10)
	for name, other := range map[string]Digest{
		"input":  Key([]byte("b"), "row", 10),
		"query":  Key([]byte("a"), "gap", 10),
		"params": Key([]byte("a"), "row", 11),
	} {
		if other == base {
			t.Fatalf("key ignores %s", name)
		}
	}
	if Key([]byte("a"), "row", 10) != base {
		t.Fatalf("key is not deterministic")
	}
}

func TestGetIgnoresOtherSchema(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key := Key(nil, "row", 0)
	data, err := msgpack.Marshal(&Entry{Schema: schemaVersion + 1, Count: 5})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	var e Entry
	if ok, err := c.Get(key, &e); err != nil || ok {
		t.Fatalf("stale schema Get = %v, %v", ok, err)
	}
}

func TestClean(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if n, err := c.Clean(); err != nil || n != 0 {
		t.Fatalf("Clean on empty cache = %d, %v", n, err)
	}
	for i := int64(0); i < 3; i++ {
		if err := c.Put(Key(nil, "row", i), &Entry{Query: "row", Count: uint64(i)}); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	if n, err := c.Clean(); err != nil || n != 3 {
		t.Fatalf("Clean = %d, %v; want 3", n, err)
	}
}

func TestDefaultDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultDir("beaconzone")
	if err != nil {
		t.Fatalf("DefaultDir: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg", "beaconzone") {
		t.Fatalf("DefaultDir = %q", dir)
	}
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *DiskCache
	if err := c.Put(Key(nil, "row"), &Entry{}); err != nil {
		t.Fatalf("nil Put: %v", err)
	}
	var e Entry
	if ok, err := c.Get(Key(nil, "row"), &e); ok || err != nil {
		t.Fatalf("nil Get = %v, %v", ok, err)
	}
}
