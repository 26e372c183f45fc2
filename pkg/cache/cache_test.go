package cache

import (
	"context"
	"testing"
	"time"
)

func TestFileCache_GetSet(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() failed: %v", err)
	}
	ctx := context.Background()

	tests := []struct {
		name string
		key  string
		data []byte
	}{
		{"simple", "key1", []byte("value1")},
		{"url key", "https://api.openrouteservice.org/v2/directions/foot-walking?start=1,2&end=3,4", []byte(`{"features":[]}`)},
		{"empty value", "key3", []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Set(ctx, tt.key, tt.data, time.Hour); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}
			got, hit, err := c.Get(ctx, tt.key)
			if err != nil {
				t.Fatalf("Get() failed: %v", err)
			}
			if !hit {
				t.Fatal("Get() reported miss for existing key")
			}
			if string(got) != string(tt.data) {
				t.Errorf("Get() = %q, want %q", got, tt.data)
			}
		})
	}
}

func TestFileCache_Miss(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	_, hit, err := c.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hit {
		t.Error("Get() reported hit for missing key")
	}
}

func TestFileCache_Expiry(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	ctx := context.Background()

	if err := c.Set(ctx, "short", []byte("x"), -time.Second); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	_, hit, err := c.Get(ctx, "short")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if hit {
		t.Error("Get() returned expired entry")
	}
}

func TestFileCache_NoExpiry(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	ctx := context.Background()

	if err := c.Set(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	_, hit, err := c.Get(ctx, "forever")
	if err != nil || !hit {
		t.Errorf("Get() = hit=%v err=%v, want hit with zero TTL", hit, err)
	}
}

func TestFileCache_Delete(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	ctx := context.Background()

	_ = c.Set(ctx, "gone", []byte("x"), 0)
	if err := c.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "gone"); hit {
		t.Error("Get() reported hit after Delete()")
	}
	// Deleting a missing key is fine.
	if err := c.Delete(ctx, "never-existed"); err != nil {
		t.Errorf("Delete() of missing key = %v, want nil", err)
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("NullCache reported a hit")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

func TestHash_Deterministic(t *testing.T) {
	a := Hash([]byte("key"))
	b := Hash([]byte("key"))
	if a != b {
		t.Error("Hash() not deterministic")
	}
	if len(a) != 64 {
		t.Errorf("Hash() length = %d, want 64", len(a))
	}
	if Hash([]byte("other")) == a {
		t.Error("Hash() collision for distinct inputs")
	}
}
