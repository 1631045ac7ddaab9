package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/storybook/internal/model"
)

func TestGenerationKey(t *testing.T) {
	meta := model.BookMetadata{Title: "Cuentos", Author: "Ana", Language: "es"}
	titles := []string{"La Casa", "El Perro"}

	k1 := GenerationKey(model.GenerateIntroduction, meta, titles)
	k2 := GenerationKey(model.GenerateIntroduction, meta, titles)
	if k1 != k2 {
		t.Error("Expected identical requests to share a key")
	}
	if !strings.HasPrefix(k1, keyPrefix) {
		t.Errorf("Expected key prefix %q, got %q", keyPrefix, k1)
	}

	variants := []string{
		GenerationKey(model.GenerateConclusion, meta, titles),
		GenerationKey(model.GenerateIntroduction, model.BookMetadata{Title: "Cuentos", Author: "Ana", Language: "fr"}, titles),
		GenerationKey(model.GenerateIntroduction, meta, []string{"El Perro", "La Casa"}),
		GenerationKey(model.GenerateIntroduction, meta, []string{"La CasaEl Perro"}),
	}
	for i, v := range variants {
		if v == k1 {
			t.Errorf("Variant %d: expected a different key", i)
		}
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("Expected miss")
	}
	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, ok := c.Get("k"); !ok || string(got) != "v" {
		t.Errorf("Expected hit with v, got %q %v", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", c.Len())
	}

	_ = c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("Expected miss after delete")
	}
}

func TestMemoryCache_Expires(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("k", []byte("v"), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("Expected entry to expire")
	}
}

func TestDiskCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c := NewDiskCache(dir, time.Hour)
	key := GenerationKey(model.GenerateDescription, model.BookMetadata{Title: "T"}, nil)

	if _, ok := c.Get(key); ok {
		t.Error("Expected miss before first write")
	}
	if err := c.Set(key, []byte("<p>hi</p>"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, ok := c.Get(key); !ok || string(got) != "<p>hi</p>" {
		t.Errorf("Expected hit, got %q %v", got, ok)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || strings.Contains(entries[0].Name(), ":") {
		t.Errorf("Expected one portable file name, got %v", entries)
	}

	if err := c.Delete(key); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if err := c.Delete(key); err != nil {
		t.Errorf("Expected deleting a missing key to succeed, got %v", err)
	}
}

func TestDiskCache_Expired(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set("k", []byte("v"), time.Minute)
	now = now.Add(2 * time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Error("Expected expired entry to miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("Expected expired file to be removed")
	}
}

func TestDiskCache_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("Expected corrupt entry to miss")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	first := NewLayeredCache(time.Minute, dir, time.Hour)
	if err := first.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// A fresh process sees only the disk layer
	second := NewLayeredCache(time.Minute, dir, time.Hour)
	if got, ok := second.Get("k"); !ok || string(got) != "v" {
		t.Fatalf("Expected disk hit, got %q %v", got, ok)
	}
	if _, ok := second.memory.Get("k"); !ok {
		t.Error("Expected disk hit to be promoted to memory")
	}

	_ = second.Clear()
	if _, ok := second.Get("k"); ok {
		t.Error("Expected miss after clear")
	}
}

func TestNew(t *testing.T) {
	if _, ok := New(model.CacheConfig{Enabled: false}).(NopCache); !ok {
		t.Error("Expected NopCache when disabled")
	}
	if _, ok := New(model.CacheConfig{Enabled: true, MemoryTTL: time.Minute}).(*MemoryCache); !ok {
		t.Error("Expected MemoryCache without a disk dir")
	}
	if _, ok := New(model.CacheConfig{Enabled: true, MemoryTTL: time.Minute, DiskDir: t.TempDir(), DiskTTL: time.Hour}).(*LayeredCache); !ok {
		t.Error("Expected LayeredCache with a disk dir")
	}

	nop := NopCache{}
	_ = nop.Set("k", []byte("v"), 0)
	if _, ok := nop.Get("k"); ok {
		t.Error("Expected NopCache to never hit")
	}
}
