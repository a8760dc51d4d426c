package store

import (
	"context"
	"testing"

	"github.com/rushteam/movierec/core"
)

func TestMemoryStoreGetSet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("expected ErrStoreNotFound, got %v", err)
	}

	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Get = %q,%v, want v", got, err)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("expected ErrStoreNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreBatch(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	kvs := map[string][]byte{"a": []byte("1"), "b": []byte("2")}
	if err := s.BatchSet(ctx, kvs); err != nil {
		t.Fatal(err)
	}

	got, err := s.BatchGet(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Errorf("BatchGet = %v", got)
	}
}

func TestMemoryStoreZSet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for member, score := range map[string]float64{"a": 1.0, "b": 3.0, "c": 2.0, "d": 3.0} {
		if err := s.ZAdd(ctx, "rank", score, member); err != nil {
			t.Fatal(err)
		}
	}

	// 分数降序；同分按成员升序
	got, err := s.ZRange(ctx, "rank", 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"b", "d", "c"}
	if len(got) != len(want) {
		t.Fatalf("ZRange = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ZRange[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	score, err := s.ZScore(ctx, "rank", "b")
	if err != nil || score != 3.0 {
		t.Errorf("ZScore = %v,%v, want 3.0", score, err)
	}
	if _, err := s.ZScore(ctx, "rank", "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("expected ErrStoreNotFound, got %v", err)
	}
}

func TestMemoryStoreHash(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.HSet(ctx, "h", "f1", []byte("v1")); err != nil {
		t.Fatal(err)
	}
	if err := s.HSet(ctx, "h", "f2", []byte("v2")); err != nil {
		t.Fatal(err)
	}

	got, err := s.HGet(ctx, "h", "f1")
	if err != nil || string(got) != "v1" {
		t.Errorf("HGet = %q,%v, want v1", got, err)
	}

	all, err := s.HGetAll(ctx, "h")
	if err != nil || len(all) != 2 {
		t.Errorf("HGetAll = %v,%v, want 2 fields", all, err)
	}
}
