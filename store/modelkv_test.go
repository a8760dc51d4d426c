package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rushteam/movierec/core"
)

func testModel(version string) *core.Model {
	return &core.Model{
		Version:   version,
		TrainedAt: 1700000000,
		Neighbors: map[int64][]core.NeighborEdge{
			1: {{MovieID: 1, NeighborMovieID: 2, Similarity: 0.8}},
		},
		Popularity: []core.PopularityRecord{
			{MovieID: 2, NumRatings: 10, MeanRating: 4.2, BayesScore: 4.1},
		},
	}
}

func TestModelKVLoadBeforePublish(t *testing.T) {
	models := NewModelKV(NewMemoryStore(), "test:model")
	if _, err := models.Load(context.Background()); !core.IsStoreNotFound(err) {
		t.Errorf("expected ErrStoreNotFound, got %v", err)
	}
}

func TestModelKVRoundTrip(t *testing.T) {
	ctx := context.Background()
	models := NewModelKV(NewMemoryStore(), "test:model")

	want := testModel("v1")
	if err := models.Publish(ctx, want); err != nil {
		t.Fatal(err)
	}

	got, err := models.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
}

func TestModelKVLoadsLatestVersion(t *testing.T) {
	ctx := context.Background()
	models := NewModelKV(NewMemoryStore(), "test:model")

	if err := models.Publish(ctx, testModel("v1")); err != nil {
		t.Fatal(err)
	}
	if err := models.Publish(ctx, testModel("v2")); err != nil {
		t.Fatal(err)
	}

	got, err := models.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Version != "v2" {
		t.Errorf("version = %q, want v2", got.Version)
	}
}

func TestModelKVPublishWritesRankZSet(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	models := NewModelKV(kv, "test:model")

	if err := models.Publish(ctx, testModel("v1")); err != nil {
		t.Fatal(err)
	}

	members, err := kv.ZRange(ctx, models.RankKey("v1"), 0, -1)
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 1 || members[0] != "2" {
		t.Errorf("rank zset = %v, want [2]", members)
	}
}

// BatchSet 失败时指针不切换：旧版本保持权威。
func TestModelKVFailedPublishKeepsOldVersion(t *testing.T) {
	ctx := context.Background()
	kv := &failingBatchSetStore{MemoryStore: NewMemoryStore()}
	models := NewModelKV(kv, "test:model")

	if err := models.Publish(ctx, testModel("v1")); err != nil {
		t.Fatal(err)
	}

	kv.fail = true
	if err := models.Publish(ctx, testModel("v2")); err == nil {
		t.Fatal("expected publish error")
	}

	got, err := models.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Version != "v1" {
		t.Errorf("version = %q, want v1 (old snapshot stays authoritative)", got.Version)
	}
}

func TestModelKVPublishRejectsNil(t *testing.T) {
	models := NewModelKV(NewMemoryStore(), "test:model")
	if err := models.Publish(context.Background(), nil); err == nil {
		t.Error("expected error for nil model")
	}
	if err := models.Publish(context.Background(), &core.Model{}); err == nil {
		t.Error("expected error for missing version")
	}
}

type failingBatchSetStore struct {
	*MemoryStore
	fail bool
}

func (s *failingBatchSetStore) BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error {
	if s.fail {
		return errors.New("batch set failed")
	}
	return s.MemoryStore.BatchSet(ctx, kvs, ttl...)
}
