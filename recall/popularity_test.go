package recall

import (
	"context"
	"strconv"
	"testing"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/store"
)

func popularityModel() core.ModelProvider {
	return core.StaticModel{Model: &core.Model{
		Popularity: []core.PopularityRecord{
			{MovieID: 20, BayesScore: 4.5},
			{MovieID: 30, BayesScore: 4.2},
			{MovieID: 10, BayesScore: 3.8},
		},
	}}
}

func TestPopularityFromSnapshot(t *testing.T) {
	r := &Popularity{Models: popularityModel(), TopN: 2}
	items, err := r.Recall(context.Background(), &core.RecommendContext{})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].ID != 20 || items[1].ID != 30 {
		t.Errorf("order = %d,%d, want 20,30", items[0].ID, items[1].ID)
	}
	if items[0].Score != 4.5 {
		t.Errorf("score = %v, want 4.5", items[0].Score)
	}
	if lbl, ok := items[0].Labels["recall_source"]; !ok || lbl.Value != "popularity" {
		t.Errorf("recall_source label = %v", lbl)
	}
}

func TestPopularityFromZSet(t *testing.T) {
	kv := store.NewMemoryStore()
	ctx := context.Background()
	for movieID, score := range map[int64]float64{100: 4.9, 200: 4.1, 300: 3.0} {
		if err := kv.ZAdd(ctx, "rank", score, strconv.FormatInt(movieID, 10)); err != nil {
			t.Fatal(err)
		}
	}

	// zset 配置下优先读 zset，快照只是兜底
	r := &Popularity{Models: popularityModel(), Store: kv, Key: "rank", TopN: 2}
	items, err := r.Recall(ctx, &core.RecommendContext{})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].ID != 100 || items[1].ID != 200 {
		t.Fatalf("items = %v, want movies 100,200", items)
	}
	if items[0].Score != 4.9 {
		t.Errorf("score = %v, want 4.9", items[0].Score)
	}
}

func TestPopularityZSetMissFallsBackToSnapshot(t *testing.T) {
	r := &Popularity{Models: popularityModel(), Store: store.NewMemoryStore(), Key: "missing", TopN: 1}
	items, err := r.Recall(context.Background(), &core.RecommendContext{})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != 20 {
		t.Errorf("items = %v, want snapshot top movie 20", items)
	}
}

func TestPopularityModelUnavailable(t *testing.T) {
	r := &Popularity{Models: core.StaticModel{}}
	_, err := r.Recall(context.Background(), &core.RecommendContext{})
	if !core.IsModelUnavailable(err) {
		t.Errorf("expected MODEL_UNAVAILABLE, got %v", err)
	}
}
