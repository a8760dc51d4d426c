package filter

import (
	"context"
	"testing"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/utils"
)

func TestSeenFilter(t *testing.T) {
	f := &SeenFilter{}
	rctx := &core.RecommendContext{
		History: core.UserHistory{{MovieID: 1}, {MovieID: 2}},
	}

	tests := []struct {
		movieID int64
		want    bool
	}{
		{1, true},
		{2, true},
		{3, false},
	}
	for _, tt := range tests {
		got, err := f.ShouldFilter(context.Background(), rctx, core.NewItem(tt.movieID))
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("ShouldFilter(movie %d) = %v, want %v", tt.movieID, got, tt.want)
		}
	}
}

func TestRuleFilter(t *testing.T) {
	rctx := &core.RecommendContext{UserID: 7}

	tests := []struct {
		name  string
		expr  string
		score float64
		want  bool
	}{
		{"score below threshold", "item.score < 1.0", 0.5, true},
		{"score above threshold", "item.score < 1.0", 2.0, false},
		{"target by id", "item.id == 318", 0, false},
		{"empty expr keeps all", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := core.NewItem(1)
			it.Score = tt.score
			f := &RuleFilter{Expr: tt.expr}
			got, err := f.ShouldFilter(context.Background(), rctx, it)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRuleFilterLabelAccess(t *testing.T) {
	it := core.NewItem(1)
	it.PutLabel("recall_source", utils.Label{Value: "popularity", Source: "recall"})

	f := &RuleFilter{Expr: `label.recall_source == "popularity"`}
	got, err := f.ShouldFilter(context.Background(), &core.RecommendContext{}, it)
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Error("expected label rule to match")
	}
}

// 表达式非法时 fail-closed：FilterNode 保留候选并打 filter_error 标记。
func TestFilterNodeFailClosed(t *testing.T) {
	node := &FilterNode{Filters: []Filter{&RuleFilter{Expr: "not valid cel ((("}}}
	items := []*core.Item{core.NewItem(1)}

	out, err := node.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d items, want 1 (fail-closed keeps candidate)", len(out))
	}
	if _, ok := out[0].Labels["filter_error"]; !ok {
		t.Error("expected filter_error label")
	}
}

func TestFilterNodeRemovesAndLabels(t *testing.T) {
	node := &FilterNode{Filters: []Filter{&SeenFilter{}}}
	rctx := &core.RecommendContext{History: core.UserHistory{{MovieID: 1}}}
	items := []*core.Item{core.NewItem(1), core.NewItem(2)}

	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].ID != 2 {
		t.Fatalf("out = %v, want only movie 2", out)
	}
	// 被过滤的候选带上原因标记（用于观测）
	if lbl, ok := items[0].Labels["filtered"]; !ok || lbl.Source != "filter.seen" {
		t.Errorf("filtered label = %v", lbl)
	}
}
